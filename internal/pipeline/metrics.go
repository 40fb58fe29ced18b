package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	detectCalls = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stdetect",
		Subsystem: "pipeline",
		Name:      "detect_calls_total",
		Help:      "Number of Detect invocations.",
	})

	imagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stdetect",
		Subsystem: "pipeline",
		Name:      "images_processed_total",
		Help:      "Number of images run through detection.",
	})

	regionsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stdetect",
		Subsystem: "pipeline",
		Name:      "regions_detected_total",
		Help:      "Number of text regions emitted after filtering.",
	})

	detectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stdetect",
		Subsystem: "pipeline",
		Name:      "detect_duration_seconds",
		Help:      "Wall time of Detect calls.",
		Buckets:   prometheus.DefBuckets,
	})
)
