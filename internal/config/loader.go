package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/scenetext/stdetect/internal/utils"
	"github.com/spf13/viper"
)

const envPrefix = "STDETECT"

// Load reads configuration from an optional YAML file, layering defaults,
// file values and STDETECT_* environment variables in that order. An empty
// path searches the working directory and ~/.stdetect for stdetect.yaml
// and falls back to defaults when nothing is found.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &utils.InvalidConfigurationError{
				Option: "config_file",
				Err:    fmt.Errorf("read %s: %w", path, err),
			}
		}
	} else {
		v.SetConfigName("stdetect")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.stdetect")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, &utils.InvalidConfigurationError{
					Option: "config_file",
					Err:    err,
				}
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &utils.InvalidConfigurationError{
			Option: "config_file",
			Err:    fmt.Errorf("unmarshal: %w", err),
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("Loaded configuration", "file", used)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("model_name", d.ModelName)
	v.SetDefault("graph_format", d.GraphFormat)
	v.SetDefault("context", d.Context)
	v.SetDefault("num_threads", d.NumThreads)
	v.SetDefault("rotated_bbox", d.RotatedBBox)
	v.SetDefault("auto_rotate_whole_image", d.AutoRotateWholeImage)
	v.SetDefault("detection.resized_height", d.Detection.ResizedHeight)
	v.SetDefault("detection.resized_width", d.Detection.ResizedWidth)
	v.SetDefault("detection.preserve_aspect_ratio", d.Detection.PreserveAspectRatio)
	v.SetDefault("detection.min_box_size", d.Detection.MinBoxSize)
	v.SetDefault("detection.box_score_thresh", d.Detection.BoxScoreThresh)
	v.SetDefault("detection.batch_size", d.Detection.BatchSize)
	v.SetDefault("detection.unclip_ratio", d.Detection.UnclipRatio)
	v.SetDefault("detection.binary_thresh", d.Detection.BinaryThresh)
	v.SetDefault("angle_classifier.enabled", d.AngleClassifier.Enabled)
	v.SetDefault("angle_classifier.model_name", d.AngleClassifier.ModelName)
	v.SetDefault("angle_classifier.confidence_threshold", d.AngleClassifier.ConfidenceThreshold)
}
