package decode

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenetext/stdetect/internal/mempool"
	"github.com/scenetext/stdetect/internal/testutil"
)

func TestBinarize(t *testing.T) {
	prob := []float32{0.1, 0.3, 0.29, 0.9}
	mask := binarize(prob, 2, 2, 0.3)
	defer mempool.PutBool(mask)
	assert.Equal(t, []bool{false, true, false, true}, mask)
}

func TestConnectedComponentsTwoBlobs(t *testing.T) {
	w, h := 20, 10
	prob := testutil.ProbMap(w, h)
	testutil.SetRect(prob, w, h, image.Rect(1, 1, 5, 4), 0.8)
	testutil.SetRect(prob, w, h, image.Rect(10, 5, 16, 9), 0.6)

	mask := binarize(prob, w, h, 0.3)
	defer mempool.PutBool(mask)
	comps, labels := connectedComponents(mask, prob, w, h)
	require.Len(t, comps, 2)

	// discovery order follows the raster order of the seed pixels
	assert.Equal(t, 1, comps[0].minY)
	assert.Equal(t, 5, comps[1].minY)

	assert.Equal(t, 4*3, comps[0].count)
	assert.Equal(t, 1, comps[0].minX)
	assert.Equal(t, 4, comps[0].maxX)
	assert.Equal(t, 3, comps[0].maxY)
	assert.InDelta(t, 0.8, comps[0].mean(), 1e-6)

	assert.Equal(t, 6*4, comps[1].count)
	assert.InDelta(t, 0.6, comps[1].mean(), 1e-6)

	assert.Equal(t, 1, labels[1*w+1])
	assert.Equal(t, 2, labels[5*w+10])
	assert.Equal(t, 0, labels[0])
}

func TestConnectedComponentsDiagonalNotConnected(t *testing.T) {
	w, h := 4, 4
	prob := testutil.ProbMap(w, h)
	prob[0*w+0] = 1
	prob[1*w+1] = 1

	mask := binarize(prob, w, h, 0.5)
	defer mempool.PutBool(mask)
	comps, _ := connectedComponents(mask, prob, w, h)
	assert.Len(t, comps, 2)
}

func TestTraceContourRectangle(t *testing.T) {
	w, h := 12, 8
	prob := testutil.ProbMap(w, h)
	testutil.SetRect(prob, w, h, image.Rect(2, 2, 8, 6), 1)

	mask := binarize(prob, w, h, 0.5)
	defer mempool.PutBool(mask)
	comps, labels := connectedComponents(mask, prob, w, h)
	require.Len(t, comps, 1)

	poly := traceContour(labels, w, h, 1, comps[0])
	require.NotEmpty(t, poly)

	// all contour points lie on the component boundary
	for _, p := range poly {
		onEdge := p.X == 2 || p.X == 7 || p.Y == 2 || p.Y == 5
		assert.True(t, onEdge, "point %v not on boundary", p)
	}
}

func TestTraceContourSinglePixel(t *testing.T) {
	w, h := 5, 5
	prob := testutil.ProbMap(w, h)
	prob[2*w+2] = 1

	mask := binarize(prob, w, h, 0.5)
	defer mempool.PutBool(mask)
	comps, labels := connectedComponents(mask, prob, w, h)
	require.Len(t, comps, 1)

	poly := traceContour(labels, w, h, 1, comps[0])
	require.NotEmpty(t, poly)
	for _, p := range poly {
		assert.Equal(t, 2.0, p.X)
		assert.Equal(t, 2.0, p.Y)
	}
}
