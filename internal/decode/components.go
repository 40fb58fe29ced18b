package decode

import (
	"github.com/scenetext/stdetect/internal/mempool"
)

// compStats accumulates per-component statistics during labeling.
type compStats struct {
	count int
	sum   float64
	minX  int
	minY  int
	maxX  int
	maxY  int
}

// binarize creates a binary mask from a probability map with threshold t.
// The mask comes from the memory pool; callers return it via mempool.PutBool.
func binarize(prob []float32, w, h int, t float32) []bool {
	mask := mempool.GetBool(w * h)
	for i, p := range prob {
		if p >= t {
			mask[i] = true
		}
	}
	return mask
}

// connectedComponents labels 4-connected components of the mask in raster
// scan order and returns their stats plus the label map. Label i+1 belongs
// to comps[i]; discovery order is the raster order of the seed pixels.
func connectedComponents(mask []bool, prob []float32, w, h int) ([]compStats, []int) {
	labels := make([]int, w*h)
	var comps []compStats
	stack := make([]int, 0, 256)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			seed := y*w + x
			if !mask[seed] || labels[seed] != 0 {
				continue
			}
			label := len(comps) + 1
			st := compStats{minX: x, minY: y, maxX: x, maxY: y}
			labels[seed] = label
			stack = append(stack[:0], seed)
			for len(stack) > 0 {
				ci := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cx, cy := ci%w, ci/w
				st.absorb(prob[ci], cx, cy)
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					ni := ny*w + nx
					if mask[ni] && labels[ni] == 0 {
						labels[ni] = label
						stack = append(stack, ni)
					}
				}
			}
			comps = append(comps, st)
		}
	}

	return comps, labels
}

func (st *compStats) absorb(p float32, x, y int) {
	st.count++
	st.sum += float64(p)
	if x < st.minX {
		st.minX = x
	}
	if y < st.minY {
		st.minY = y
	}
	if x > st.maxX {
		st.maxX = x
	}
	if y > st.maxY {
		st.maxY = y
	}
}

// mean returns the average probability across the component's pixels.
func (st compStats) mean() float64 {
	if st.count == 0 {
		return 0
	}
	return st.sum / float64(st.count)
}
