package decode

import "github.com/scenetext/stdetect/internal/utils"

// neighbor offsets in clockwise order: E, SE, S, SW, W, NW, N, NE.
var (
	mooreDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	mooreDY = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// traceContour extracts the boundary polygon of the labeled component using
// Moore-neighbor tracing. The search is restricted to the component's AABB
// from its stats. Returned points are pixel-center coordinates with
// collinear runs collapsed.
func traceContour(labels []int, w, h, label int, st compStats) []utils.Point {
	if label <= 0 || len(labels) != w*h {
		return nil
	}
	sx, sy := findBoundaryStart(labels, w, h, label, st)
	if sx == -1 {
		return nil
	}

	pts := make([]utils.Point, 0, 64)
	push := func(x, y int) {
		p := utils.Point{X: float64(x), Y: float64(y)}
		if n := len(pts); n >= 2 {
			a, b := pts[n-2], pts[n-1]
			if (b.X-a.X)*(p.Y-b.Y)-(b.Y-a.Y)*(p.X-b.X) == 0 {
				pts = pts[:n-1] // collinear, drop the middle point
			}
		}
		pts = append(pts, p)
	}

	push(sx, sy)
	cx, cy := sx, sy
	bx, by := sx-1, sy // backtrack starts to the left of the seed
	startCx, startCy, startBx, startBy := cx, cy, bx, by

	for steps := 0; steps < w*h*4+8; steps++ {
		nx, ny, nbx, nby, found := nextBoundaryPixel(labels, w, h, label, cx, cy, bx, by)
		if !found {
			break
		}
		bx, by = nbx, nby
		cx, cy = nx, ny
		if len(pts) == 0 || pts[len(pts)-1].X != float64(cx) || pts[len(pts)-1].Y != float64(cy) {
			push(cx, cy)
		}
		if cx == startCx && cy == startCy && bx == startBx && by == startBy {
			break
		}
	}

	// drop a duplicated closing point
	if n := len(pts); n >= 2 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	return pts
}

func isLabelAt(labels []int, w, h, label, x, y int) bool {
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return labels[y*w+x] == label
}

// findBoundaryStart locates the first pixel of the component that touches
// its exterior, falling back to any component pixel.
func findBoundaryStart(labels []int, w, h, label int, st compStats) (int, int) {
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if !isLabelAt(labels, w, h, label, x, y) {
				continue
			}
			if !isLabelAt(labels, w, h, label, x+1, y) ||
				!isLabelAt(labels, w, h, label, x-1, y) ||
				!isLabelAt(labels, w, h, label, x, y+1) ||
				!isLabelAt(labels, w, h, label, x, y-1) {
				return x, y
			}
		}
	}
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if isLabelAt(labels, w, h, label, x, y) {
				return x, y
			}
		}
	}
	return -1, -1
}

// nextBoundaryPixel scans the Moore neighborhood clockwise starting just
// past the backtrack position and returns the next component pixel along
// with the updated backtrack.
func nextBoundaryPixel(labels []int, w, h, label, cx, cy, bx, by int) (int, int, int, int, bool) {
	start := 0
	for i := 0; i < 8; i++ {
		if mooreDX[i] == bx-cx && mooreDY[i] == by-cy {
			start = (i + 1) % 8
			break
		}
	}
	for k := 0; k < 8; k++ {
		i := (start + k) % 8
		tx, ty := cx+mooreDX[i], cy+mooreDY[i]
		if isLabelAt(labels, w, h, label, tx, ty) {
			return tx, ty, cx, cy, true
		}
		bx, by = tx, ty
	}
	return 0, 0, bx, by, false
}
