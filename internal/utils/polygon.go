package utils

import "math"

// SimplifyPolygon reduces the number of points in a polygon using the
// Douglas-Peucker algorithm with the given tolerance epsilon.
func SimplifyPolygon(pts []Point, epsilon float64) []Point {
	if len(pts) <= 3 || epsilon <= 0 {
		return append([]Point(nil), pts...)
	}
	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true
	dpSimplify(pts, 0, len(pts)-1, epsilon, keep)
	out := make([]Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

func dpSimplify(pts []Point, start, end int, eps float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDist := -1.0
	index := -1
	for i := start + 1; i < end; i++ {
		if d := segmentDistance(pts[i], pts[start], pts[end]); d > maxDist {
			maxDist = d
			index = i
		}
	}
	if maxDist > eps {
		dpSimplify(pts, start, index, eps, keep)
		keep[index] = true
		dpSimplify(pts, index, end, eps, keep)
	}
}

// segmentDistance returns the distance from point p to segment ab.
func segmentDistance(p, a, b Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	if vx == 0 && vy == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	num := math.Abs((p.X-a.X)*vy - (p.Y-a.Y)*vx)
	return num / math.Hypot(vx, vy)
}

// UnclipPolygon scales polygon points outward from the centroid by scale.
// A scale > 1 dilates the polygon to recover the extent a blurred probability
// mask tends to shrink. Non-positive scales return a copy of the input.
func UnclipPolygon(pts []Point, scale float64) []Point {
	if len(pts) == 0 || scale == 1.0 || scale <= 0 {
		return append([]Point(nil), pts...)
	}
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: cx + (p.X-cx)*scale, Y: cy + (p.Y-cy)*scale}
	}
	return out
}

// ConvexHull computes the convex hull of a set of points using the monotone
// chain algorithm. The hull is returned in CCW order without duplicating the
// first point at the end.
func ConvexHull(pts []Point) []Point {
	if len(pts) <= 1 {
		return append([]Point(nil), pts...)
	}
	p := make([]Point, len(pts))
	copy(p, pts)
	sortPointsXY(p)
	p = dedupePoints(p)
	if len(p) <= 1 {
		return p
	}
	lower := halfHull(p, false)
	upper := halfHull(p, true)
	hull := make([]Point, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

func halfHull(p []Point, reverse bool) []Point {
	out := make([]Point, 0, len(p))
	for i := range p {
		pt := p[i]
		if reverse {
			pt = p[len(p)-1-i]
		}
		for len(out) >= 2 && cross(out[len(out)-2], out[len(out)-1], pt) <= 0 {
			out = out[:len(out)-1]
		}
		out = append(out, pt)
	}
	return out
}

func dedupePoints(p []Point) []Point {
	q := p[:0]
	for i, pt := range p {
		if i == 0 || pt != p[i-1] {
			q = append(q, pt)
		}
	}
	return q
}

func sortPointsXY(p []Point) {
	// insertion sort, point counts here are small
	for i := 1; i < len(p); i++ {
		v := p[i]
		j := i - 1
		for j >= 0 && (p[j].X > v.X || (p[j].X == v.X && p[j].Y > v.Y)) {
			p[j+1] = p[j]
			j--
		}
		p[j+1] = v
	}
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// MinimumAreaRectangle computes the minimum-area enclosing rectangle of the
// points using rotating calipers over the convex hull. The four corners are
// returned in CCW order. Degenerate inputs fall back to thin rectangles.
func MinimumAreaRectangle(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	hull := ConvexHull(pts)
	switch len(hull) {
	case 0:
		return nil
	case 1:
		p := hull[0]
		return []Point{p, {p.X + 1, p.Y}, {p.X + 1, p.Y + 1}, {p.X, p.Y + 1}}
	case 2:
		a, b := hull[0], hull[1]
		px, py := 0.0, 1.0
		if length := math.Hypot(b.X-a.X, b.Y-a.Y); length > 0 {
			px, py = -(b.Y-a.Y)/length, (b.X-a.X)/length
		}
		return []Point{a, b, {b.X + px, b.Y + py}, {a.X + px, a.Y + py}}
	}

	bestArea := math.Inf(1)
	var ux, uy, vx, vy float64
	var loS, hiS, loT, hiT float64
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		ex, ey := dx/length, dy/length
		px, py := -ey, ex
		minS, maxS := math.Inf(1), math.Inf(-1)
		minT, maxT := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			s := p.X*ex + p.Y*ey
			t := p.X*px + p.Y*py
			minS = math.Min(minS, s)
			maxS = math.Max(maxS, s)
			minT = math.Min(minT, t)
			maxT = math.Max(maxT, t)
		}
		if area := (maxS - minS) * (maxT - minT); area < bestArea {
			bestArea = area
			ux, uy, vx, vy = ex, ey, px, py
			loS, hiS, loT, hiT = minS, maxS, minT, maxT
		}
	}
	return []Point{
		{X: ux*loS + vx*loT, Y: uy*loS + vy*loT},
		{X: ux*hiS + vx*loT, Y: uy*hiS + vy*loT},
		{X: ux*hiS + vx*hiT, Y: uy*hiS + vy*hiT},
		{X: ux*loS + vx*hiT, Y: uy*loS + vy*hiT},
	}
}
