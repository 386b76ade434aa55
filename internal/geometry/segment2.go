package geometry

import "math"

type LineSegment2 struct {
	P1, P2 Point2
}

func (s LineSegment2) Length() float64 {
	return s.P1.DistanceTo(s.P2)
}

// Heading returns the angle of the segment direction in radians.
func (s LineSegment2) Heading() float64 {
	d := s.P2.Sub(s.P1)
	return math.Atan2(d.Y, d.X)
}

// UnitDirection returns the normalized direction from P1 to P2.
func (s LineSegment2) UnitDirection() Point2 {
	d := s.P2.Sub(s.P1)
	l := d.Norm()
	if l == 0 {
		return Point2{1, 0}
	}
	return d.Scale(1 / l)
}

// ClosestPoint returns the point on the segment closest to q, the fraction of
// the segment length at which it occurs, and whether q lies on the right of
// the segment direction.
func (s LineSegment2) ClosestPoint(q Point2) (Point2, float64, bool) {
	d := s.P2.Sub(s.P1)
	l2 := d.Dot(d)
	var frac float64
	if l2 > 0 {
		frac = q.Sub(s.P1).Dot(d) / l2
	}
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	closest := s.P1.Add(d.Scale(frac))
	right := d.Cross(q.Sub(s.P1)) < 0
	return closest, frac, right
}
