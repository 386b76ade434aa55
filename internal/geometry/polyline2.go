package geometry

// Polyline2 is a piecewise-linear curve through an ordered list of points.
type Polyline2 struct {
	points     []Point2
	segments   []LineSegment2
	cumLengths []float64
	length     float64
}

func NewPolyline2(points []Point2) *Polyline2 {
	p := &Polyline2{points: points}
	for i := 0; i+1 < len(points); i++ {
		seg := LineSegment2{points[i], points[i+1]}
		p.segments = append(p.segments, seg)
		p.cumLengths = append(p.cumLengths, p.length)
		p.length += seg.Length()
	}
	return p
}

func (p *Polyline2) Points() []Point2         { return p.points }
func (p *Polyline2) Segments() []LineSegment2 { return p.segments }
func (p *Polyline2) Length() float64          { return p.length }

// ClosestPoint returns the nearest point on the polyline to q, its arc length
// from the start, and the signed distance to q (positive when q lies right of
// the local segment direction).
func (p *Polyline2) ClosestPoint(q Point2) (Point2, float64, float64) {
	bestDist := -1.0
	var bestPoint Point2
	var bestArc float64
	var bestRight bool

	for i, seg := range p.segments {
		closest, frac, right := seg.ClosestPoint(q)
		d := closest.DistanceTo(q)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestPoint = closest
			bestArc = p.cumLengths[i] + frac*seg.Length()
			bestRight = right
		}
	}

	signed := bestDist
	if !bestRight {
		signed = -signed
	}
	return bestPoint, bestArc, signed
}

// PointAt returns the point at the given arc length from the start, clamped
// to the polyline's extent, along with the heading of the containing segment.
func (p *Polyline2) PointAt(arc float64) (Point2, float64) {
	if len(p.segments) == 0 {
		return Point2{}, 0
	}
	if arc <= 0 {
		return p.points[0], p.segments[0].Heading()
	}
	for i, seg := range p.segments {
		l := seg.Length()
		if arc <= p.cumLengths[i]+l {
			frac := 0.0
			if l > 0 {
				frac = (arc - p.cumLengths[i]) / l
			}
			return seg.P1.Add(seg.P2.Sub(seg.P1).Scale(frac)), seg.Heading()
		}
	}
	last := p.segments[len(p.segments)-1]
	return last.P2, last.Heading()
}
