// Package geometry provides planar primitives used by lane-following and
// proximity costs: points, line segments, and piecewise-linear polylines.
package geometry

import "math"

type Point2 struct {
	X, Y float64
}

func (p Point2) Add(q Point2) Point2 {
	return Point2{p.X + q.X, p.Y + q.Y}
}

func (p Point2) Sub(q Point2) Point2 {
	return Point2{p.X - q.X, p.Y - q.Y}
}

func (p Point2) Scale(f float64) Point2 {
	return Point2{p.X * f, p.Y * f}
}

func (p Point2) Dot(q Point2) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the scalar z-component of the 2D cross product.
func (p Point2) Cross(q Point2) float64 {
	return p.X*q.Y - p.Y*q.X
}

func (p Point2) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point2) DistanceTo(q Point2) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}
