// Package beadpath implements the quadratic bezier math behind the tasbeeh
// bead string: evaluating points, orienting beads along the string and mapping
// touch coordinates back to a curve parameter.
package beadpath

import (
	"errors"
	"math"
)

const (
	DefaultClosestSamples = 80
	DefaultNearSamples    = 50
	DefaultArcSamples     = 40
)

var ErrInvalidCurve = errors.New("curve control points must be finite numbers")

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve is a quadratic bezier defined by its start, control and end points.
// The zero value is a degenerate curve at the origin. Methods never mutate
// the curve and are safe for concurrent use.
type Curve struct {
	Start   Point `json:"start"`
	Control Point `json:"control"`
	End     Point `json:"end"`
}

func NewCurve(start, control, end Point) (Curve, error) {
	c := Curve{Start: start, Control: control, End: end}
	if err := c.Validate(); err != nil {
		return Curve{}, err
	}
	return c, nil
}

// ForScreen returns the hanging-string curve used by the counter screen,
// sagging towards the middle of a width x height canvas.
func ForScreen(width, height float64) Curve {
	return Curve{
		Start:   Point{X: width * 0.1, Y: height * 0.3},
		Control: Point{X: width * 0.5, Y: height * 0.7},
		End:     Point{X: width * 0.9, Y: height * 0.3},
	}
}

func (c Curve) Validate() error {
	for _, v := range []float64{c.Start.X, c.Start.Y, c.Control.X, c.Control.Y, c.End.X, c.End.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidCurve
		}
	}
	return nil
}

// PointAt evaluates B(t) = (1-t)²P0 + 2(1-t)t·P1 + t²P2. t is not clamped;
// values outside [0,1] extrapolate the parabola.
func (c Curve) PointAt(t float64) Point {
	switch t {
	case 0:
		return c.Start
	case 1:
		return c.End
	}

	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	d := t * t

	return Point{
		X: a*c.Start.X + b*c.Control.X + d*c.End.X,
		Y: a*c.Start.Y + b*c.Control.Y + d*c.End.Y,
	}
}

// TangentAngle returns the direction of B'(t) in radians.
func (c Curve) TangentAngle(t float64) float64 {
	mt := 1 - t
	dx := 2*mt*(c.Control.X-c.Start.X) + 2*t*(c.End.X-c.Control.X)
	dy := 2*mt*(c.Control.Y-c.Start.Y) + 2*t*(c.End.Y-c.Control.Y)
	return math.Atan2(dy, dx)
}

// ClosestT samples samples+1 evenly spaced parameters and returns the one
// whose point is nearest to (px, py).
func (c Curve) ClosestT(px, py float64, samples int) float64 {
	if samples < 1 {
		samples = 1
	}

	bestT := 0.0
	bestDist := math.Inf(1)

	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		p := c.PointAt(t)
		dx := p.X - px
		dy := p.Y - py
		dist := dx*dx + dy*dy
		if dist < bestDist {
			bestDist = dist
			bestT = t
		}
	}

	return bestT
}

// IsPointNear reports whether (px, py) lies within threshold of the curve.
func (c Curve) IsPointNear(px, py, threshold float64, samples int) bool {
	p := c.PointAt(c.ClosestT(px, py, samples))
	return math.Hypot(p.X-px, p.Y-py) <= threshold
}

// ArcLength approximates the length of the curve from 0 to targetT by summing
// the chords between samples+1 evenly spaced points.
func (c Curve) ArcLength(targetT float64, samples int) float64 {
	if targetT == 0 {
		return 0
	}
	if samples < 1 {
		samples = 1
	}

	length := 0.0
	prev := c.Start
	for i := 1; i <= samples; i++ {
		p := c.PointAt(targetT * float64(i) / float64(samples))
		length += math.Hypot(p.X-prev.X, p.Y-prev.Y)
		prev = p
	}

	return length
}

// ClampT bounds t to [minT, maxT]. Equal bounds collapse to that value, and
// inverted bounds resolve to maxT.
func ClampT(t, minT, maxT float64) float64 {
	if minT == maxT {
		return minT
	}
	return math.Min(math.Max(t, minT), maxT)
}
