package zone

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/tourguide/pkg/adapters/static"
	"github.com/aretw0/tourguide/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Length is an absolute offset or size, in points or as a percentage of
// the canvas. The zero value is unset.
type Length struct {
	Value   float64
	Percent bool
	Set     bool
}

// Points returns a length of v points.
func Points(v float64) Length {
	return Length{Value: v, Set: true}
}

// Percent returns a length of v percent of the canvas.
func Percent(v float64) Length {
	return Length{Value: v, Percent: true, Set: true}
}

// ParseLength parses "12", "12.5" or "50%". An empty string is unset.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Length{}, nil
	}
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", s, err)
	}
	if pct {
		return Percent(v), nil
	}
	return Points(v), nil
}

// UnmarshalYAML accepts numbers and percentage strings.
func (l *Length) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := ParseLength(n.Value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// String formats l the way ParseLength reads it.
func (l Length) String() string {
	if !l.Set {
		return ""
	}
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return v + "%"
	}
	return v
}

func (l Length) resolve(total float64) float64 {
	if l.Percent {
		return total * l.Value / 100
	}
	return l.Value
}

// Position places a box absolutely inside the canvas.
type Position struct {
	Top    Length `yaml:"top"`
	Left   Length `yaml:"left"`
	Right  Length `yaml:"right"`
	Bottom Length `yaml:"bottom"`
	Width  Length `yaml:"width"`
	Height Length `yaml:"height"`
}

// Resolve computes the box on canvas. On each axis an explicit size wins;
// otherwise the box stretches between both edges. A missing start edge is
// derived from the end edge, and defaults to the canvas origin.
func (p Position) Resolve(canvas domain.Rect) domain.Rect {
	x, w := axis(p.Left, p.Right, p.Width, canvas.Width)
	y, h := axis(p.Top, p.Bottom, p.Height, canvas.Height)
	return domain.Rect{X: canvas.X + x, Y: canvas.Y + y, Width: w, Height: h}
}

func axis(start, end, size Length, total float64) (float64, float64) {
	var pos, length float64
	switch {
	case size.Set:
		length = size.resolve(total)
	case start.Set && end.Set:
		length = total - start.resolve(total) - end.resolve(total)
	}
	switch {
	case start.Set:
		pos = start.resolve(total)
	case end.Set:
		pos = total - end.resolve(total) - length
	}
	if length < 0 {
		length = 0
	}
	return pos, length
}

// CanvasFunc reports the current canvas rectangle.
type CanvasFunc func() domain.Rect

// ByPosition builds zone n over an absolutely positioned box. The box is
// resolved against canvas on every measurement, so it follows layout changes.
func ByPosition(n int, pos Position, canvas CanvasFunc, opts ...Option) domain.Step {
	target := static.Func(func(ctx context.Context) (domain.Rect, error) {
		if err := ctx.Err(); err != nil {
			return domain.Rect{}, err
		}
		c := canvas()
		if c.Empty() {
			return domain.Rect{}, fmt.Errorf("canvas not laid out: %w", domain.ErrInvalidMeasurement)
		}
		return pos.Resolve(c), nil
	})
	return New(n, append([]Option{WithTarget(target)}, opts...)...)
}
