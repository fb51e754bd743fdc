// Package decor generates the floating background shapes and the button
// ripple of the sign-in page.
package decor

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// DefaultPalette is used when the theme has no decor colours.
var DefaultPalette = []string{"#6366f1", "#8b5cf6", "#ec4899", "#f43f5e", "#f59e0b", "#10b981"}

// DefaultCount is the number of shapes on the page.
const DefaultCount = 12

// Shape is one floating background element.
type Shape struct {
	Size     float64 // px, 30-150
	X, Y     float64 // percent of the page, 0-100
	Delay    time.Duration
	Duration time.Duration
	Color    string
	Opacity  float64 // 0.1-0.4
	Blur     float64 // px, 5-20
	ZIndex   int     // 0-4
	Radius1  float64 // percent, 20-50
	Radius2  float64 // 100 - Radius1
	Rotation float64 // degrees
}

// Generate returns n shapes drawn from rng. An empty palette yields no shapes.
func Generate(rng *rand.Rand, palette []string, n int) []Shape {
	if len(palette) == 0 || n <= 0 {
		return nil
	}
	shapes := make([]Shape, n)
	for i := range shapes {
		r1 := rng.Float64()*30 + 20
		shapes[i] = Shape{
			Size:     rng.Float64()*120 + 30,
			X:        rng.Float64() * 100,
			Y:        rng.Float64() * 100,
			Delay:    seconds(rng.Float64() * 5),
			Duration: seconds(rng.Float64()*15 + 10),
			Color:    palette[rng.IntN(len(palette))],
			Opacity:  rng.Float64()*0.3 + 0.1,
			Blur:     rng.Float64()*15 + 5,
			ZIndex:   rng.IntN(5),
			Radius1:  r1,
			Radius2:  100 - r1,
			Rotation: rng.Float64() * 360,
		}
	}
	return shapes
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// CSS renders the inline style of the shape.
func (s Shape) CSS() string {
	r1, r2 := s.Radius1, s.Radius2
	parts := []string{
		"position: absolute",
		fmt.Sprintf("width: %.1fpx", s.Size),
		fmt.Sprintf("height: %.1fpx", s.Size),
		"background: " + s.Color,
		fmt.Sprintf("border-radius: %.1f%% %.1f%% %.1f%% %.1f%% / %.1f%% %.1f%% %.1f%% %.1f%%", r1, r2, r1, r2, r2, r1, r2, r1),
		fmt.Sprintf("left: %.1f%%", s.X),
		fmt.Sprintf("top: %.1f%%", s.Y),
		fmt.Sprintf("opacity: %.2f", s.Opacity),
		fmt.Sprintf("filter: blur(%.1fpx)", s.Blur),
		fmt.Sprintf("z-index: %d", s.ZIndex),
		fmt.Sprintf("animation: float %.2fs ease-in-out %.2fs infinite alternate", s.Duration.Seconds(), s.Delay.Seconds()),
		"pointer-events: none",
		fmt.Sprintf("transform: rotate(%.1fdeg)", s.Rotation),
		"will-change: transform, opacity",
	}
	return strings.Join(parts, "; ") + ";"
}

// Cell maps the shape onto a width x height character grid.
func (s Shape) Cell(width, height int) (col, row int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	col = min(int(s.X/100*float64(width)), width-1)
	row = min(int(s.Y/100*float64(height)), height-1)
	return col, row
}

// Glyph is the terminal character for the shape, chosen by size.
func (s Shape) Glyph() string {
	switch {
	case s.Size >= 110:
		return "●"
	case s.Size >= 70:
		return "○"
	default:
		return "·"
	}
}

// Offset is the drift of the shape at elapsed time, in cells, for a float
// animation that alternates back and forth over Duration after Delay.
func (s Shape) Offset(elapsed time.Duration) int {
	if s.Duration <= 0 || elapsed < s.Delay {
		return 0
	}
	t := (elapsed - s.Delay) % (2 * s.Duration)
	if t > s.Duration {
		t = 2*s.Duration - t
	}
	const amplitude = 2
	return int(float64(amplitude) * float64(t) / float64(s.Duration))
}
