package decor

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/jmylchreest/toastui/internal/eventloop"
)

// ResizeDebounce is how long the page must stop resizing before shapes are
// regenerated.
const ResizeDebounce = 250 * time.Millisecond

// Background owns the floating shapes. Like the toast manager it runs on
// the dispatch goroutine and uses the scheduler for its timers.
type Background struct {
	sched   eventloop.Scheduler
	rng     *rand.Rand
	logger  *slog.Logger
	palette []string
	count   int
	enabled bool

	shapes []Shape
	resize eventloop.Timer
	gen    uint64

	width, height int
	onChange      func([]Shape)
}

// NewBackground creates the shapes immediately. A nil rng is seeded from
// the clock.
func NewBackground(sched eventloop.Scheduler, rng *rand.Rand, palette []string, count int, logger *slog.Logger) *Background {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		seed := uint64(sched.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	b := &Background{
		sched:   sched,
		rng:     rng,
		logger:  logger,
		palette: slices.Clone(palette),
		count:   count,
		enabled: true,
	}
	b.regenerate()
	return b
}

// SetChangeCallback is called with the new shapes after each regeneration.
func (b *Background) SetChangeCallback(fn func([]Shape)) {
	b.onChange = fn
}

// Shapes returns the current shapes, or nil when decorations are disabled.
// Callers must not modify the slice.
func (b *Background) Shapes() []Shape {
	if !b.enabled {
		return nil
	}
	return b.shapes
}

// Size returns the last size passed to Resize.
func (b *Background) Size() (width, height int) {
	return b.width, b.height
}

// Configure replaces palette, count and the enabled flag and regenerates.
func (b *Background) Configure(palette []string, count int, enabled bool) {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	b.palette = slices.Clone(palette)
	b.count = count
	b.enabled = enabled
	b.regenerate()
}

// Resize records the new page size and regenerates the shapes once resizing
// has been quiet for ResizeDebounce. Each call replaces the pending timer.
func (b *Background) Resize(width, height int) {
	b.width, b.height = width, height
	b.stop()
	gen := b.gen
	b.resize = b.sched.AfterFunc(ResizeDebounce, func() {
		if b.gen != gen {
			return
		}
		b.resize = nil
		b.regenerate()
	})
}

// Pending reports whether a regeneration is waiting on the debounce.
func (b *Background) Pending() bool {
	return b.resize != nil
}

func (b *Background) stop() {
	if b.resize != nil {
		b.resize.Stop()
		b.resize = nil
	}
	b.gen++
}

// Close cancels any pending regeneration.
func (b *Background) Close() {
	b.stop()
}

func (b *Background) regenerate() {
	b.shapes = Generate(b.rng, b.palette, b.count)
	b.logger.Debug("decor regenerated", "shapes", len(b.shapes), "width", b.width, "height", b.height)
	if b.onChange != nil {
		b.onChange(b.Shapes())
	}
}
