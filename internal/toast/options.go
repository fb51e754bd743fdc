package toast

import (
	"time"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/layout"
	"github.com/jmylchreest/toastui/internal/model"
)

// ContainerID is the id of the element holding every toast.
const ContainerID = "toastContainer"

// Options controls toast timing and structure.
type Options struct {
	// AutoDismiss is how long a toast shows before it expires.
	AutoDismiss time.Duration
	// ResumeGrace is the fixed window armed when the pointer leaves a paused
	// toast, regardless of how much of AutoDismiss had elapsed.
	ResumeGrace time.Duration
	// ExitAnimation bounds how long a dismissing toast waits for animationend.
	ExitAnimation time.Duration
	// ReduceMotion removes dismissed toasts immediately.
	ReduceMotion bool
	// Position is added to the container as a class (e.g. "toast-top-right").
	Position config.Position
	// Layout describes the node structure of each toast.
	Layout *layout.LayoutConfig
	// Presentations overrides titles and icons per kind.
	Presentations map[model.Kind]model.Presentation
}

// DefaultOptions returns the built-in timings and the default layout.
func DefaultOptions() Options {
	return Options{
		AutoDismiss:   config.DefaultAutoDismiss,
		ResumeGrace:   config.DefaultResumeGrace,
		ExitAnimation: config.DefaultExitAnimation,
		Position:      config.PositionTopRight,
		Layout:        layout.DefaultLayout(),
	}
}

// OptionsFromConfig builds Options from configuration and a resolved layout.
// A nil layout means the default layout.
func OptionsFromConfig(cfg *config.Config, lay *layout.LayoutConfig) Options {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if lay == nil {
		lay = layout.DefaultLayout()
	}
	return Options{
		AutoDismiss:   cfg.Toast.AutoDismiss.Duration(),
		ResumeGrace:   cfg.Toast.ResumeGrace.Duration(),
		ExitAnimation: cfg.Toast.ExitAnimation.Duration(),
		ReduceMotion:  cfg.Toast.ReduceMotion,
		Position:      cfg.PositionValue(),
		Layout:        lay,
		Presentations: cfg.Presentations(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.AutoDismiss <= 0 {
		o.AutoDismiss = def.AutoDismiss
	}
	if o.ResumeGrace <= 0 {
		o.ResumeGrace = def.ResumeGrace
	}
	if o.ExitAnimation < 0 {
		o.ExitAnimation = 0
	}
	if o.Position == "" {
		o.Position = def.Position
	}
	if o.Layout == nil {
		o.Layout = def.Layout
	}
	return o
}

func (o Options) presentation(k model.Kind) model.Presentation {
	return o.Presentations[k].Merge(model.DefaultPresentation(k))
}
