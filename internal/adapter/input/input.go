// Package input reads toast requests from external sources.
package input

import (
	"context"

	"github.com/jmylchreest/toastui/internal/model"
)

// Request asks for one toast.
type Request struct {
	Kind    model.Kind `json:"kind" yaml:"kind"`
	Message string     `json:"message" yaml:"message"`
}

// InputAdapter fetches toast requests from a source.
type InputAdapter interface {
	// Name returns the adapter identifier (e.g., "stdin").
	Name() string

	// Import fetches requests from the source.
	Import(ctx context.Context) ([]Request, error)
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
