// Package ui renders run progress. Presenters are pure observers: they read
// events and the stats collector, and never influence the engine.
package ui

import (
	"io"

	"sortd/internal/event"
	"sortd/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer     io.Writer
	ErrWriter  io.Writer
	Stats      *stats.Collector
	Root       string
	Quiet      bool
	Verbose    bool
	NoProgress bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory picks one of several presenter implementations
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{stats: cfg.Stats}
	}
	return &plainPresenter{
		w:          cfg.Writer,
		errW:       cfg.ErrWriter,
		stats:      cfg.Stats,
		root:       cfg.Root,
		verbose:    cfg.Verbose,
		noProgress: cfg.NoProgress,
	}
}
