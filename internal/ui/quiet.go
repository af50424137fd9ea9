package ui

import (
	"sortd/internal/event"
	"sortd/internal/stats"
)

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for range events {
		// drained so the engine's non-blocking sends stay cheap
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
