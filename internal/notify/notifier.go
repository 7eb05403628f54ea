// Package notify fans a rendered digest out to notification sinks.
package notify

import (
	"context"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/logging"
)

// Sink delivers one digest to one destination.
type Sink interface {
	Name() string
	Publish(ctx context.Context, message string) error
}

// Dispatcher publishes to every sink concurrently. A failing sink fails
// the whole dispatch, but never stops the other sinks from trying.
type Dispatcher struct {
	sinks   []Sink
	workers int
	logger  *logging.Logger
}

func NewDispatcher(sinks []Sink, workers int, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = len(sinks)
	}
	if workers < 1 {
		workers = 1
	}

	return &Dispatcher{
		sinks:   sinks,
		workers: workers,
		logger:  logger,
	}
}

func (d *Dispatcher) Publish(ctx context.Context, message string) error {
	if len(d.sinks) == 0 {
		d.logger.WarnContext(ctx, "no notification sinks configured")
		return nil
	}

	workers, err := ants.NewPool(d.workers)
	if err != nil {
		return crerr.Wrap(err, "create notification worker pool")
	}
	defer workers.Release()

	var wg sync.WaitGroup
	errs := make([]error, len(d.sinks))
	for i, sink := range d.sinks {
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			if err := sink.Publish(ctx, message); err != nil {
				errs[i] = crerr.Wrapf(err, "publish via %s", sink.Name())
				d.logger.ErrorContext(ctx, "notification sink failed", "sink", sink.Name(), "error", err)
				return
			}
			d.logger.InfoContext(ctx, "notification delivered", "sink", sink.Name())
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = crerr.Wrapf(submitErr, "submit publish task for %s", sink.Name())
		}
	}
	wg.Wait()

	var combined error
	for _, err := range errs {
		combined = crerr.CombineErrors(combined, err)
	}

	return combined
}
