package worker

import (
	"context"
	"log/slog"

	audit "vaxcard/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. A failed
// append is logged and skipped so one bad event cannot stall the trail.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				if w.logger != nil {
					w.logger.ErrorContext(ctx, "failed to append audit event",
						"action", event.Action,
						"error", err,
					)
				}
			}
		}
	}
}
