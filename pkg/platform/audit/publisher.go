package audit

import (
	"context"
	"log/slog"
	"time"
)

// ChannelPublisher decouples event emission from persistence. Emit never
// blocks the request path: when the buffer is full the event is dropped and
// a warning is logged.
type ChannelPublisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewChannelPublisher creates a publisher with the given buffer size.
func NewChannelPublisher(buffer int, logger *slog.Logger) *ChannelPublisher {
	return &ChannelPublisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Inbox exposes the receive side for the worker.
func (p *ChannelPublisher) Inbox() <-chan Event {
	return p.inbox
}

// Emit queues an audit event for the background worker.
func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event",
				"action", event.Action,
				"entity_id", event.EntityID,
			)
		}
	}
	return nil
}
