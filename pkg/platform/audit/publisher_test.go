package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelPublisherEmit(t *testing.T) {
	ctx := context.Background()

	t.Run("queues events and stamps the time", func(t *testing.T) {
		p := NewChannelPublisher(2, nil)

		require.NoError(t, p.Emit(ctx, Event{Action: EventPersonCreated, EntityID: "p1"}))

		got := <-p.Inbox()
		assert.Equal(t, EventPersonCreated, got.Action)
		assert.False(t, got.Timestamp.IsZero())
	})

	t.Run("drops instead of blocking when the buffer is full", func(t *testing.T) {
		p := NewChannelPublisher(1, nil)

		require.NoError(t, p.Emit(ctx, Event{Action: EventPersonCreated, EntityID: "kept"}))
		require.NoError(t, p.Emit(ctx, Event{Action: EventPersonCreated, EntityID: "dropped"}))

		got := <-p.Inbox()
		assert.Equal(t, "kept", got.EntityID)
		select {
		case extra := <-p.Inbox():
			t.Fatalf("expected the overflow event to be dropped, got %v", extra)
		default:
		}
	})
}
