package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "vaxcard/pkg/platform/audit"
	auditmemory "vaxcard/pkg/platform/audit/store/memory"
)

func TestWorkerPersistsEvents(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	publisher := audit.NewChannelPublisher(8, nil)
	w := NewWorker(store, publisher.Inbox(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: audit.EventVaccinationRegistered, EntityID: "r1"}))
	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: audit.EventVaccinationDeleted, EntityID: "r1"}))

	require.Eventually(t, func() bool {
		events, err := store.ListRecent(context.Background(), 10)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, audit.EventVaccinationRegistered, events[0].Action)
	assert.Equal(t, audit.EventVaccinationDeleted, events[1].Action)
}
