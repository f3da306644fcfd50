package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banca/internal/amqp"
	"banca/internal/core"
	"banca/internal/ledger/memory"
	"banca/internal/metrics"
)

type fakeMirror struct {
	mu       sync.Mutex
	upserted []string
	replaced [][]core.Wager
	err      error
}

func (m *fakeMirror) Upsert(_ context.Context, w core.Wager) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.upserted = append(m.upserted, w.ID)
	return nil
}

func (m *fakeMirror) ReplaceAll(_ context.Context, wagers []core.Wager) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.replaced = append(m.replaced, wagers)
	return nil
}

func (m *fakeMirror) replaceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replaced)
}

func testWager(id string) core.Wager {
	return core.Wager{
		ID:           id,
		Category:     core.CategoryPerMap,
		SideA:        "FURIA",
		SideB:        "MIBR",
		SelectedSide: core.SideA,
		Stake:        "10",
		Odds:         "1.9",
		HandicapLine: "0",
		Timestamp:    time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC),
		GameTitle:    core.GameCS2,
		EventName:    "CBCS",
		Tier:         core.TierB,
	}
}

func TestMirrorWorker_HandleCreatedAndSettled(t *testing.T) {
	store := memory.New([]core.Wager{testWager("a"), testWager("b")})
	mirror := &fakeMirror{}
	w := NewMirrorWorker(store, mirror, metrics.New())
	ctx := context.Background()

	require.NoError(t, w.HandleWagerEvent(ctx, amqp.NewWagerEventMessage(amqp.EventCreated, 1, "a")))
	require.NoError(t, w.HandleWagerEvent(ctx, amqp.NewWagerEventMessage(amqp.EventSettled, 2, "b", "gone")))

	assert.Equal(t, []string{"a", "b"}, mirror.upserted)
	assert.Empty(t, mirror.replaced)
}

func TestMirrorWorker_ImportAndResetRewriteMirror(t *testing.T) {
	store := memory.New([]core.Wager{testWager("a")})
	mirror := &fakeMirror{}
	w := NewMirrorWorker(store, mirror, nil)
	ctx := context.Background()

	require.NoError(t, w.HandleWagerEvent(ctx, amqp.NewWagerEventMessage(amqp.EventImported, 3)))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, w.HandleWagerEvent(ctx, amqp.NewWagerEventMessage(amqp.EventReset, 4)))

	require.Len(t, mirror.replaced, 2)
	assert.Len(t, mirror.replaced[0], 1)
	assert.Empty(t, mirror.replaced[1])
}

func TestMirrorWorker_Errors(t *testing.T) {
	store := memory.New([]core.Wager{testWager("a")})
	mirror := &fakeMirror{err: errors.New("quota exceeded")}
	w := NewMirrorWorker(store, mirror, nil)
	ctx := context.Background()

	err := w.HandleWagerEvent(ctx, amqp.NewWagerEventMessage(amqp.EventCreated, 1, "a"))
	assert.ErrorContains(t, err, "quota exceeded")

	err = w.FullSync(ctx)
	assert.ErrorContains(t, err, "replace mirror")

	err = w.HandleWagerEvent(ctx, &amqp.WagerEventMessage{Kind: "deleted"})
	assert.ErrorContains(t, err, "unknown event kind")
}

func TestMirrorWorker_RunPeriodicSync(t *testing.T) {
	store := memory.New([]core.Wager{testWager("a")})
	mirror := &fakeMirror{}
	w := NewMirrorWorker(store, mirror, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.RunPeriodicSync(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return mirror.replaceCount() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunPeriodicSync did not stop after cancel")
	}
}

func TestMirrorWorker_StartupSyncOnly(t *testing.T) {
	mirror := &fakeMirror{}
	w := NewMirrorWorker(memory.New(nil), mirror, nil)

	w.RunPeriodicSync(context.Background(), 0)
	assert.Equal(t, 1, mirror.replaceCount())
}
