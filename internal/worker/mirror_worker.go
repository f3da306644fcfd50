package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"banca/internal/amqp"
	"banca/internal/core"
	"banca/internal/ledger"
	"banca/internal/metrics"
)

// MirrorWorker copies ledger changes to an external mirror such as a
// spreadsheet. Events carry ids only; the wagers are re-read from the store.
type MirrorWorker struct {
	store   ledger.WagerReader
	mirror  ledger.Mirror
	metrics *metrics.Metrics

	// Serializes event handling and full syncs against the mirror.
	mu sync.Mutex
}

func NewMirrorWorker(store ledger.WagerReader, mirror ledger.Mirror, m *metrics.Metrics) *MirrorWorker {
	return &MirrorWorker{store: store, mirror: mirror, metrics: m}
}

// HandleWagerEvent applies one change notification to the mirror.
func (w *MirrorWorker) HandleWagerEvent(ctx context.Context, msg *amqp.WagerEventMessage) error {
	slog.InfoContext(ctx, "Processing wager event",
		"kind", msg.Kind,
		"revision", msg.Revision,
		"ids", len(msg.IDs))

	switch msg.Kind {
	case amqp.EventCreated, amqp.EventSettled:
		err := w.upsert(ctx, msg.IDs)
		w.metrics.MirrorSynced(err)
		return err
	case amqp.EventImported, amqp.EventReset:
		return w.FullSync(ctx)
	}
	return fmt.Errorf("unknown event kind %q", msg.Kind)
}

func (w *MirrorWorker) upsert(ctx context.Context, ids []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, id := range ids {
		wager, err := w.store.Get(ctx, id)
		if errors.Is(err, core.ErrNotFound) {
			// Gone since the event was published, e.g. by a later reset.
			slog.WarnContext(ctx, "Wager no longer in ledger, skipping", "id", id)
			continue
		}
		if err != nil {
			return fmt.Errorf("get wager %s: %w", id, err)
		}
		if err := w.mirror.Upsert(ctx, wager); err != nil {
			return fmt.Errorf("upsert wager %s: %w", id, err)
		}
		slog.InfoContext(ctx, "Wager mirrored", "id", id, "outcome", wager.Outcome)
	}
	return nil
}

// FullSync rewrites the mirror from the current ledger. It backs up event
// delivery, which may lose messages while the broker is down.
func (w *MirrorWorker) FullSync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wagers, err := w.store.List(ctx)
	if err != nil {
		err = fmt.Errorf("list wagers: %w", err)
		w.metrics.MirrorSynced(err)
		return err
	}
	if err := w.mirror.ReplaceAll(ctx, wagers); err != nil {
		err = fmt.Errorf("replace mirror: %w", err)
		w.metrics.MirrorSynced(err)
		return err
	}
	w.metrics.MirrorSynced(nil)
	slog.InfoContext(ctx, "Mirror fully synced", "count", len(wagers))
	return nil
}

// RunPeriodicSync performs a full sync at startup and then every interval
// until ctx is done. A non-positive interval only runs the startup sync.
func (w *MirrorWorker) RunPeriodicSync(ctx context.Context, interval time.Duration) {
	if err := w.FullSync(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup mirror sync failed", "error", err)
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.FullSync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic mirror sync failed", "error", err)
			}
		}
	}
}
