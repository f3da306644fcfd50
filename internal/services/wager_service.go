package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"banca/internal/amqp"
	"banca/internal/core"
	"banca/internal/ledger"
	applog "banca/internal/log"
	"banca/internal/metrics"
	"banca/internal/transfer"
)

// ErrResetNotConfirmed is returned when a reset is requested without
// confirmation.
var ErrResetNotConfirmed = errors.New("reset requires explicit confirmation")

// Publisher forwards change events to a message broker.
type Publisher interface {
	PublishWagerEvent(ctx context.Context, msg *amqp.WagerEventMessage) error
}

// Change describes one committed ledger mutation.
type Change struct {
	Kind     amqp.EventKind
	IDs      []string
	Revision int64
	Size     int
}

// Observer is notified synchronously after every committed mutation.
type Observer func(ctx context.Context, c Change)

// CreateInput is the entry form of a new wager.
type CreateInput struct {
	Category     core.BetCategory `json:"betCategory"`
	SideA        string           `json:"sideA"`
	SideB        string           `json:"sideB"`
	SelectedSide core.Side        `json:"selectedSide"`
	Stake        string           `json:"stakeAmount"`
	Odds         string           `json:"odds"`
	HandicapLine string           `json:"handicapLine"`
	GameTitle    string           `json:"gameTitle"`
	CustomGame   string           `json:"customGameName"`
	EventName    string           `json:"eventName"`
	Tier         core.Tier        `json:"tier"`
}

// WagerService owns the ledger. Mutations are serialized and each one bumps
// the revision and notifies observers and the broker.
type WagerService struct {
	store     ledger.Store
	publisher Publisher
	metrics   *metrics.Metrics
	now       func() time.Time

	mu        sync.Mutex
	revision  int64
	observers []Observer
}

func NewWagerService(store ledger.Store, publisher Publisher) *WagerService {
	return &WagerService{
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Instrument records ledger changes, settlements and imports in m.
func (s *WagerService) Instrument(m *metrics.Metrics) {
	s.mu.Lock()
	s.metrics = m
	s.mu.Unlock()
	s.Subscribe(func(_ context.Context, c Change) {
		m.LedgerChanged(string(c.Kind), c.Size)
	})
}

// Subscribe registers an observer for future changes.
func (s *WagerService) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Revision identifies the current state of the ledger within this process.
func (s *WagerService) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Snapshot returns the wagers together with the revision they belong to.
func (s *WagerService) Snapshot(ctx context.Context) ([]core.Wager, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wagers, err := s.store.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list wagers: %w", err)
	}
	return wagers, s.revision, nil
}

func (s *WagerService) List(ctx context.Context) ([]core.Wager, error) {
	wagers, _, err := s.Snapshot(ctx)
	return wagers, err
}

func (s *WagerService) Get(ctx context.Context, id string) (core.Wager, error) {
	return s.store.Get(ctx, id)
}

// Create validates the form and stores a new unsettled wager.
func (s *WagerService) Create(ctx context.Context, in CreateInput) (core.Wager, error) {
	w := core.Wager{
		ID:           uuid.NewString(),
		Category:     in.Category,
		SideA:        strings.TrimSpace(in.SideA),
		SideB:        strings.TrimSpace(in.SideB),
		SelectedSide: in.SelectedSide,
		Stake:        strings.TrimSpace(in.Stake),
		Odds:         strings.TrimSpace(in.Odds),
		HandicapLine: strings.TrimSpace(in.HandicapLine),
		Timestamp:    s.now(),
		GameTitle:    core.ResolveGameTitle(in.GameTitle, in.CustomGame),
		EventName:    strings.TrimSpace(in.EventName),
		Tier:         in.Tier,
	}
	if w.SelectedSide == "" {
		w.SelectedSide = core.SideA
	}
	if w.Tier == "" {
		w.Tier = core.TierS
	}
	if w.Category != core.CategoryHandicap || w.HandicapLine == "" {
		w.HandicapLine = "0"
	}
	if err := w.Validate(); err != nil {
		return core.Wager{}, err
	}

	err := s.mutate(ctx, amqp.EventCreated, []string{w.ID}, func() error {
		return s.store.Create(ctx, w)
	})
	if err != nil {
		return core.Wager{}, fmt.Errorf("create wager: %w", err)
	}
	applog.LogWagerCreated(ctx, w)
	return w, nil
}

// Settle records the outcome of a wager and recomputes its return.
func (s *WagerService) Settle(ctx context.Context, id string, outcome core.Outcome) (core.Wager, error) {
	if !outcome.IsValid() {
		return core.Wager{}, core.ErrInvalidOutcome
	}
	var settled core.Wager
	err := s.mutate(ctx, amqp.EventSettled, []string{id}, func() error {
		w, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		settled, err = core.Settle(w, outcome)
		if err != nil {
			return err
		}
		return s.store.Update(ctx, settled)
	})
	if err != nil {
		return core.Wager{}, fmt.Errorf("settle wager %s: %w", id, err)
	}
	s.metrics.WagerSettled(string(outcome))
	applog.LogWagerSettled(ctx, settled)
	return settled, nil
}

// Import replaces the whole ledger with the decoded payload. A payload that
// is not a list, or fails to decode, leaves the ledger untouched.
func (s *WagerService) Import(ctx context.Context, data []byte) ([]core.Wager, error) {
	wagers, err := transfer.Decode(data, s.now())
	if err != nil {
		s.metrics.ImportFinished(err)
		return nil, err
	}
	ids := make([]string, len(wagers))
	for i, w := range wagers {
		ids[i] = w.ID
	}
	err = s.mutate(ctx, amqp.EventImported, ids, func() error {
		return s.store.Replace(ctx, wagers)
	})
	s.metrics.ImportFinished(err)
	if err != nil {
		return nil, fmt.Errorf("import wagers: %w", err)
	}
	applog.FromContext(ctx).InfoContext(ctx, "Wagers imported", applog.FieldCount, len(wagers), applog.FieldOperation, applog.OpImport)
	return wagers, nil
}

// Export encodes the ledger in insertion order.
func (s *WagerService) Export(ctx context.Context) ([]byte, string, error) {
	wagers, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}
	data, err := transfer.Encode(wagers)
	if err != nil {
		return nil, "", err
	}
	return data, transfer.Filename(s.now()), nil
}

// Reset clears the ledger. confirmed must be true.
func (s *WagerService) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}
	err := s.mutate(ctx, amqp.EventReset, nil, func() error {
		return s.store.Clear(ctx)
	})
	if err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	applog.FromContext(ctx).WarnContext(ctx, "Ledger reset", applog.FieldOperation, applog.OpReset)
	return nil
}

// mutate runs fn under the service lock and announces the change once it
// has been committed.
func (s *WagerService) mutate(ctx context.Context, kind amqp.EventKind, ids []string, fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.revision++
	change := Change{Kind: kind, IDs: ids, Revision: s.revision}
	if wagers, err := s.store.List(ctx); err == nil {
		change.Size = len(wagers)
	}
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o(ctx, change)
	}
	s.publish(ctx, change)
	return nil
}

func (s *WagerService) publish(ctx context.Context, c Change) {
	if s.publisher == nil {
		return
	}
	// Import ids can be large; the consumer re-reads the ledger anyway.
	ids := c.IDs
	if c.Kind == amqp.EventImported {
		ids = nil
	}
	if err := s.publisher.PublishWagerEvent(ctx, amqp.NewWagerEventMessage(c.Kind, c.Revision, ids...)); err != nil {
		// The local commit stands; the mirror catches up on its next full sync.
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to publish wager event", "kind", c.Kind, "revision", c.Revision, applog.FieldError, err)
	}
}
