package memory

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"banca/internal/core"
	"banca/internal/ledger"
	"banca/internal/transfer"
)

var _ ledger.Store = (*Store)(nil)

// Store keeps the collection in process memory.
type Store struct {
	mu    sync.Mutex
	items []core.Wager
}

func New(seed []core.Wager) *Store {
	return &Store{items: slices.Clone(seed)}
}

// NewFromFile seeds the store from an exported history file. A missing file
// yields an empty store; an unreadable or invalid one is an error.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		return New(nil), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	wagers, err := transfer.Decode(data, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return New(wagers), nil
}

func (s *Store) List(_ context.Context) ([]core.Wager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), nil
}

func (s *Store) Get(_ context.Context, id string) (core.Wager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return core.Wager{}, core.ErrNotFound
}

func (s *Store) Create(_ context.Context, w core.Wager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(w.ID) >= 0 {
		return core.ErrDuplicateID
	}
	s.items = append(s.items, w)
	return nil
}

// Update stores a new outcome and settled return for an existing wager.
func (s *Store) Update(_ context.Context, w core.Wager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(w.ID)
	if i < 0 {
		return core.ErrNotFound
	}
	s.items[i].Outcome = w.Outcome
	s.items[i].SettledReturn = w.SettledReturn
	return nil
}

func (s *Store) Replace(_ context.Context, wagers []core.Wager) error {
	seen := make(map[string]bool, len(wagers))
	for _, w := range wagers {
		if seen[w.ID] {
			return fmt.Errorf("replace: %w: %s", core.ErrDuplicateID, w.ID)
		}
		seen[w.ID] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(wagers)
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(w core.Wager) bool { return w.ID == id })
}
