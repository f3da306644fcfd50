// Package ledger declares the ports between the wager service and its
// storage and mirroring adapters.
package ledger

import (
	"context"

	"banca/internal/core"
)

// Ports for outbound adapters.
type (
	// WagerReader exposes the collection in insertion order.
	WagerReader interface {
		List(ctx context.Context) ([]core.Wager, error)
		Get(ctx context.Context, id string) (core.Wager, error)
	}

	// WagerWriter mutates the collection. Update may only change outcome and
	// settled return; Replace and Clear are all-or-nothing.
	WagerWriter interface {
		Create(ctx context.Context, w core.Wager) error
		Update(ctx context.Context, w core.Wager) error
		Replace(ctx context.Context, wagers []core.Wager) error
		Clear(ctx context.Context) error
	}

	// Store is a complete record store.
	Store interface {
		WagerReader
		WagerWriter
	}

	// Mirror keeps an external copy of the collection, for example a
	// spreadsheet.
	Mirror interface {
		Upsert(ctx context.Context, w core.Wager) error
		ReplaceAll(ctx context.Context, wagers []core.Wager) error
	}
)
