// Package ledger is the public entry point to the deeds ownership ledger.
// It builds a ledger over an in-memory store or a SQLite database while
// keeping both implementations internal.
//
// Example:
//
//	l, store, err := ledger.Open(types.Config{Backend: types.BackendMemory})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	id, err := l.Mint(principal, types.MintRequest{
//	    Name: "Luxury Apartment", Location: "123 Main St",
//	    TotalShares: 1000, PricePerShare: 100,
//	})
package ledger

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/deeds/internal/ledger"
	"github.com/mesh-intelligence/deeds/internal/memory"
	"github.com/mesh-intelligence/deeds/internal/sqlite"
	"github.com/mesh-intelligence/deeds/pkg/types"
)

// Option configures a ledger built by New or Open.
type Option = ledger.Option

// WithLogger sets the structured logger used for ledger events.
func WithLogger(logger *zap.Logger) Option { return ledger.WithLogger(logger) }

// WithClock overrides the time source used to stamp properties and entries.
func WithClock(now func() time.Time) Option { return ledger.WithClock(now) }

// New returns a ledger over an existing store. The caller owns the store.
func New(store types.Store, opts ...Option) types.Ledger {
	return ledger.New(store, opts...)
}

// NewMemoryStore returns an empty, process-local store.
func NewMemoryStore() types.Store {
	return memory.NewStore()
}

// OpenStore returns the store selected by cfg, attached and ready for use.
func OpenStore(cfg types.Config) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendMemory:
		return memory.NewStore(), nil
	case types.BackendSQLite:
		b := sqlite.NewBackend()
		if err := b.Attach(cfg); err != nil {
			return nil, fmt.Errorf("attach sqlite: %w", err)
		}
		return b, nil
	default:
		return nil, types.ErrBackendUnknown
	}
}

// Open builds a ledger over the store selected by cfg. The returned store
// must be closed by the caller.
func Open(cfg types.Config, opts ...Option) (types.Ledger, types.Store, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return ledger.New(store, opts...), store, nil
}

// IsBusinessError reports whether err is a rejected request rather than a
// storage or system failure.
func IsBusinessError(err error) bool { return ledger.IsBusinessError(err) }
