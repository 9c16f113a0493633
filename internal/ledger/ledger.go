package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

var _ types.Ledger = (*Ledger)(nil)

// Ledger is the facade over PropertyRegistry and ShareLedger. Every
// mutating call is one Store.Update; every read is one Store.View.
type Ledger struct {
	store    types.Store
	registry PropertyRegistry
	shares   ShareLedger
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source used for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// New returns a Ledger over store. The Ledger does not own the store;
// the caller closes it.
func New(store types.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	l.shares = ShareLedger{registry: l.registry}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mint registers a property and credits minter with its full supply.
func (l *Ledger) Mint(minter string, req types.MintRequest) (types.PropertyID, error) {
	var p types.Property
	err := l.store.Update(func(tx types.Tx) error {
		now := l.now().UTC()

		var err error
		p, err = l.registry.Register(tx, minter, req, now)
		if err != nil {
			return err
		}
		if err := l.shares.Credit(tx, p, minter); err != nil {
			return err
		}
		return l.record(tx, types.Entry{
			Operation:  types.OpMint,
			PropertyID: p.ID,
			Recipient:  minter,
			Amount:     p.TotalShares,
			CreatedAt:  now,
		})
	})
	if err != nil {
		l.logger.Warn("mint rejected",
			zap.String("minter", minter),
			zap.String("name", req.Name),
			zap.Uint64("total_shares", req.TotalShares),
			zap.Error(err))
		return 0, err
	}

	l.logger.Info("property minted",
		zap.Uint64("property_id", uint64(p.ID)),
		zap.String("name", p.Name),
		zap.String("minter", minter),
		zap.Uint64("total_shares", p.TotalShares),
		zap.Uint64("price_per_share", p.PricePerShare))
	return p.ID, nil
}

// GetProperty returns the stored record or an error wrapping ErrNotFound.
func (l *Ledger) GetProperty(id types.PropertyID) (types.Property, error) {
	var p types.Property
	err := l.store.View(func(tx types.Tx) error {
		var err error
		p, err = l.registry.Lookup(tx, id)
		return err
	})
	return p, err
}

// Transfer moves amount shares of id from sender to recipient.
func (l *Ledger) Transfer(id types.PropertyID, sender, recipient string, amount uint64) error {
	var moved bool
	err := l.store.Update(func(tx types.Tx) error {
		var err error
		moved, err = l.shares.Move(tx, id, sender, recipient, amount)
		if err != nil || !moved {
			return err
		}
		return l.record(tx, types.Entry{
			Operation:  types.OpTransfer,
			PropertyID: id,
			Sender:     sender,
			Recipient:  recipient,
			Amount:     amount,
			CreatedAt:  l.now().UTC(),
		})
	})

	fields := []zap.Field{
		zap.Uint64("property_id", uint64(id)),
		zap.String("sender", sender),
		zap.String("recipient", recipient),
		zap.Uint64("amount", amount),
	}
	switch {
	case err != nil:
		l.logger.Warn("transfer rejected", append(fields, zap.Error(err))...)
	case !moved:
		l.logger.Debug("self-transfer ignored", fields...)
	default:
		l.logger.Info("shares transferred", fields...)
	}
	return err
}

// GetBalance returns holder's shares in id, 0 when either is unknown.
func (l *Ledger) GetBalance(id types.PropertyID, holder string) (uint64, error) {
	var shares uint64
	err := l.store.View(func(tx types.Tx) error {
		var err error
		shares, err = l.shares.Balance(tx, id, holder)
		return err
	})
	return shares, err
}

// Properties lists every minted property ordered by id.
func (l *Ledger) Properties() ([]types.Property, error) {
	var props []types.Property
	err := l.store.View(func(tx types.Tx) error {
		var err error
		props, err = l.registry.All(tx)
		return err
	})
	return props, err
}

// Holders returns the cap table of id: non-zero holdings ordered by shares
// descending, then holder ascending.
func (l *Ledger) Holders(id types.PropertyID) ([]types.Holding, error) {
	var out []types.Holding
	err := l.store.View(func(tx types.Tx) error {
		if _, err := l.registry.Lookup(tx, id); err != nil {
			return err
		}
		holdings, err := tx.Holdings(id)
		if err != nil {
			return err
		}
		out = make([]types.Holding, 0, len(holdings))
		for _, h := range holdings {
			if h.Shares > 0 {
				out = append(out, h)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Shares != out[j].Shares {
			return out[i].Shares > out[j].Shares
		}
		return out[i].Holder < out[j].Holder
	})
	return out, nil
}

// History returns the journal of id in commit order.
func (l *Ledger) History(id types.PropertyID) ([]types.Entry, error) {
	var entries []types.Entry
	err := l.store.View(func(tx types.Tx) error {
		if _, err := l.registry.Lookup(tx, id); err != nil {
			return err
		}
		var err error
		entries, err = tx.Entries(id)
		return err
	})
	return entries, err
}

// record stamps e with a UUID v7 and appends it to the journal.
func (l *Ledger) record(tx types.Tx, e types.Entry) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating entry id: %w", err)
	}
	e.EntryID = id.String()
	return tx.AppendEntry(e)
}

// IsBusinessError reports whether err is one of the expected, recoverable
// ledger outcomes a caller branches on, as opposed to a storage failure.
func IsBusinessError(err error) bool {
	return errors.Is(err, types.ErrInvalidArgument) ||
		errors.Is(err, types.ErrNotFound) ||
		errors.Is(err, types.ErrInsufficientShares) ||
		errors.Is(err, types.ErrUnknownOperation)
}
