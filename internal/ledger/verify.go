package ledger

import (
	"fmt"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

// Verify checks that ids are contiguous from 0, that every balance and
// journal entry references a minted property, and, for every property, that
// its record is well-formed, balances sum to the minted supply, and replaying
// the journal reproduces the stored balances. Violations wrap
// ErrInvariantViolated.
func (l *Ledger) Verify() error {
	return l.store.View(func(tx types.Tx) error {
		props, err := l.registry.All(tx)
		if err != nil {
			return err
		}
		for i, p := range props {
			if p.ID != types.PropertyID(i) {
				return fmt.Errorf("%w: property at position %d has id %d", types.ErrInvariantViolated, i, p.ID)
			}
			if err := l.verifyProperty(tx, p); err != nil {
				return err
			}
		}

		referenced, err := tx.ReferencedPropertyIDs()
		if err != nil {
			return err
		}
		for _, id := range referenced {
			if id >= types.PropertyID(len(props)) {
				return fmt.Errorf("%w: balances or journal reference unminted property %d", types.ErrInvariantViolated, id)
			}
		}
		return nil
	})
}

func (l *Ledger) verifyProperty(tx types.Tx, p types.Property) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: property %d: %v", types.ErrInvariantViolated, p.ID, err)
	}

	outstanding, err := l.shares.Outstanding(tx, p.ID)
	if err != nil {
		return err
	}
	if outstanding != p.TotalShares {
		return fmt.Errorf("%w: property %d has %d shares outstanding, minted %d",
			types.ErrInvariantViolated, p.ID, outstanding, p.TotalShares)
	}

	entries, err := tx.Entries(p.ID)
	if err != nil {
		return err
	}
	replayed, err := replay(p, entries)
	if err != nil {
		return err
	}

	holdings, err := tx.Holdings(p.ID)
	if err != nil {
		return err
	}
	for _, h := range holdings {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("%w: %v", types.ErrInvariantViolated, err)
		}
		if replayed[h.Holder] != h.Shares {
			return fmt.Errorf("%w: property %d holder %s has %d shares, journal gives %d",
				types.ErrInvariantViolated, p.ID, h.Holder, h.Shares, replayed[h.Holder])
		}
		delete(replayed, h.Holder)
	}
	for holder, shares := range replayed {
		if shares != 0 {
			return fmt.Errorf("%w: property %d holder %s missing from balances, journal gives %d",
				types.ErrInvariantViolated, p.ID, holder, shares)
		}
	}
	return nil
}

// replay folds the journal of p into per-holder balances.
func replay(p types.Property, entries []types.Entry) (map[string]uint64, error) {
	balances := make(map[string]uint64)
	minted := false
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: property %d: %v", types.ErrInvariantViolated, p.ID, err)
		}
		switch e.Operation {
		case types.OpMint:
			if minted || e.Amount != p.TotalShares {
				return nil, fmt.Errorf("%w: property %d has an invalid mint entry %s",
					types.ErrInvariantViolated, p.ID, e.EntryID)
			}
			minted = true
			balances[e.Recipient] += e.Amount
		case types.OpTransfer:
			if balances[e.Sender] < e.Amount {
				return nil, fmt.Errorf("%w: property %d entry %s overdraws %s",
					types.ErrInvariantViolated, p.ID, e.EntryID, e.Sender)
			}
			balances[e.Sender] -= e.Amount
			balances[e.Recipient] += e.Amount
		}
	}
	if !minted {
		return nil, fmt.Errorf("%w: property %d has no mint entry", types.ErrInvariantViolated, p.ID)
	}
	return balances, nil
}
