package ledger

import (
	"fmt"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

// ShareLedger owns per-(property, holder) balances. It consults the registry
// only to check that a property exists.
type ShareLedger struct {
	registry PropertyRegistry
}

// Credit records the mint-time allocation: holder receives the full supply.
func (ShareLedger) Credit(tx types.Tx, p types.Property, holder string) error {
	return tx.SetBalance(types.HoldingKey{PropertyID: p.ID, Holder: holder}, p.TotalShares)
}

// Balance returns holder's shares in id. A missing entry, including one for
// a property that does not exist, reads as 0.
func (ShareLedger) Balance(tx types.Tx, id types.PropertyID, holder string) (uint64, error) {
	return tx.Balance(types.HoldingKey{PropertyID: id, Holder: holder})
}

// Move validates and applies a transfer. Checks run in a fixed order and
// all of them complete before the first write. It reports whether any
// balance changed; a transfer to oneself passes validation and changes
// nothing.
func (s ShareLedger) Move(tx types.Tx, id types.PropertyID, sender, recipient string, amount uint64) (bool, error) {
	if _, err := s.registry.Lookup(tx, id); err != nil {
		return false, err
	}
	if amount == 0 {
		return false, types.InvalidArgument("amount must be positive")
	}
	if sender == "" || recipient == "" {
		return false, types.InvalidArgument("sender and recipient must not be empty")
	}

	from := types.HoldingKey{PropertyID: id, Holder: sender}
	have, err := tx.Balance(from)
	if err != nil {
		return false, err
	}
	if have < amount {
		return false, fmt.Errorf("%w: %s holds %d shares of property %d, transfer needs %d",
			types.ErrInsufficientShares, sender, have, id, amount)
	}
	if sender == recipient {
		return false, nil
	}

	to := types.HoldingKey{PropertyID: id, Holder: recipient}
	got, err := tx.Balance(to)
	if err != nil {
		return false, err
	}
	if err := tx.SetBalance(from, have-amount); err != nil {
		return false, err
	}
	if err := tx.SetBalance(to, got+amount); err != nil {
		return false, err
	}
	return true, nil
}

// Outstanding sums every balance of property id. It fails if the sum overflows.
func (ShareLedger) Outstanding(tx types.Tx, id types.PropertyID) (uint64, error) {
	holdings, err := tx.Holdings(id)
	if err != nil {
		return 0, err
	}
	var sum uint64
	for _, h := range holdings {
		if sum+h.Shares < sum {
			return 0, fmt.Errorf("%w: balances of property %d overflow", types.ErrInvariantViolated, id)
		}
		sum += h.Shares
	}
	return sum, nil
}
