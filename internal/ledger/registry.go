// Package ledger implements the fractional-ownership ledger: the property
// registry, the share ledger, and the facade that runs their operations as
// atomic units of work against a types.Store.
package ledger

import (
	"time"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

// PropertyRegistry owns property records and issues sequential ids.
// It holds no state of its own; records live in the Tx it is handed.
type PropertyRegistry struct{}

// Register validates req and stores a new property under the next id.
// The caller must credit the initial allocation in the same unit of work.
func (PropertyRegistry) Register(tx types.Tx, minter string, req types.MintRequest, now time.Time) (types.Property, error) {
	if err := req.Validate(); err != nil {
		return types.Property{}, err
	}
	if minter == "" {
		return types.Property{}, types.InvalidArgument("minting principal must not be empty")
	}

	id, err := tx.NextPropertyID()
	if err != nil {
		return types.Property{}, err
	}
	p := types.Property{
		ID:            id,
		Name:          req.Name,
		Location:      req.Location,
		TotalShares:   req.TotalShares,
		PricePerShare: req.PricePerShare,
		MintedBy:      minter,
		CreatedAt:     now,
	}
	if err := tx.PutProperty(p); err != nil {
		return types.Property{}, err
	}
	return p, nil
}

// Lookup returns the property or an error wrapping ErrNotFound.
func (PropertyRegistry) Lookup(tx types.Tx, id types.PropertyID) (types.Property, error) {
	return tx.GetProperty(id)
}

// All lists every property ordered by id.
func (PropertyRegistry) All(tx types.Tx) ([]types.Property, error) {
	return tx.Properties()
}
