package types

import (
	"math"
	"strconv"
	"time"
)

// PropertyID identifies a minted property. Ids are assigned sequentially
// starting at 0 and are never reused.
type PropertyID uint64

// String returns the decimal form of the id.
func (id PropertyID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParsePropertyID parses a decimal property id.
// Returns ErrInvalidArgument if s is not a non-negative integer.
func ParsePropertyID(s string) (PropertyID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, InvalidArgument("property id %q is not a non-negative integer", s)
	}
	return PropertyID(v), nil
}

// MaxTotalShares is the largest share supply a property may be minted with.
// Every backend must be able to store it as a signed 64-bit integer.
const MaxTotalShares = math.MaxInt64

// Property describes a real-world asset divided into shares.
// A Property is created once by a mint and never mutated afterwards.
type Property struct {
	ID            PropertyID `json:"id"`
	Name          string     `json:"name"`
	Location      string     `json:"location"`
	TotalShares   uint64     `json:"total_shares"`
	PricePerShare uint64     `json:"price_per_share"`
	MintedBy      string     `json:"minted_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MintRequest carries the caller-supplied attributes of a new property.
type MintRequest struct {
	Name          string
	Location      string
	TotalShares   uint64
	PricePerShare uint64
}

// Validate checks that the request describes a mintable property.
// Returns an error wrapping ErrInvalidArgument on failure.
func (r MintRequest) Validate() error {
	if r.Name == "" {
		return InvalidArgument("name must not be empty")
	}
	if r.Location == "" {
		return InvalidArgument("location must not be empty")
	}
	if r.TotalShares == 0 {
		return InvalidArgument("total shares must be positive")
	}
	if r.TotalShares > MaxTotalShares {
		return InvalidArgument("total shares %d exceeds %d", r.TotalShares, uint64(MaxTotalShares))
	}
	if r.PricePerShare > MaxTotalShares {
		return InvalidArgument("price per share %d exceeds %d", r.PricePerShare, uint64(MaxTotalShares))
	}
	return nil
}

// Validate checks a stored or imported property record against the rules a
// mint enforces. Returns an error wrapping ErrInvalidArgument on failure.
func (p Property) Validate() error {
	req := MintRequest{Name: p.Name, Location: p.Location, TotalShares: p.TotalShares, PricePerShare: p.PricePerShare}
	if err := req.Validate(); err != nil {
		return err
	}
	if p.MintedBy == "" {
		return InvalidArgument("minter must not be empty")
	}
	return nil
}
