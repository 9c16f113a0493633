package types

// HoldingKey addresses a single balance: one holder's shares in one property.
// It is comparable and used directly as a map key.
type HoldingKey struct {
	PropertyID PropertyID
	Holder     string
}

// Holding is a balance entry as returned by listings.
type Holding struct {
	PropertyID PropertyID `json:"property_id"`
	Holder     string     `json:"holder"`
	Shares     uint64     `json:"shares"`
}

// Key returns the composite key of the holding.
func (h Holding) Key() HoldingKey {
	return HoldingKey{PropertyID: h.PropertyID, Holder: h.Holder}
}

// Validate checks that the holding names a holder.
// Returns an error wrapping ErrInvalidArgument on failure.
func (h Holding) Validate() error {
	if h.Holder == "" {
		return InvalidArgument("holding of property %d has no holder", h.PropertyID)
	}
	return nil
}
