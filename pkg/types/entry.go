package types

import "time"

// Journal operation constants.
const (
	OpMint     = "mint"
	OpTransfer = "transfer"
)

// Entry records one committed share movement. Mints have an empty Sender.
// Entries are append-only.
type Entry struct {
	// EntryID is a UUID v7, generated when the entry is recorded.
	EntryID string `json:"entry_id"`

	// Operation is OpMint or OpTransfer.
	Operation string `json:"operation"`

	PropertyID PropertyID `json:"property_id"`
	Sender     string     `json:"sender,omitempty"`
	Recipient  string     `json:"recipient"`
	Amount     uint64     `json:"amount"`

	// CreatedAt is the commit time of the unit of work.
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the shape of a journal entry: a known operation, a
// positive amount, a recipient, and a sender for transfers.
// Returns an error wrapping ErrInvalidArgument on failure.
func (e Entry) Validate() error {
	switch e.Operation {
	case OpMint:
	case OpTransfer:
		if e.Sender == "" {
			return InvalidArgument("transfer entry %s has no sender", e.EntryID)
		}
	default:
		return InvalidArgument("entry %s has unknown operation %q", e.EntryID, e.Operation)
	}
	if e.Recipient == "" {
		return InvalidArgument("entry %s has no recipient", e.EntryID)
	}
	if e.Amount == 0 {
		return InvalidArgument("entry %s has a zero amount", e.EntryID)
	}
	return nil
}
