package types

// Store is the transactional state behind a ledger. Implementations decide
// where state lives; the ledger decides what the state means.
type Store interface {
	// View runs fn against a consistent read-only snapshot. Writes inside
	// fn return ErrReadOnly. Views may run concurrently with each other.
	View(fn func(tx Tx) error) error

	// Update runs fn as one atomic unit of work. Updates are serialized.
	// If fn returns an error none of its writes become visible.
	Update(fn func(tx Tx) error) error

	// Close releases resources. Further calls return ErrStoreClosed.
	// Close is idempotent.
	Close() error
}

// Tx is the set of reads and writes available inside a unit of work.
type Tx interface {
	// NextPropertyID returns the id the next PutProperty must use.
	NextPropertyID() (PropertyID, error)

	// PutProperty stores a new property. p.ID must equal NextPropertyID;
	// existing properties cannot be overwritten.
	PutProperty(p Property) error

	// GetProperty returns ErrNotFound if id was never stored.
	GetProperty(id PropertyID) (Property, error)

	// Properties lists every property ordered by id.
	Properties() ([]Property, error)

	// Balance returns the stored shares for key, or 0 if there is no entry.
	Balance(key HoldingKey) (uint64, error)

	// SetBalance writes the shares for key. Zero is a valid value.
	SetBalance(key HoldingKey, shares uint64) error

	// Holdings lists every stored balance entry of a property, including
	// entries that have decayed to zero, ordered by holder.
	Holdings(id PropertyID) ([]Holding, error)

	// AppendEntry records a journal entry.
	AppendEntry(e Entry) error

	// Entries lists the journal of a property in commit order.
	Entries(id PropertyID) ([]Entry, error)

	// ReferencedPropertyIDs lists, ascending and without duplicates, every
	// property id that has a balance entry or a journal entry.
	ReferencedPropertyIDs() ([]PropertyID, error)
}
