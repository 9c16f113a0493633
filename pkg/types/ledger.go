package types

// Stable operation names exposed to external callers.
const (
	OpMintProperty       = "mint-property"
	OpGetPropertyDetails = "get-property-details"
	OpTransferShares     = "transfer-shares"
	OpGetOwnerShares     = "get-owner-shares"
)

// OperationNames lists the stable operation names for enumeration.
var OperationNames = []string{
	OpMintProperty,
	OpGetPropertyDetails,
	OpTransferShares,
	OpGetOwnerShares,
}

// Ledger is the fractional-ownership ledger facade.
type Ledger interface {
	// Mint registers a new property and credits minter with its full
	// share supply. Returns an error wrapping ErrInvalidArgument on bad input.
	Mint(minter string, req MintRequest) (PropertyID, error)

	// GetProperty returns ErrNotFound if id was never minted.
	GetProperty(id PropertyID) (Property, error)

	// Transfer moves amount shares of id from sender to recipient.
	// Fails with ErrNotFound, ErrInvalidArgument or ErrInsufficientShares,
	// checked in that order. A transfer to oneself is a validated no-op.
	Transfer(id PropertyID, sender, recipient string, amount uint64) error

	// GetBalance returns holder's shares in id; 0 when either is unknown.
	// Only storage failures produce an error.
	GetBalance(id PropertyID, holder string) (uint64, error)

	// Call dispatches one of the stable operation names on behalf of caller.
	Call(caller, op string, args ...any) (any, error)

	// Properties lists every minted property ordered by id.
	Properties() ([]Property, error)

	// Holders returns the non-zero holdings of id, largest first.
	Holders(id PropertyID) ([]Holding, error)

	// History returns the journal of id in commit order.
	History(id PropertyID) ([]Entry, error)

	// Verify checks the ledger invariants across the whole store.
	Verify() error
}
