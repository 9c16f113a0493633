package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

// tx implements types.Tx over a SQL transaction.
type tx struct {
	sqlTx    *sql.Tx
	writable bool
}

const timeLayout = time.RFC3339Nano

func (t *tx) NextPropertyID() (types.PropertyID, error) {
	var next int64
	err := t.sqlTx.QueryRow("SELECT COALESCE(MAX(property_id) + 1, 0) FROM properties").Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("reading next property id: %w", err)
	}
	return types.PropertyID(next), nil
}

func (t *tx) PutProperty(p types.Property) error {
	if !t.writable {
		return types.ErrReadOnly
	}
	next, err := t.NextPropertyID()
	if err != nil {
		return err
	}
	if p.ID != next {
		return fmt.Errorf("put property %d: next id is %d", p.ID, next)
	}
	_, err = t.sqlTx.Exec(
		"INSERT INTO properties (property_id, name, location, total_shares, price_per_share, minted_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		int64(p.ID), p.Name, p.Location, int64(p.TotalShares), int64(p.PricePerShare), p.MintedBy, p.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}
	return nil
}

func (t *tx) GetProperty(id types.PropertyID) (types.Property, error) {
	row := t.sqlTx.QueryRow(
		"SELECT property_id, name, location, total_shares, price_per_share, minted_by, created_at FROM properties WHERE property_id = ?",
		int64(id),
	)
	p, err := hydrateProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Property{}, fmt.Errorf("%w: %d", types.ErrNotFound, id)
	}
	if err != nil {
		return types.Property{}, fmt.Errorf("getting property %d: %w", id, err)
	}
	return p, nil
}

func (t *tx) Properties() ([]types.Property, error) {
	rows, err := t.sqlTx.Query(
		"SELECT property_id, name, location, total_shares, price_per_share, minted_by, created_at FROM properties ORDER BY property_id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	out := []types.Property{}
	for rows.Next() {
		p, err := hydrateProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating property: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}
	return out, nil
}

func (t *tx) Balance(key types.HoldingKey) (uint64, error) {
	var shares int64
	err := t.sqlTx.QueryRow(
		"SELECT shares FROM holdings WHERE property_id = ? AND holder = ?",
		int64(key.PropertyID), key.Holder,
	).Scan(&shares)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading balance: %w", err)
	}
	return uint64(shares), nil
}

func (t *tx) SetBalance(key types.HoldingKey, shares uint64) error {
	if !t.writable {
		return types.ErrReadOnly
	}
	_, err := t.sqlTx.Exec(
		`INSERT INTO holdings (property_id, holder, shares) VALUES (?, ?, ?)
ON CONFLICT (property_id, holder) DO UPDATE SET shares = excluded.shares`,
		int64(key.PropertyID), key.Holder, int64(shares),
	)
	if err != nil {
		return fmt.Errorf("writing balance: %w", err)
	}
	return nil
}

func (t *tx) Holdings(id types.PropertyID) ([]types.Holding, error) {
	rows, err := t.sqlTx.Query(
		"SELECT holder, shares FROM holdings WHERE property_id = ? ORDER BY holder ASC",
		int64(id),
	)
	if err != nil {
		return nil, fmt.Errorf("querying holdings: %w", err)
	}
	defer rows.Close()

	out := []types.Holding{}
	for rows.Next() {
		h := types.Holding{PropertyID: id}
		var shares int64
		if err := rows.Scan(&h.Holder, &shares); err != nil {
			return nil, fmt.Errorf("scanning holding: %w", err)
		}
		h.Shares = uint64(shares)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holdings: %w", err)
	}
	return out, nil
}

func (t *tx) AppendEntry(e types.Entry) error {
	if !t.writable {
		return types.ErrReadOnly
	}
	var sender *string
	if e.Sender != "" {
		sender = &e.Sender
	}
	_, err := t.sqlTx.Exec(
		"INSERT INTO journal (entry_id, operation, property_id, sender, recipient, amount, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.EntryID, e.Operation, int64(e.PropertyID), sender, e.Recipient, int64(e.Amount), e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("appending journal entry: %w", err)
	}
	return nil
}

func (t *tx) Entries(id types.PropertyID) ([]types.Entry, error) {
	rows, err := t.sqlTx.Query(
		"SELECT entry_id, operation, property_id, sender, recipient, amount, created_at FROM journal WHERE property_id = ? ORDER BY seq ASC",
		int64(id),
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	out := []types.Entry{}
	for rows.Next() {
		var e types.Entry
		var propertyID, amount int64
		var sender sql.NullString
		var createdAt string
		if err := rows.Scan(&e.EntryID, &e.Operation, &propertyID, &sender, &e.Recipient, &amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.PropertyID = types.PropertyID(propertyID)
		e.Sender = sender.String
		e.Amount = uint64(amount)
		e.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing journal created_at: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal: %w", err)
	}
	return out, nil
}

func (t *tx) ReferencedPropertyIDs() ([]types.PropertyID, error) {
	rows, err := t.sqlTx.Query(
		"SELECT property_id FROM holdings UNION SELECT property_id FROM journal ORDER BY property_id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying referenced property ids: %w", err)
	}
	defer rows.Close()

	out := []types.PropertyID{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning property id: %w", err)
		}
		out = append(out, types.PropertyID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property ids: %w", err)
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateProperty converts a properties row into a types.Property.
func hydrateProperty(row scanner) (types.Property, error) {
	var p types.Property
	var id, total, price int64
	var createdAt string
	if err := row.Scan(&id, &p.Name, &p.Location, &total, &price, &p.MintedBy, &createdAt); err != nil {
		return types.Property{}, err
	}
	p.ID = types.PropertyID(id)
	p.TotalShares = uint64(total)
	p.PricePerShare = uint64(price)

	var err error
	p.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return types.Property{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return p, nil
}
