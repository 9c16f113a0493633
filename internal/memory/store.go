// Package memory implements an in-process Store for the deeds ledger.
// State lives for the lifetime of the Store value; nothing is persisted.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

var _ types.Store = (*Store)(nil)

// Store keeps properties, balances and the journal in maps guarded by a
// single RWMutex. Updates buffer their writes and apply them on success.
type Store struct {
	mu         sync.RWMutex
	closed     bool
	properties []types.Property
	balances   map[types.HoldingKey]uint64
	holders    map[types.PropertyID]map[string]struct{}
	journal    map[types.PropertyID][]types.Entry
}

// NewStore returns an empty, open Store.
func NewStore() *Store {
	return &Store{
		balances: make(map[types.HoldingKey]uint64),
		holders:  make(map[types.PropertyID]map[string]struct{}),
		journal:  make(map[types.PropertyID][]types.Entry),
	}
}

// View runs fn under the read lock.
func (s *Store) View(fn func(tx types.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	return fn(&tx{store: s})
}

// Update runs fn under the write lock and applies its writes only if fn
// returns nil.
func (s *Store) Update(fn func(tx types.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	t := &tx{
		store:    s,
		writable: true,
		balances: make(map[types.HoldingKey]uint64),
	}
	if err := fn(t); err != nil {
		return err
	}
	t.commit()
	return nil
}

// Close marks the store closed. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// tx overlays pending writes on the store's committed state. The caller
// holds the store lock for the lifetime of the tx.
type tx struct {
	store    *Store
	writable bool

	properties []types.Property
	balances   map[types.HoldingKey]uint64
	entries    []types.Entry
}

func (t *tx) NextPropertyID() (types.PropertyID, error) {
	return types.PropertyID(len(t.store.properties) + len(t.properties)), nil
}

func (t *tx) PutProperty(p types.Property) error {
	if !t.writable {
		return types.ErrReadOnly
	}
	next, _ := t.NextPropertyID()
	if p.ID != next {
		return fmt.Errorf("put property %d: next id is %d", p.ID, next)
	}
	t.properties = append(t.properties, p)
	return nil
}

func (t *tx) GetProperty(id types.PropertyID) (types.Property, error) {
	committed := types.PropertyID(len(t.store.properties))
	if id < committed {
		return t.store.properties[id], nil
	}
	if pending := id - committed; pending < types.PropertyID(len(t.properties)) {
		return t.properties[pending], nil
	}
	return types.Property{}, fmt.Errorf("%w: %d", types.ErrNotFound, id)
}

func (t *tx) Properties() ([]types.Property, error) {
	out := make([]types.Property, 0, len(t.store.properties)+len(t.properties))
	out = append(out, t.store.properties...)
	out = append(out, t.properties...)
	return out, nil
}

// Balance reads through the pending write set to committed state. A key
// present in neither is an explicit zero.
func (t *tx) Balance(key types.HoldingKey) (uint64, error) {
	if v, ok := t.balances[key]; ok {
		return v, nil
	}
	return t.store.balances[key], nil
}

func (t *tx) SetBalance(key types.HoldingKey, shares uint64) error {
	if !t.writable {
		return types.ErrReadOnly
	}
	t.balances[key] = shares
	return nil
}

func (t *tx) Holdings(id types.PropertyID) ([]types.Holding, error) {
	seen := make(map[string]struct{})
	for holder := range t.store.holders[id] {
		seen[holder] = struct{}{}
	}
	for key := range t.balances {
		if key.PropertyID == id {
			seen[key.Holder] = struct{}{}
		}
	}

	out := make([]types.Holding, 0, len(seen))
	for holder := range seen {
		key := types.HoldingKey{PropertyID: id, Holder: holder}
		shares, _ := t.Balance(key)
		out = append(out, types.Holding{PropertyID: id, Holder: holder, Shares: shares})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Holder < out[j].Holder })
	return out, nil
}

func (t *tx) AppendEntry(e types.Entry) error {
	if !t.writable {
		return types.ErrReadOnly
	}
	t.entries = append(t.entries, e)
	return nil
}

func (t *tx) Entries(id types.PropertyID) ([]types.Entry, error) {
	out := append([]types.Entry{}, t.store.journal[id]...)
	for _, e := range t.entries {
		if e.PropertyID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (t *tx) ReferencedPropertyIDs() ([]types.PropertyID, error) {
	seen := make(map[types.PropertyID]struct{})
	for id := range t.store.holders {
		seen[id] = struct{}{}
	}
	for id := range t.store.journal {
		seen[id] = struct{}{}
	}
	for key := range t.balances {
		seen[key.PropertyID] = struct{}{}
	}
	for _, e := range t.entries {
		seen[e.PropertyID] = struct{}{}
	}

	out := make([]types.PropertyID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// commit folds the pending write set into the store.
func (t *tx) commit() {
	s := t.store
	s.properties = append(s.properties, t.properties...)
	for key, shares := range t.balances {
		s.balances[key] = shares
		set, ok := s.holders[key.PropertyID]
		if !ok {
			set = make(map[string]struct{})
			s.holders[key.PropertyID] = set
		}
		set[key.Holder] = struct{}{}
	}
	for _, e := range t.entries {
		s.journal[e.PropertyID] = append(s.journal[e.PropertyID], e)
	}
}
