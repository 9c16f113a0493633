package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

var created = time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)

func attach(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func lot(id types.PropertyID) types.Property {
	return types.Property{
		ID:            id,
		Name:          "Lot",
		Location:      "Ridge Rd",
		TotalShares:   100,
		PricePerShare: 5,
		MintedBy:      "owner",
		CreatedAt:     created,
	}
}

func TestBackend_Attach(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := attach(t, dir)

	assert.FileExists(t, filepath.Join(dir, DBFileName))
	assert.Equal(t, dir, b.DataDir())

	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir})
	assert.ErrorIs(t, err, ErrAlreadyAttached)
}

func TestBackend_AttachRejectsConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.Config
		wantErr error
	}{
		{name: "empty backend", cfg: types.Config{DataDir: t.TempDir()}, wantErr: types.ErrBackendEmpty},
		{name: "memory backend", cfg: types.Config{Backend: types.BackendMemory, DataDir: t.TempDir()}, wantErr: types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBackend().Attach(tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBackend_Detach(t *testing.T) {
	b := attach(t, t.TempDir())

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "second Detach is a no-op")

	err := b.View(func(tx types.Tx) error { return nil })
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	err = b.Update(func(tx types.Tx) error { return nil })
	assert.ErrorIs(t, err, types.ErrStoreClosed)
}

func TestBackend_PersistsAcrossAttach(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, dir)

	key := types.HoldingKey{PropertyID: 0, Holder: "owner"}
	require.NoError(t, b.Update(func(tx types.Tx) error {
		if err := tx.PutProperty(lot(0)); err != nil {
			return err
		}
		if err := tx.SetBalance(key, 100); err != nil {
			return err
		}
		return tx.AppendEntry(types.Entry{
			EntryID: "e-1", Operation: types.OpMint, PropertyID: 0,
			Recipient: "owner", Amount: 100, CreatedAt: created,
		})
	}))
	require.NoError(t, b.Detach())

	b = attach(t, dir)
	require.NoError(t, b.View(func(tx types.Tx) error {
		p, err := tx.GetProperty(0)
		require.NoError(t, err)
		assert.Equal(t, lot(0), p)

		shares, err := tx.Balance(key)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), shares)

		entries, err := tx.Entries(0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].Sender)
		assert.Equal(t, created, entries[0].CreatedAt)

		next, err := tx.NextPropertyID()
		require.NoError(t, err)
		assert.Equal(t, types.PropertyID(1), next)
		return nil
	}))
}

func TestBackend_UpdateRollsBack(t *testing.T) {
	b := attach(t, t.TempDir())
	boom := errors.New("boom")

	err := b.Update(func(tx types.Tx) error {
		if err := tx.PutProperty(lot(0)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, b.View(func(tx types.Tx) error {
		_, err := tx.GetProperty(0)
		assert.ErrorIs(t, err, types.ErrNotFound)
		props, err := tx.Properties()
		require.NoError(t, err)
		assert.Empty(t, props)
		return nil
	}))
}

func TestBackend_ViewIsReadOnly(t *testing.T) {
	b := attach(t, t.TempDir())

	require.NoError(t, b.View(func(tx types.Tx) error {
		assert.ErrorIs(t, tx.PutProperty(lot(0)), types.ErrReadOnly)
		assert.ErrorIs(t, tx.SetBalance(types.HoldingKey{Holder: "x"}, 1), types.ErrReadOnly)
		assert.ErrorIs(t, tx.AppendEntry(types.Entry{EntryID: "e"}), types.ErrReadOnly)
		return nil
	}))
}

func TestBackend_SchemaConstraints(t *testing.T) {
	tests := []struct {
		name string
		fn   func(tx types.Tx) error
	}{
		{
			name: "holding of unknown property",
			fn: func(tx types.Tx) error {
				return tx.SetBalance(types.HoldingKey{PropertyID: 9, Holder: "x"}, 1)
			},
		},
		{
			name: "out of sequence property id",
			fn: func(tx types.Tx) error {
				return tx.PutProperty(lot(3))
			},
		},
		{
			name: "zero amount journal entry",
			fn: func(tx types.Tx) error {
				if err := tx.PutProperty(lot(0)); err != nil {
					return err
				}
				return tx.AppendEntry(types.Entry{EntryID: "e", Operation: types.OpTransfer, Recipient: "x", CreatedAt: created})
			},
		},
		{
			name: "duplicate entry id",
			fn: func(tx types.Tx) error {
				if err := tx.PutProperty(lot(0)); err != nil {
					return err
				}
				e := types.Entry{EntryID: "dup", Operation: types.OpMint, Recipient: "x", Amount: 1, CreatedAt: created}
				if err := tx.AppendEntry(e); err != nil {
					return err
				}
				return tx.AppendEntry(e)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := attach(t, t.TempDir())
			assert.Error(t, b.Update(tt.fn))
		})
	}
}

func TestBackend_PropertiesAreImmutable(t *testing.T) {
	b := attach(t, t.TempDir())
	require.NoError(t, b.Update(func(tx types.Tx) error { return tx.PutProperty(lot(0)) }))

	_, err := b.db.Exec("UPDATE properties SET total_shares = 5 WHERE property_id = 0")
	assert.ErrorContains(t, err, "immutable")
	_, err = b.db.Exec("DELETE FROM properties WHERE property_id = 0")
	assert.ErrorContains(t, err, "never deleted")
}

func TestBackend_HoldingsOrderedByHolder(t *testing.T) {
	b := attach(t, t.TempDir())
	require.NoError(t, b.Update(func(tx types.Tx) error {
		if err := tx.PutProperty(lot(0)); err != nil {
			return err
		}
		for _, h := range []string{"carol", "alice", "bob"} {
			if err := tx.SetBalance(types.HoldingKey{PropertyID: 0, Holder: h}, 1); err != nil {
				return err
			}
		}
		return tx.SetBalance(types.HoldingKey{PropertyID: 0, Holder: "alice"}, 98)
	}))

	require.NoError(t, b.View(func(tx types.Tx) error {
		hs, err := tx.Holdings(0)
		require.NoError(t, err)
		require.Len(t, hs, 3)
		assert.Equal(t, []string{"alice", "bob", "carol"}, []string{hs[0].Holder, hs[1].Holder, hs[2].Holder})
		assert.Equal(t, uint64(98), hs[0].Shares)
		return nil
	}))
}

func TestBackend_ReferencedPropertyIDs(t *testing.T) {
	b := attach(t, t.TempDir())

	require.NoError(t, b.Update(func(tx types.Tx) error {
		for id := types.PropertyID(0); id < 3; id++ {
			if err := tx.PutProperty(lot(id)); err != nil {
				return err
			}
		}
		if err := tx.SetBalance(types.HoldingKey{PropertyID: 2, Holder: "owner"}, 100); err != nil {
			return err
		}
		return tx.AppendEntry(types.Entry{EntryID: "e", Operation: types.OpMint, PropertyID: 0, Recipient: "owner", Amount: 100, CreatedAt: created})
	}))

	require.NoError(t, b.View(func(tx types.Tx) error {
		got, err := tx.ReferencedPropertyIDs()
		require.NoError(t, err)
		assert.Equal(t, []types.PropertyID{0, 2}, got)
		return nil
	}))
}
