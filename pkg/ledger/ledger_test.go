package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/deeds/pkg/ledger"
	"github.com/mesh-intelligence/deeds/pkg/types"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.Config
		wantErr error
	}{
		{name: "memory", cfg: types.Config{Backend: types.BackendMemory}},
		{name: "sqlite", cfg: types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}},
		{name: "empty backend", cfg: types.Config{}, wantErr: types.ErrBackendEmpty},
		{name: "unknown backend", cfg: types.Config{Backend: "postgres"}, wantErr: types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, store, err := ledger.Open(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer store.Close()

			id, err := l.Mint("owner", types.MintRequest{Name: "Lot 4", Location: "Ridge Rd", TotalShares: 10})
			require.NoError(t, err)
			shares, err := l.GetBalance(id, "owner")
			require.NoError(t, err)
			assert.Equal(t, uint64(10), shares)
		})
	}
}

func TestSQLiteReopen(t *testing.T) {
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	l, store, err := ledger.Open(cfg)
	require.NoError(t, err)
	id, err := l.Mint("owner", types.MintRequest{Name: "Lot 4", Location: "Ridge Rd", TotalShares: 10})
	require.NoError(t, err)
	require.NoError(t, l.Transfer(id, "owner", "buyer", 3))
	require.NoError(t, store.Close())

	l, store, err = ledger.Open(cfg)
	require.NoError(t, err)
	defer store.Close()

	shares, err := l.GetBalance(id, "buyer")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), shares)
	require.NoError(t, l.Verify())
}

func TestIsBusinessError(t *testing.T) {
	l := ledger.New(ledger.NewMemoryStore())

	_, err := l.GetProperty(7)
	assert.True(t, ledger.IsBusinessError(err))
	assert.False(t, ledger.IsBusinessError(types.ErrStoreClosed))
}
