package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/deeds/internal/ledger"
	"github.com/mesh-intelligence/deeds/internal/memory"
	"github.com/mesh-intelligence/deeds/internal/sqlite"
	"github.com/mesh-intelligence/deeds/pkg/types"
)

const (
	alice = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	bob   = "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"
)

var fixedClock = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

// populated returns a memory store holding two properties and one transfer.
func populated(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	l := ledger.New(store, ledger.WithClock(fixedClock))

	id, err := l.Mint(alice, types.MintRequest{Name: "Luxury Apartment", Location: "123 Main St", TotalShares: 1000, PricePerShare: 100})
	require.NoError(t, err)
	_, err = l.Mint(bob, types.MintRequest{Name: "Warehouse", Location: "9 Dock Rd", TotalShares: 50, PricePerShare: 2500})
	require.NoError(t, err)
	require.NoError(t, l.Transfer(id, alice, bob, 400))
	return store
}

func sqliteStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestExportImportRoundTrip(t *testing.T) {
	src := populated(t)
	dir := filepath.Join(t.TempDir(), "snap")

	counts, err := Export(src, dir)
	require.NoError(t, err)
	assert.Equal(t, Counts{Properties: 2, Holdings: 3, Entries: 3}, counts)

	for _, name := range []string{PropertiesFile, HoldingsFile, JournalFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	dst := sqliteStore(t)
	counts, err = Import(dst, dir)
	require.NoError(t, err)
	assert.Equal(t, Counts{Properties: 2, Holdings: 3, Entries: 3}, counts)

	want := ledger.New(src)
	got := ledger.New(dst)
	require.NoError(t, got.Verify())

	wantProps, err := want.Properties()
	require.NoError(t, err)
	gotProps, err := got.Properties()
	require.NoError(t, err)
	assert.Equal(t, wantProps, gotProps)

	for _, p := range wantProps {
		wantHolders, err := want.Holders(p.ID)
		require.NoError(t, err)
		gotHolders, err := got.Holders(p.ID)
		require.NoError(t, err)
		assert.Equal(t, wantHolders, gotHolders)

		wantHistory, err := want.History(p.ID)
		require.NoError(t, err)
		gotHistory, err := got.History(p.ID)
		require.NoError(t, err)
		assert.Equal(t, wantHistory, gotHistory)
	}
}

func TestExportEmptyStore(t *testing.T) {
	dir := t.TempDir()
	counts, err := Export(memory.NewStore(), dir)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)

	data, err := os.ReadFile(filepath.Join(dir, PropertiesFile))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestImportRejectsNonEmptyStore(t *testing.T) {
	dir := t.TempDir()
	_, err := Export(populated(t), dir)
	require.NoError(t, err)

	target := populated(t)
	_, err = Import(target, dir)
	assert.ErrorIs(t, err, ErrStoreNotEmpty)
}

func TestImportFailures(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(t *testing.T, dir string)
		wantErr error
	}{
		{
			name: "malformed line",
			corrupt: func(t *testing.T, dir string) {
				appendLine(t, filepath.Join(dir, HoldingsFile), `{"property_id": 0,`)
			},
		},
		{
			name: "missing journal file",
			corrupt: func(t *testing.T, dir string) {
				require.NoError(t, os.Remove(filepath.Join(dir, JournalFile)))
			},
			wantErr: os.ErrNotExist,
		},
		{
			name: "holding of unknown property",
			corrupt: func(t *testing.T, dir string) {
				appendLine(t, filepath.Join(dir, HoldingsFile), `{"property_id":7,"holder":"`+alice+`","shares":5}`)
			},
			wantErr: types.ErrNotFound,
		},
		{
			name: "property with empty name",
			corrupt: func(t *testing.T, dir string) {
				rewriteProperty(t, dir, func(p *types.Property) { p.Name = "" })
			},
			wantErr: types.ErrInvalidArgument,
		},
		{
			name: "property with empty location",
			corrupt: func(t *testing.T, dir string) {
				rewriteProperty(t, dir, func(p *types.Property) { p.Location = "" })
			},
			wantErr: types.ErrInvalidArgument,
		},
		{
			name: "property without minter",
			corrupt: func(t *testing.T, dir string) {
				rewriteProperty(t, dir, func(p *types.Property) { p.MintedBy = "" })
			},
			wantErr: types.ErrInvalidArgument,
		},
		{
			name: "property with zero shares",
			corrupt: func(t *testing.T, dir string) {
				rewriteProperty(t, dir, func(p *types.Property) { p.TotalShares = 0 })
			},
			wantErr: types.ErrInvalidArgument,
		},
		{
			name: "property above the share cap",
			corrupt: func(t *testing.T, dir string) {
				rewriteProperty(t, dir, func(p *types.Property) { p.TotalShares = types.MaxTotalShares + 1 })
			},
			wantErr: types.ErrInvalidArgument,
		},
		{
			name: "holding without holder",
			corrupt: func(t *testing.T, dir string) {
				appendLine(t, filepath.Join(dir, HoldingsFile), `{"property_id":0,"holder":"","shares":0}`)
			},
			wantErr: types.ErrInvalidArgument,
		},
		{
			name: "entry without recipient",
			corrupt: func(t *testing.T, dir string) {
				appendLine(t, filepath.Join(dir, JournalFile), `{"entry_id":"e9","operation":"transfer","property_id":0,"sender":"`+alice+`","recipient":"","amount":1,"created_at":"2026-03-01T12:00:00Z"}`)
			},
			wantErr: types.ErrInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := Export(populated(t), dir)
			require.NoError(t, err)
			tt.corrupt(t, dir)

			target := memory.NewStore()
			_, err = Import(target, dir)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			props, err := ledger.New(target).Properties()
			require.NoError(t, err)
			assert.Empty(t, props, "failed import must leave the target untouched")
		})
	}
}

func TestWriteJSONLReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	require.NoError(t, writeJSONL(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

// rewriteProperty applies fn to the first record of the properties file.
func rewriteProperty(t *testing.T, dir string, fn func(p *types.Property)) {
	t.Helper()
	path := filepath.Join(dir, PropertiesFile)
	props, err := unmarshalAll[types.Property](path)
	require.NoError(t, err)
	require.NotEmpty(t, props)
	fn(&props[0])
	require.NoError(t, writeFile(path, props))
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
}
