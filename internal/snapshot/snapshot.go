package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

// Snapshot file names inside an export directory.
const (
	PropertiesFile = "properties.jsonl"
	HoldingsFile   = "holdings.jsonl"
	JournalFile    = "journal.jsonl"
)

// ErrStoreNotEmpty is returned by Import when the target already holds
// properties.
var ErrStoreNotEmpty = errors.New("target store is not empty")

// Counts summarizes what an Export or Import moved.
type Counts struct {
	Properties int `json:"properties"`
	Holdings   int `json:"holdings"`
	Entries    int `json:"entries"`
}

// Export writes a consistent snapshot of store into dir, creating it if
// needed. Each file is replaced atomically.
func Export(store types.Store, dir string) (Counts, error) {
	var (
		props    []types.Property
		holdings []types.Holding
		entries  []types.Entry
	)
	err := store.View(func(tx types.Tx) error {
		var err error
		props, err = tx.Properties()
		if err != nil {
			return err
		}
		for _, p := range props {
			hs, err := tx.Holdings(p.ID)
			if err != nil {
				return err
			}
			holdings = append(holdings, hs...)

			es, err := tx.Entries(p.ID)
			if err != nil {
				return err
			}
			entries = append(entries, es...)
		}
		return nil
	})
	if err != nil {
		return Counts{}, fmt.Errorf("reading store: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Counts{}, err
	}
	if err := writeFile(filepath.Join(dir, PropertiesFile), props); err != nil {
		return Counts{}, err
	}
	if err := writeFile(filepath.Join(dir, HoldingsFile), holdings); err != nil {
		return Counts{}, err
	}
	if err := writeFile(filepath.Join(dir, JournalFile), entries); err != nil {
		return Counts{}, err
	}
	return Counts{Properties: len(props), Holdings: len(holdings), Entries: len(entries)}, nil
}

// Import loads a snapshot from dir into an empty store in one unit of work.
// Every record is checked against the rules a mint or transfer enforces;
// malformed records wrap types.ErrInvalidArgument. Cross-record invariants
// such as share conservation are left to the caller's verification.
func Import(store types.Store, dir string) (Counts, error) {
	props, err := unmarshalAll[types.Property](filepath.Join(dir, PropertiesFile))
	if err != nil {
		return Counts{}, err
	}
	holdings, err := unmarshalAll[types.Holding](filepath.Join(dir, HoldingsFile))
	if err != nil {
		return Counts{}, err
	}
	entries, err := unmarshalAll[types.Entry](filepath.Join(dir, JournalFile))
	if err != nil {
		return Counts{}, err
	}

	if err := validateRecords(props, holdings, entries); err != nil {
		return Counts{}, err
	}

	err = store.Update(func(tx types.Tx) error {
		next, err := tx.NextPropertyID()
		if err != nil {
			return err
		}
		if next != 0 {
			return ErrStoreNotEmpty
		}
		for _, p := range props {
			if err := tx.PutProperty(p); err != nil {
				return err
			}
		}
		known := make(map[types.PropertyID]bool, len(props))
		for _, p := range props {
			known[p.ID] = true
		}
		for _, h := range holdings {
			if !known[h.PropertyID] {
				return fmt.Errorf("%w: holding of %s references property %d", types.ErrNotFound, h.Holder, h.PropertyID)
			}
			if err := tx.SetBalance(h.Key(), h.Shares); err != nil {
				return err
			}
		}
		for _, e := range entries {
			if !known[e.PropertyID] {
				return fmt.Errorf("%w: entry %s references property %d", types.ErrNotFound, e.EntryID, e.PropertyID)
			}
			if err := tx.AppendEntry(e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}
	return Counts{Properties: len(props), Holdings: len(holdings), Entries: len(entries)}, nil
}

func validateRecords(props []types.Property, holdings []types.Holding, entries []types.Entry) error {
	for i, p := range props {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s record %d: %w", PropertiesFile, i+1, err)
		}
	}
	for i, h := range holdings {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("%s record %d: %w", HoldingsFile, i+1, err)
		}
	}
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%s record %d: %w", JournalFile, i+1, err)
		}
	}
	return nil
}

func writeFile[T any](path string, values []T) error {
	records, err := marshalAll(values)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return writeJSONL(path, records)
}
