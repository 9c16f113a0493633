package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/deeds/internal/snapshot"
	"github.com/mesh-intelligence/deeds/pkg/deeds"
	"github.com/mesh-intelligence/deeds/pkg/ledger"
	"github.com/mesh-intelligence/deeds/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	var principal string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and initialize storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.storeConfig()
			if err != nil {
				return err
			}
			written, err := writeConfigIfMissing(a.configDir, configFile{
				Backend:   cfg.Backend,
				DataDir:   cfg.DataDir,
				Principal: principal,
				LogLevel:  a.cfg.GetString(cfgKeyLogLevel),
			})
			if err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}

			store, err := ledger.OpenStore(cfg)
			if err != nil {
				return sysError(fmt.Errorf("initialize storage: %w", err))
			}
			if err := store.Close(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			result := map[string]any{
				"config_dir":     a.configDir,
				"data_dir":       cfg.DataDir,
				"backend":        cfg.Backend,
				"config_written": written,
			}
			return a.emit(out(cmd), result, func(w io.Writer) {
				fmt.Fprintln(w, "Deeds initialized successfully")
				fmt.Fprintln(w, "  config:", a.configDir)
				fmt.Fprintln(w, "  data:  ", cfg.DataDir)
			})
		},
	}
	cmd.Flags().StringVar(&principal, "principal", "", "default principal recorded in config.yaml")
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the deeds version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := map[string]string{"version": deeds.Version, "revision": deeds.Revision, "module": deeds.ModulePath}
			return a.emit(out(cmd), result, func(w io.Writer) {
				fmt.Fprintf(w, "deeds v%s (%s)\nmodule: %s\n", deeds.Version, deeds.Revision, deeds.ModulePath)
			})
		},
	}
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check share conservation and journal consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(l types.Ledger) error {
				if err := l.Verify(); err != nil {
					return sysError(err)
				}
				return a.emit(out(cmd), map[string]bool{"ok": true}, func(w io.Writer) {
					fmt.Fprintln(w, "Ledger is consistent")
				})
			})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write a JSONL snapshot of the ledger to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.storeConfig()
			if err != nil {
				return err
			}
			store, err := ledger.OpenStore(cfg)
			if err != nil {
				return sysError(fmt.Errorf("open %s store: %w", cfg.Backend, err))
			}
			defer store.Close()

			counts, err := snapshot.Export(store, args[0])
			if err != nil {
				return sysError(fmt.Errorf("export: %w", err))
			}
			a.logger.Info("snapshot exported", zap.String("dir", args[0]), zap.Int("properties", counts.Properties))
			return a.emit(out(cmd), counts, func(w io.Writer) {
				fmt.Fprintf(w, "Exported %d properties, %d holdings, %d journal entries to %s\n",
					counts.Properties, counts.Holdings, counts.Entries, args[0])
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load a JSONL snapshot into an empty ledger",
		Long: "Import stages the snapshot in memory and verifies it before writing\n" +
			"anything to the configured store, which must be empty.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			staged := ledger.NewMemoryStore()
			defer staged.Close()
			if _, err := snapshot.Import(staged, args[0]); err != nil {
				return userError(fmt.Errorf("read snapshot: %w", err))
			}
			if err := ledger.New(staged).Verify(); err != nil {
				return userError(fmt.Errorf("snapshot rejected: %w", err))
			}

			cfg, err := a.storeConfig()
			if err != nil {
				return err
			}
			store, err := ledger.OpenStore(cfg)
			if err != nil {
				return sysError(fmt.Errorf("open %s store: %w", cfg.Backend, err))
			}
			defer store.Close()

			counts, err := snapshot.Import(store, args[0])
			if err != nil {
				if errors.Is(err, snapshot.ErrStoreNotEmpty) {
					return userError(err)
				}
				return sysError(fmt.Errorf("import: %w", err))
			}
			a.logger.Info("snapshot imported", zap.String("dir", args[0]), zap.Int("properties", counts.Properties))
			return a.emit(out(cmd), counts, func(w io.Writer) {
				fmt.Fprintf(w, "Imported %d properties, %d holdings, %d journal entries\n",
					counts.Properties, counts.Holdings, counts.Entries)
			})
		},
	}
}
