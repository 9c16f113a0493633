// Package cli implements the deeds command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/deeds/internal/paths"
	"github.com/mesh-intelligence/deeds/pkg/deeds"
	"github.com/mesh-intelligence/deeds/pkg/ledger"
	"github.com/mesh-intelligence/deeds/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by the caller's input.
func userError(err error) error { return &exitError{code: exitUserError, err: err} }

// sysError marks err as an environment or storage failure.
func sysError(err error) error { return &exitError{code: exitSysError, err: err} }

// ledgerError classifies an error returned by the ledger.
func ledgerError(err error) error {
	if ledger.IsBusinessError(err) {
		return userError(err)
	}
	return sysError(err)
}

// ExitCode maps an error returned by the root command to a process exit code.
// Errors that were not classified come from cobra argument parsing and count
// as user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// app holds the state shared by one invocation of the root command.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	as        string

	cfg    *viper.Viper
	logger *zap.Logger
}

// NewRootCmd creates the top-level "deeds" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "deeds",
		Short:         "A fractional-property ownership ledger",
		Long:          "Deeds mints properties into a fixed number of shares and tracks\nhow many shares each principal holds.",
		Version:       deeds.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.BoolVar(&a.jsonMode, "json", false, "output as JSON")
	pf.StringVar(&a.as, "as", "", "principal to act as (overrides config principal)")

	root.AddCommand(
		newInitCmd(a),
		newVersionCmd(a),
		newMintCmd(a),
		newDetailsCmd(a),
		newTransferCmd(a),
		newOwnerSharesCmd(a),
		newListCmd(a),
		newHoldersCmd(a),
		newHistoryCmd(a),
		newVerifyCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "deeds:", err)
	}
	os.Exit(ExitCode(err))
}

// setup loads configuration and builds the logger. Commands that need the
// ledger open the store through withLedger.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.cfg = cfg

	logger, err := newLogger(cfg.GetString(cfgKeyLogLevel), cmd.ErrOrStderr())
	if err != nil {
		return userError(err)
	}
	a.logger = logger
	return nil
}

// storeConfig resolves the backend and data directory for this invocation.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := types.Config{Backend: a.cfg.GetString(cfgKeyBackend), DataDir: dataDir}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError(fmt.Errorf("config %s %q: %w", cfgKeyBackend, cfg.Backend, err))
	}
	return cfg, nil
}

// withLedger opens the configured store, runs fn against a ledger over it
// and closes the store again.
func (a *app) withLedger(fn func(l types.Ledger) error) (err error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}
	l, store, err := ledger.Open(cfg, ledger.WithLogger(a.logger))
	if err != nil {
		return sysError(fmt.Errorf("open %s store: %w", cfg.Backend, err))
	}
	a.logger.Debug("store opened", zap.String("backend", cfg.Backend), zap.String("data_dir", cfg.DataDir))
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = sysError(fmt.Errorf("close store: %w", cerr))
		}
	}()
	return fn(l)
}

// principal returns the acting principal: --as, then config principal.
func (a *app) principal() (string, error) {
	if a.as != "" {
		return a.as, nil
	}
	if p := a.cfg.GetString(cfgKeyPrincipal); p != "" {
		return p, nil
	}
	return "", userError(errors.New("no principal: pass --as or set principal in config.yaml"))
}

// out is the writer command results go to.
func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
