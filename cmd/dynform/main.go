// Package main provides the CLI entry point for dynform.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/AntoineGS/dynform/internal/config"
	"github.com/AntoineGS/dynform/internal/form"
	"github.com/AntoineGS/dynform/internal/history"
	"github.com/AntoineGS/dynform/internal/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string // Override from --config flag
	verbose    bool
	logFile    *os.File
)

var errNotTerminal = errors.New("stdout is not a terminal")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dynform",
		Version: version,
		Short:   "A dynamic list form with validation and read-only views",
		Long: `dynform edits an ordered list of (text, category) fields, validates that
every field is filled in, and shows the last successful submission as a
heading list and as a table.

Configuration is read from ~/.config/dynform/config.yaml (override with
--config or $DYNFORM_CONFIG). Run 'dynform init' to write the defaults.
Run without arguments to start the interactive TUI.`,
		SilenceUsage: true,
		RunE:         runInteractive,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !verbose {
				return nil
			}
			logWriter := cmd.ErrOrStderr()
			// The TUI owns the terminal, so logs go to a file instead
			if cmd.Root() == cmd && tui.IsTerminal() {
				logPath := filepath.Join(os.TempDir(), "dynform.log")
				f, err := os.Create(logPath) //nolint:gosec // fixed name under the temp dir
				if err == nil {
					logFile = f
					logWriter = f
					fmt.Fprintf(os.Stderr, "Verbose logs: %s\n", logPath)
				}
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logFile != nil {
				_ = logFile.Close()
				logFile = nil
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newInitCmd(), newRenderCmd(), newServeCmd(), newHistoryCmd())

	return rootCmd
}

// loadConfig reads the configuration from --config or the default location.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(config.ExpandPath(configPath))
	}
	return config.LoadAppConfig()
}

func resolvedConfigPath() string {
	if configPath != "" {
		return config.ExpandPath(configPath)
	}
	return config.AppConfigPath()
}

// openJournal opens the submission journal when one is configured. The
// returned notifier is nil when journaling is disabled. The close func flushes
// queued writes and then closes the store.
func openJournal(cfg *config.Config) (*history.Store, form.Notifier, func(), error) {
	if cfg.History.Path == "" {
		return nil, nil, func() {}, nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening history: %w", err)
	}

	journal := history.NewJournal(store, cfg.History.Keep).WithLogger(slog.Default())
	closeJournal := func() {
		if err := journal.Close(); err != nil {
			slog.Warn("flushing history", slog.Any("error", err))
		}
		closeStore(store)
	}

	return store, journal, closeJournal, nil
}

func closeStore(store *history.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		slog.Warn("closing history", slog.Any("error", err))
	}
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	if !tui.IsTerminal() {
		return fmt.Errorf("%w: use 'dynform render' or 'dynform serve'", errNotTerminal)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, journal, closeJournal, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer closeJournal()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	opts := cfg.SessionOptions()
	opts.Logger = slog.Default()
	sess := form.New(opts)

	return tui.Run(ctx, sess, tui.Options{
		Notifier: journal,
		Store:    store,
		Logger:   slog.Default(),
	})
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Write a configuration file holding every default value.

The file is created at ~/.config/dynform/config.yaml unless --config or
$DYNFORM_CONFIG points elsewhere. An existing file is kept unless --force
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	path := resolvedConfigPath()
	if path == "" {
		return fmt.Errorf("getting home directory: %w", config.ErrNoHome)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists: %s (use --force to overwrite)", path)
	}

	if err := config.Save(config.Default(), path); err != nil {
		return fmt.Errorf("saving app config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
