package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labeler/internal/backend"
	"labeler/internal/config"
	"labeler/internal/highlight"
	"labeler/internal/logging"
	"labeler/internal/service"
)

// cliMarker delimits highlights in terminal output.
var cliMarker = highlight.Marker{Open: "[[", Close: "]]"}

type openFunc func(cfg *config.Config) (*backend.Backend, error)

// app carries what every subcommand needs once the root pre-run has loaded
// configuration.
type app struct {
	open openFunc

	backendName string
	dataDir     string

	cfg    *config.Config
	logger *zap.Logger
	store  *backend.Backend
}

// newRootCmd builds the command tree. The returned teardown closes the backend
// and flushes the logger; cobra skips post-run hooks when a command fails, so
// callers run it after Execute.
func newRootCmd(open openFunc) (*cobra.Command, func()) {
	a := &app{open: open}

	root := &cobra.Command{
		Use:   "labelctl",
		Short: "Review and export job-posting extraction labels",
		Long: `labelctl works on the same storage backends as the labeling server.

Configuration is read from LABELER_* environment variables; --backend and
--data-dir override the storage section.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.backendName, "backend", "", "Storage backend: file, postgres or s3")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Data directory for the file backend")

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newSetCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newMigrateCmd(a),
	)
	return root, a.teardown
}

func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.backendName != "" {
		cfg.Storage.Backend = a.backendName
	}
	if a.dataDir != "" {
		cfg.Storage.DataDir = a.dataDir
	}
	a.cfg = cfg

	// Logs go to stderr so stdout stays clean for command output.
	cfg.Log.Format = "console"
	if os.Getenv("LABELER_LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// backend opens the configured storage backend on first use.
func (a *app) backend() (*backend.Backend, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := a.open(a.cfg)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

func (a *app) labeling() (service.LabelingService, error) {
	store, err := a.backend()
	if err != nil {
		return nil, err
	}
	hl := highlight.New(highlight.WithMarker(cliMarker))
	return service.NewLabelingService(store.Records, store.Docs, hl, a.logger), nil
}

func (a *app) teardown() {
	if a.store != nil {
		_ = a.store.Close()
		a.store = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
