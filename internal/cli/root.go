// Package cli implements dashctl, the command-line front end to the dataset
// dashboard. It drives the same core.Service as the web server.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dashbored/internal/config"
	"github.com/JonMunkholm/dashbored/internal/core"
	"github.com/JonMunkholm/dashbored/internal/history"
	"github.com/JonMunkholm/dashbored/internal/logging"
)

// app holds the flags and the service shared by every subcommand.
type app struct {
	dataRoot string
	format   string
	logLevel string

	cfg     *config.Config
	service *core.Service
	closeDB func()
}

// NewRootCommand builds the dashctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "dashctl",
		Short: "Inspect, summarize and chart dashboard datasets",
		Long: `dashctl works on the same data root as the dashboard server: it lists
datasets, prints tables and numeric summaries, exports charts and uploads files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closeDB != nil {
				a.closeDB()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.dataRoot, "data-root", "", "data directory (default: DATA_ROOT or ./data)")
	f.StringVar(&a.format, "format", formatTable, "output format: table, markdown or csv")
	f.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		a.listCommand(),
		a.columnsCommand(),
		a.showCommand(),
		a.uploadCommand(),
		a.recentCommand(),
	)
	return root
}

// Execute runs dashctl with os.Args and exits non-zero on failure.
func Execute() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}

// describe prefers the mapped user message for known failures.
func describe(err error) string {
	if core.IsUserFacing(err) {
		return core.FormatUserError(err) + " (" + err.Error() + ")"
	}
	return err.Error()
}

func (a *app) open(cmd *cobra.Command) error {
	if err := validFormat(a.format); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dataRoot != "" {
		cfg.Data.Root = a.dataRoot
	}
	a.cfg = cfg

	logging.SetupWriter(cmd.ErrOrStderr(), a.logLevel, cfg.Logging.Format)

	recorder, closeDB, err := history.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	a.closeDB = closeDB

	a.service = core.NewService(core.ServiceConfig{
		DataRoot:             cfg.Data.Root,
		MaxUploadSize:        cfg.Upload.MaxFileSize,
		MaxConcurrentUploads: cfg.Upload.MaxConcurrent,
		UploadWait:           cfg.Upload.MaxWaitTime,
	}, recorder, nil)
	return a.service.Init()
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (a *app) out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
