// Package commands implements the gmock command line.
package commands

import (
	"limsmock/internal/config"
	"limsmock/internal/logger"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by subcommands once the root has loaded it.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd builds the gmock command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	var configPath string

	root := &cobra.Command{
		Use:   "gmock",
		Short: "In-memory mock of the Genologics LIMS API",
		Long: `gmock serves an in-memory mock of the Genologics LIMS client API.

Entities are seeded from fixture documents (JSON or YAML) kept on disk, in
S3, or in a SQLite/Postgres fixtures table.

Examples:
  gmock name                       # Print the application name
  gmock serve --addr :8080         # Start the HTTP view
  gmock fixtures check             # Load the configured fixtures and count them
  gmock fixtures push lab.yaml     # Upload a fixture document`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if verbose, _ := cmd.Flags().GetCount("verbose"); verbose > 0 {
				cfg.Log.Level = "debug"
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return errors.Wrap(err, "initialize logger")
			}
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (toml, yaml or json)")
	root.PersistentFlags().CountP("verbose", "v", "Enable debug logging")

	root.AddCommand(newNameCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newFixturesCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}
