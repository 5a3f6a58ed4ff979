package commands

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"limsmock/internal/config"
	"limsmock/internal/fixture"
	"limsmock/internal/infra/persistence/memory"
	"limsmock/pkg/domain"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newFixturesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Inspect and publish fixture documents",
	}
	cmd.AddCommand(newFixturesCheckCmd(a), newFixturesPushCmd(a))
	return cmd
}

func newFixturesCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [key]",
		Short: "Load the configured fixtures and print entity counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			if len(args) == 1 {
				cfg.Fixtures.Key = args[0]
			}
			src, err := fixture.Open(cmd.Context(), &cfg)
			if err != nil {
				return err
			}
			defer func() { _ = src.Close() }()

			store := memory.NewStore()
			if _, err := fixture.Seed(cmd.Context(), src, store, a.log); err != nil {
				return err
			}
			counts := store.Counts()
			entities := make([]domain.EntityType, 0, len(counts))
			for entity := range counts {
				entities = append(entities, entity)
			}
			slices.Sort(entities)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "source\t%s\n", src.Describe())
			for _, entity := range entities {
				fmt.Fprintf(tw, "%s\t%d\n", entity, counts[entity])
			}
			return tw.Flush()
		},
	}
}

func newFixturesPushCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "push <file> [key]",
		Short: "Write a local fixture document to the configured fixture source",
		Long: `Decode a local JSON or YAML fixture and write it to the configured source.
Blob keys are create-only; SQLite and Postgres tables are overwritten per bucket.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			if len(args) == 2 {
				cfg.Fixtures.Key = args[1]
			}
			if cfg.Fixtures.Source == config.SourceNone {
				return errors.WithHint(fixture.ErrNoSource, "set fixtures.source (GMOCK_FIXTURES_SOURCE) to blob, sqlite or postgres")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "open %s", args[0])
			}
			defer func() { _ = f.Close() }()
			snap, err := fixture.Decode(f, fixture.FormatFor(args[0]))
			if err != nil {
				return err
			}

			src, err := fixture.Open(cmd.Context(), &cfg)
			if err != nil {
				return err
			}
			defer func() { _ = src.Close() }()
			if err := src.Save(cmd.Context(), snap); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "pushed %d entities to %s\n", snap.Len(), src.Describe())
			return err
		},
	}
}
