package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/bugtracker/internal/adapter/postgres"
	"github.com/heartmarshall/bugtracker/internal/config"
)

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage PostgreSQL schema migrations",
	}

	open := func(cmd *cobra.Command) (*postgres.Migrator, error) {
		cfg, err := flags.load()
		if err != nil {
			return nil, err
		}
		if cfg.Storage.Driver != config.DriverPostgres {
			return nil, errors.New("migrate: storage driver is not postgres")
		}
		return postgres.NewMigrator(cmd.Context(), cfg.Database.DSN)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open(cmd)
				if err != nil {
					return err
				}
				defer m.Close()

				n, err := m.Up(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open(cmd)
				if err != nil {
					return err
				}
				defer m.Close()
				return m.Down(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open(cmd)
				if err != nil {
					return err
				}
				defer m.Close()

				states, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tAPPLIED\tSOURCE")
				for _, s := range states {
					fmt.Fprintf(tw, "%d\t%t\t%s\n", s.Version, s.Applied, s.Source)
				}
				return tw.Flush()
			},
		},
	)
	return cmd
}
