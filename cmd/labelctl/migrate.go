package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(a *app) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "migrate <up|down|steps N|version>",
		Short: "Apply the postgres schema migrations",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrate.New(source, a.cfg.DB.DSN())
			if err != nil {
				return fmt.Errorf("failed to create migrate instance: %w", err)
			}
			defer m.Close()

			out := cmd.OutOrStdout()
			switch args[0] {
			case "up":
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration up failed: %w", err)
				}
				a.logger.Info("migrations applied")

			case "down":
				if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration down failed: %w", err)
				}
				a.logger.Info("migrations reverted")

			case "steps":
				if len(args) < 2 {
					return errors.New("steps requires a number argument")
				}
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid steps argument: %w", err)
				}
				if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration steps failed: %w", err)
				}
				a.logger.Info("migration steps applied", zap.Int("steps", n))

			case "version":
				version, dirty, err := m.Version()
				if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
					return fmt.Errorf("failed to get version: %w", err)
				}
				fmt.Fprintf(out, "version: %d, dirty: %v\n", version, dirty)

			default:
				return fmt.Errorf("unknown migrate command %q (want up, down, steps N or version)", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "file://db/migrations", "Migration source URL")
	return cmd
}
