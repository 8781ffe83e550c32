package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/pagebuilder/pkg/db"
	"github.com/urfave/cli/v3"
)

// MigrateCommand creates the migrate command
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the community database schema (sqlite only)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "status",
				Usage: "Show migration status without applying migrations",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Load migrations from this directory instead of the embedded ones",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			migrations, err := store.Migrations(c.String("dir"))
			if err != nil {
				return err
			}

			if c.Bool("status") {
				status, err := migrations.GetMigrationStatus(ctx)
				if err != nil {
					return fmt.Errorf("getting migration status: %w", err)
				}
				printMigrationStatus(status)
				return nil
			}

			applied, err := migrations.ApplyPendingMigrations(ctx)
			if err != nil {
				return err
			}
			if applied == 0 {
				fmt.Println("Database is up to date")
			} else {
				fmt.Printf("Applied %d migrations\n", applied)
			}
			return nil
		},
	}
}

func printMigrationStatus(status *db.MigrationStatus) {
	fmt.Printf("Applied: %d, pending: %d\n", len(status.Applied), len(status.Pending))
	for _, m := range status.Applied {
		fmt.Printf("  ✓ %03d %s (%s)\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04"))
	}
	for _, m := range status.Pending {
		fmt.Printf("  · %03d %s\n", m.Version, m.Name)
	}
}
