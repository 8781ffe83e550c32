package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/pagebuilder/pkg/storage"
	"github.com/urfave/cli/v3"
)

// SeedCommand creates the seed command
func SeedCommand() *cli.Command {
	return &cli.Command{
		Name:      "seed",
		Usage:     "Write demo members, groups, listings and events for configured tenants",
		ArgsUsage: "[tenant...]",
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

			if store.Driver() == storage.DriverSQLite {
				if _, err := store.Migrate(ctx); err != nil {
					return fmt.Errorf("migrating database: %w", err)
				}
			}

			slugs := c.Args().Slice()
			if len(slugs) == 0 {
				slugs = cfg.TenantSlugs()
			}
			if len(slugs) == 0 {
				return fmt.Errorf("no tenants configured")
			}

			for _, slug := range slugs {
				t, err := tenantFromConfig(cfg, slug)
				if err != nil {
					return err
				}
				if err := store.Seed(ctx, storage.SeedTenant{ID: t.ID, Slug: t.Slug, Name: t.Name}); err != nil {
					return fmt.Errorf("seeding %s: %w", slug, err)
				}
				fmt.Printf("Seeded %s (tenant %d)\n", slug, t.ID)
			}
			return nil
		},
	}
}
