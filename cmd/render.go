package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/pages"
	"github.com/rubiojr/pagebuilder/pkg/tenant"
	"github.com/rubiojr/pagebuilder/pkg/version"
	"github.com/rubiojr/pagebuilder/pkg/web"
	"github.com/urfave/cli/v3"
)

// RenderCommand creates the render command
func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a page of a tenant to HTML",
		ArgsUsage: "<tenant> <page slug | page file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write HTML to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "full",
				Usage: "Wrap the fragment in the page layout",
			},
			&cli.BoolFlag{
				Name:  "static",
				Usage: "Do not open the database; data-driven blocks are skipped",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("usage: %s render <tenant> <page slug | page file>", c.Root().Name)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			t, err := tenantFromConfig(cfg, c.Args().Get(0))
			if err != nil {
				return err
			}
			page, err := loadPage(cfg.PagesDir, t.Slug, c.Args().Get(1))
			if err != nil {
				return err
			}

			var gw gateway.Gateway
			if !c.Bool("static") {
				store, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer closeStore(store)
				gw = store
			}
			composer, err := newComposer(cfg, gw, nil)
			if err != nil {
				return err
			}

			out := io.Writer(os.Stdout)
			if path := c.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			res, err := composer.Compose(tenant.WithTenant(ctx, t), page.Blocks)
			if err != nil {
				return err
			}
			if c.Bool("full") {
				data := web.PageData{
					Title:      page.Title,
					TenantName: t.Name,
					TenantSlug: t.Slug,
					BasePath:   t.BasePath,
					Body:       res.HTML,
					Version:    version.APIVersion(),
				}
				if err := web.Page(data).Render(ctx, out); err != nil {
					return fmt.Errorf("writing page: %w", err)
				}
			} else if _, err := io.WriteString(out, string(res.HTML)+"\n"); err != nil {
				return fmt.Errorf("writing fragment: %w", err)
			}

			counts := res.Counts()
			fmt.Fprintf(os.Stderr, "%s/%s: %d rendered, %d rejected, %d failed\n", t.Slug, page.Slug,
				counts[core.StateRendered], counts[core.StateRejected], counts[core.StateFailed])
			return nil
		},
	}
}

// loadPage reads ref as a file when it exists, otherwise as the slug of a
// page under <pagesDir>/<tenant>/.
func loadPage(pagesDir, tenantSlug, ref string) (*core.Page, error) {
	if fi, err := os.Stat(ref); err == nil && !fi.IsDir() {
		return pages.ReadFile(ref)
	}
	store := pages.NewStore(pagesDir)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store.Get(tenantSlug, ref)
}
