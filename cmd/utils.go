package cmd

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rubiojr/pagebuilder/pkg/api"
	"github.com/rubiojr/pagebuilder/pkg/config"
	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/log"
	"github.com/rubiojr/pagebuilder/pkg/render"
	"github.com/rubiojr/pagebuilder/pkg/sanitize"
	"github.com/rubiojr/pagebuilder/pkg/storage"
	"github.com/rubiojr/pagebuilder/pkg/tenant"
	"github.com/urfave/cli/v3"
)

// loadConfig reads the --config file and applies --debug.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.Bool("debug") || cfg.Debug {
		log.SetGlobalDebug(true)
	}
	return cfg, nil
}

// openStore opens the configured community database.
func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Database.Driver, err)
	}
	return store, nil
}

func closeStore(store *storage.Store) {
	if err := store.Close(); err != nil {
		log.ForService("storage").Warnf("failed to close database: %v", err)
	}
}

// richPolicy maps the rich_content setting to the function applied to rich
// fields.
func richPolicy(cfg *config.Config) func(string) string {
	if cfg.RichContent == config.RichContentTrusted {
		return sanitize.Trusted
	}
	return sanitize.RichHTML
}

// newComposer builds the renderer registry for cfg. gw may be nil, in which
// case the data-driven grids are not registered.
func newComposer(cfg *config.Config, gw gateway.Gateway, metrics *render.Metrics) (*render.Composer, error) {
	deps := render.Deps{
		Gateway:          gw,
		Rich:             richPolicy(cfg),
		DefaultImageBase: cfg.DefaultImageBase,
		Now:              time.Now,
		Metrics:          metrics,
	}
	reg, err := render.DefaultRegistry(deps)
	if err != nil {
		return nil, fmt.Errorf("building renderer registry: %w", err)
	}
	return render.NewComposer(reg, metrics), nil
}

// newMetrics registers the render metrics with the default registry, which
// is what promhttp.Handler exposes.
func newMetrics() *render.Metrics {
	return render.NewMetrics(prometheus.DefaultRegisterer)
}

func tenantFromConfig(cfg *config.Config, slug string) (*tenant.Tenant, error) {
	tc, ok := cfg.Tenant(slug)
	if !ok {
		return nil, fmt.Errorf("tenant %q is not configured", slug)
	}
	return &tenant.Tenant{ID: tc.ID, Slug: slug, Name: tc.Name, BasePath: tc.BasePath}, nil
}

func tenantsFromConfig(cfg *config.Config) api.Tenants {
	tenants := make(api.Tenants, len(cfg.Tenants))
	for _, slug := range cfg.TenantSlugs() {
		t, err := tenantFromConfig(cfg, slug)
		if err != nil {
			continue
		}
		tenants[slug] = t
	}
	return tenants
}
