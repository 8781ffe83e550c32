package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Rich content policies for richtext, columns and accordion answers.
const (
	RichContentSanitize = "sanitize"
	RichContentTrusted  = "trusted"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultListen      = "localhost:8090"
	defaultImageBase   = "https://ui-avatars.com/api/"
	placeholderDataDir = "/home/user/.local/share/pagebuilder"
)

type Config struct {
	Listen           string                  `toml:"listen"`
	PagesDir         string                  `toml:"pages_dir"`
	Debug            bool                    `toml:"debug"`
	RichContent      string                  `toml:"rich_content"`
	DefaultImageBase string                  `toml:"default_image_base"`
	Database         DatabaseConfig          `toml:"database"`
	Tenants          map[string]TenantConfig `toml:"tenants"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string `toml:"driver"`
	// DSN is a file path for sqlite and a connection string for postgres.
	DSN string `toml:"dsn"`
}

// TenantConfig maps a URL slug to the tenant id used in gateway queries.
type TenantConfig struct {
	ID       int64  `toml:"id"`
	Name     string `toml:"name"`
	BasePath string `toml:"base_path,omitempty"`
}

func GetDefaultConfig() (*Config, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("getting default data directory: %w", err)
	}
	cfg := &Config{
		Listen:           defaultListen,
		PagesDir:         filepath.Join(dataDir, "pages"),
		RichContent:      RichContentSanitize,
		DefaultImageBase: defaultImageBase,
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    filepath.Join(dataDir, "pagebuilder.db"),
		},
		Tenants: make(map[string]TenantConfig),
	}
	return cfg, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	defaults, err := GetDefaultConfig()
	if err != nil {
		return nil, err
	}

	config := *defaults
	config.Tenants = nil
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.Tenants == nil {
		config.Tenants = make(map[string]TenantConfig)
	}
	if config.Database.Driver == "" {
		config.Database.Driver = DriverSQLite
	}
	if config.Database.DSN == "" && config.Database.Driver == DriverSQLite {
		config.Database.DSN = defaults.Database.DSN
	}
	if config.RichContent == "" {
		config.RichContent = RichContentSanitize
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the database driver, the rich content policy and that
// tenant ids are positive and unique.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required for driver %s", c.Database.Driver)
	}

	switch c.RichContent {
	case RichContentSanitize, RichContentTrusted:
	default:
		return fmt.Errorf("rich_content must be %q or %q, got %q", RichContentSanitize, RichContentTrusted, c.RichContent)
	}

	seen := make(map[int64]string, len(c.Tenants))
	for slug, t := range c.Tenants {
		if t.ID <= 0 {
			return fmt.Errorf("tenant %s: id must be positive", slug)
		}
		if other, ok := seen[t.ID]; ok {
			return fmt.Errorf("tenant %s: id %d already used by %s", slug, t.ID, other)
		}
		seen[t.ID] = slug
	}
	return nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return "", fmt.Errorf("getting default data directory: %w", err)
	}
	return strings.ReplaceAll(configTemplate, placeholderDataDir, dataDir), nil
}

// Tenant returns the tenant configured under slug. The base path defaults
// to "/t/<slug>".
func (c *Config) Tenant(slug string) (TenantConfig, bool) {
	t, ok := c.Tenants[slug]
	if !ok {
		return TenantConfig{}, false
	}
	if t.BasePath == "" {
		t.BasePath = "/t/" + slug
	}
	if t.Name == "" {
		t.Name = slug
	}
	return t, true
}

// TenantSlugs returns the configured tenant slugs, sorted.
func (c *Config) TenantSlugs() []string {
	slugs := make([]string, 0, len(c.Tenants))
	for slug := range c.Tenants {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// GetDefaultDataDir returns the default directory for the database and page
// files, creating it when missing.
func GetDefaultDataDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "pagebuilder")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetConfigDir returns the configuration directory for pagebuilder
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "pagebuilder")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
