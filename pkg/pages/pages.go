// Package pages loads page definitions from disk.
//
// A page file is YAML or JSON:
//
//	title: Welcome
//	slug: home
//	blocks:
//	  - type: hero
//	    data:
//	      title: Welcome to the timebank
//
// Pages are grouped by tenant: <dir>/<tenant slug>/<page slug>.{yaml,yml,json}.
package pages

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/log"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned for unknown tenants or pages.
var ErrNotFound = errors.New("page not found")

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidSlug reports whether s can name a tenant directory or a page file.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Parse decodes a page file. The format is chosen by the extension of name;
// the slug defaults to the file name.
func Parse(name string, content []byte) (*core.Page, error) {
	var page core.Page
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &page); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	case ".json":
		if err := json.Unmarshal(content, &page); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("unsupported page format %q", ext)
	}

	if page.Slug == "" {
		page.Slug = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	if !ValidSlug(page.Slug) {
		return nil, fmt.Errorf("parsing %s: invalid slug %q", name, page.Slug)
	}
	for i := range page.Blocks {
		page.Blocks[i] = core.NewBlock(page.Blocks[i].Type, page.Blocks[i].Data)
	}
	return &page, nil
}

// ReadFile parses the page file at path.
func ReadFile(path string) (*core.Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	return Parse(path, content)
}

func isPageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Store serves pages loaded from a directory. Load can be called again at
// any time to pick up changes; readers see either the old or the new set.
type Store struct {
	dir    string
	logger *log.Logger

	mu    sync.RWMutex
	pages map[string]map[string]*core.Page
}

func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		logger: log.ForService("pages"),
		pages:  make(map[string]map[string]*core.Page),
	}
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads every page under the store directory. Files that fail to parse
// are logged and skipped; a missing directory is an error.
func (s *Store) Load() error {
	tenants, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading pages directory: %w", err)
	}

	loaded := make(map[string]map[string]*core.Page)
	count := 0
	for _, t := range tenants {
		if !t.IsDir() || !ValidSlug(t.Name()) {
			continue
		}
		tenantDir := filepath.Join(s.dir, t.Name())
		files, err := os.ReadDir(tenantDir)
		if err != nil {
			return fmt.Errorf("reading pages of %s: %w", t.Name(), err)
		}

		bySlug := make(map[string]*core.Page)
		for _, f := range files {
			if f.IsDir() || !isPageFile(f.Name()) {
				continue
			}
			page, err := ReadFile(filepath.Join(tenantDir, f.Name()))
			if err != nil {
				s.logger.Warnf("skipping %s/%s: %v", t.Name(), f.Name(), err)
				continue
			}
			if _, dup := bySlug[page.Slug]; dup {
				s.logger.Warnf("skipping %s/%s: duplicate slug %q", t.Name(), f.Name(), page.Slug)
				continue
			}
			bySlug[page.Slug] = page
			count++
		}
		loaded[t.Name()] = bySlug
	}

	s.mu.Lock()
	s.pages = loaded
	s.mu.Unlock()

	s.logger.Debugf("loaded %d pages for %d tenants from %s", count, len(loaded), s.dir)
	return nil
}

// Get returns the page slug of tenant.
func (s *Store) Get(tenant, slug string) (*core.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.pages[tenant][slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, tenant, slug)
	}
	return page, nil
}

// List returns the page slugs of tenant, sorted.
func (s *Store) List(tenant string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slugs := make([]string, 0, len(s.pages[tenant]))
	for slug := range s.pages[tenant] {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Tenants returns the tenant slugs that have a pages directory, sorted.
func (s *Store) Tenants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.pages))
	for t := range s.pages {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
