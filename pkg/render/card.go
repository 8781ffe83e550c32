package render

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/tenant"
)

// maxCardMeta is the number of metadata lines a card shows.
const maxCardMeta = 2

// Description budgets, in runes.
const (
	groupDescriptionLen   = 100
	listingDescriptionLen = 80
	memberBioLen          = 80
)

// Card is the per row projection rendered by the grid blocks. Fields are
// plain text; the card template escapes them.
type Card struct {
	ID          int64
	Title       string
	Link        string
	Image       string
	Round       bool // avatar style image
	Description string
	Author      string
	Meta        []string // at most maxCardMeta entries are shown
	Badge       string
	BadgeClass  string
	Chip        string
	Date        *CardDate
}

// CardDate is the calendar badge shown on event cards.
type CardDate struct {
	Day   string // "Mon"
	Label string // "Mar 3"
}

// gridConfig holds the options shared by every data-driven grid.
type gridConfig struct {
	Title   string `mapstructure:"title"`
	Limit   int    `mapstructure:"limit"`
	Columns int    `mapstructure:"columns"`
	OrderBy string `mapstructure:"orderBy"`
	Filter  string `mapstructure:"filter"`
}

func defaultGridConfig() gridConfig {
	return gridConfig{Limit: gateway.DefaultLimit, Columns: 3}
}

// valid reports whether limit and columns are inside their closed ranges.
func (g gridConfig) valid() bool {
	return g.Limit >= gateway.MinLimit && g.Limit <= gateway.MaxLimit && oneOf(g.Columns, 1, 2, 3, 4, 6)
}

// grid carries what every data-driven renderer shares: its family name
// (used for links and the empty state), the empty state message and deps.
type grid struct {
	family  string
	label   string
	empty   string
	imgBase string
	metrics *Metrics
}

func newGrid(family, label, empty string, deps Deps) grid {
	deps = deps.withDefaults()
	return grid{family: family, label: label, empty: empty, imgBase: deps.DefaultImageBase, metrics: deps.Metrics}
}

func (g grid) tenant(ctx context.Context) (*tenant.Tenant, error) {
	t, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s grid: %w", g.family, err)
	}
	return t, nil
}

func (g grid) observe(start time.Time, err error) {
	g.metrics.ObserveQuery(g.family, start, err)
}

// Fallback is the empty state shown after a failed render.
func (g grid) Fallback(map[string]any) template.HTML {
	html, err := g.emptyState()
	if err != nil {
		return ""
	}
	return html
}

func (g grid) emptyState() (template.HTML, error) {
	return execute("empty-state", map[string]any{
		"Family":  g.family,
		"Message": g.empty,
	})
}

func (g grid) render(t *tenant.Tenant, cfg gridConfig, cards []Card) (template.HTML, error) {
	if len(cards) == 0 {
		return g.emptyState()
	}
	for i := range cards {
		if len(cards[i].Meta) > maxCardMeta {
			cards[i].Meta = cards[i].Meta[:maxCardMeta]
		}
	}
	return execute("grid", map[string]any{
		"Family":       g.family,
		"Title":        cfg.Title,
		"Columns":      cfg.Columns,
		"Cards":        cards,
		"ViewAllLink":  t.Link(g.family),
		"ViewAllLabel": "View All " + g.label,
	})
}

func (g grid) defaultImage(name, background string, size int) string {
	return DefaultImage(g.imgBase, name, background, size)
}

// DefaultImage returns an avatar service URL showing the initials of name.
// A size of 0 leaves the service default.
func DefaultImage(base, name, background string, size int) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("background", background)
	q.Set("color", "fff")
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	return strings.TrimRight(base, "?") + "?" + q.Encode()
}

func joinNonBlank(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
