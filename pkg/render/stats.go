package render

import (
	"context"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var (
	statsStyles = []string{"default", "minimal", "bordered"}
	hexColor    = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

type statItem struct {
	Number string `mapstructure:"number"`
	Label  string `mapstructure:"label"`
	Prefix string `mapstructure:"prefix"`
	Suffix string `mapstructure:"suffix"`
	Icon   string `mapstructure:"icon"`
	Color  string `mapstructure:"color"`
}

type statsConfig struct {
	Title    string `mapstructure:"title"`
	Columns  int    `mapstructure:"columns"`
	Style    string `mapstructure:"style"`
	Animated bool   `mapstructure:"animated"`
	Stats    []any  `mapstructure:"stats"`
}

// StatsRenderer renders counters, optionally animated when scrolled into
// view.
type StatsRenderer struct {
	newID func(string) string
}

func NewStatsRenderer(newID func(string) string) *StatsRenderer {
	if newID == nil {
		newID = NewInstanceID
	}
	return &StatsRenderer{newID: newID}
}

func (r *StatsRenderer) Type() string { return "stats" }

func (r *StatsRenderer) config(data map[string]any) (statsConfig, []statItem, bool) {
	cfg := statsConfig{Columns: 4, Animated: true}
	if err := decode(data, &cfg); err != nil {
		return cfg, nil, false
	}
	if !oneOf(cfg.Columns, 2, 3, 4, 5) {
		return cfg, nil, false
	}
	items := decodeItems(cfg.Stats, func() statItem { return statItem{} }, func(s statItem) bool {
		return !sanitize.IsBlank(s.Number)
	})
	return cfg, items, len(items) > 0
}

func (r *StatsRenderer) Validate(data map[string]any) bool {
	_, _, ok := r.config(data)
	return ok
}

type statEntry struct {
	Number string
	Target string // numeric value animated to; empty when Number is not a plain number
	Label  string
	Prefix string
	Suffix string
	Icon   string
	Color  string
}

// counterTarget returns the plain number the counter animates to, or "".
func counterTarget(n string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
	if _, err := strconv.ParseFloat(clean, 64); err != nil {
		return ""
	}
	return clean
}

func safeColor(c string) string {
	c = strings.TrimSpace(c)
	if hexColor.MatchString(c) {
		return c
	}
	return ""
}

func (r *StatsRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, items, _ := r.config(data)

	entries := make([]statEntry, 0, len(items))
	for _, s := range items {
		entries = append(entries, statEntry{
			Number: strings.TrimSpace(s.Number),
			Target: counterTarget(s.Number),
			Label:  s.Label,
			Prefix: s.Prefix,
			Suffix: s.Suffix,
			Icon:   sanitize.ClassToken(s.Icon),
			Color:  safeColor(s.Color),
		})
	}

	id := r.newID("stats")
	markup, err := execute("stats", map[string]any{
		"ID":      id,
		"Title":   cfg.Title,
		"Columns": cfg.Columns,
		"Style":   choice(cfg.Style, statsStyles, "default"),
		"Stats":   entries,
	})
	if err != nil || !cfg.Animated {
		return markup, err
	}

	script, err := execute("stats-script", map[string]any{"ID": id})
	if err != nil {
		return "", err
	}
	return markup + script, nil
}
