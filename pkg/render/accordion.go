package render

import (
	"context"
	"html/template"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var accordionStyles = []string{"default", "bordered", "minimal"}

type accordionItem struct {
	Question string `mapstructure:"question"`
	Answer   string `mapstructure:"answer"`
}

type accordionConfig struct {
	Title         string `mapstructure:"title"`
	Style         string `mapstructure:"style"`
	AllowMultiple bool   `mapstructure:"allowMultiple"`
	Items         []any  `mapstructure:"items"`
}

// AccordionRenderer renders collapsible question and answer sections. Each
// instance gets its own element id so the companion script only toggles its
// own items.
type AccordionRenderer struct {
	rich  func(string) string
	newID func(string) string
}

func NewAccordionRenderer(rich func(string) string, newID func(string) string) *AccordionRenderer {
	if rich == nil {
		rich = sanitize.RichHTML
	}
	if newID == nil {
		newID = NewInstanceID
	}
	return &AccordionRenderer{rich: rich, newID: newID}
}

func (r *AccordionRenderer) Type() string { return "accordion" }

func (r *AccordionRenderer) config(data map[string]any) (accordionConfig, []accordionItem, bool) {
	var cfg accordionConfig
	if err := decode(data, &cfg); err != nil {
		return cfg, nil, false
	}
	items := decodeItems(cfg.Items, func() accordionItem { return accordionItem{} }, func(i accordionItem) bool {
		return !sanitize.IsBlank(i.Question)
	})
	return cfg, items, len(items) > 0
}

func (r *AccordionRenderer) Validate(data map[string]any) bool {
	_, _, ok := r.config(data)
	return ok
}

type accordionEntry struct {
	Question string
	Answer   template.HTML
}

func (r *AccordionRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, items, _ := r.config(data)

	entries := make([]accordionEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, accordionEntry{Question: it.Question, Answer: template.HTML(r.rich(it.Answer))})
	}

	id := r.newID("accordion")
	markup, err := execute("accordion", map[string]any{
		"ID":    id,
		"Title": cfg.Title,
		"Style": choice(cfg.Style, accordionStyles, "default"),
		"Items": entries,
	})
	if err != nil {
		return "", err
	}
	script, err := execute("accordion-script", map[string]any{
		"ID":            id,
		"AllowMultiple": cfg.AllowMultiple,
	})
	if err != nil {
		return "", err
	}
	return markup + script, nil
}
