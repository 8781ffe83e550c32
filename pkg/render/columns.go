package render

import (
	"context"
	"html/template"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var gaps = []string{"normal", "none", "small", "large"}

type columnsConfig struct {
	ColumnCount int      `mapstructure:"columnCount"`
	Gap         string   `mapstructure:"gap"`
	Columns     []string `mapstructure:"columns"`
}

// ColumnsRenderer lays out 2 to 4 columns of rich content.
type ColumnsRenderer struct {
	rich func(string) string
}

func NewColumnsRenderer(rich func(string) string) *ColumnsRenderer {
	if rich == nil {
		rich = sanitize.RichHTML
	}
	return &ColumnsRenderer{rich: rich}
}

func (r *ColumnsRenderer) Type() string { return "columns" }

func (r *ColumnsRenderer) config(data map[string]any) (columnsConfig, bool) {
	cfg := columnsConfig{ColumnCount: 2}
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, len(cfg.Columns) > 0 && oneOf(cfg.ColumnCount, 2, 3, 4)
}

func (r *ColumnsRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *ColumnsRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)

	// Missing columns render empty; extra columns are dropped.
	cols := make([]template.HTML, cfg.ColumnCount)
	for i := range cols {
		if i < len(cfg.Columns) {
			cols[i] = template.HTML(r.rich(cfg.Columns[i]))
		}
	}

	return execute("columns", map[string]any{
		"Count":   cfg.ColumnCount,
		"Gap":     choice(cfg.Gap, gaps, "normal"),
		"Columns": cols,
	})
}
