package render

import (
	"context"
	"html/template"
)

var spacerHeights = []string{"medium", "small", "large", "xlarge"}

type spacerConfig struct {
	Height string `mapstructure:"height"`
}

// SpacerRenderer adds vertical space between blocks. Any data is valid.
type SpacerRenderer struct{}

func NewSpacerRenderer() *SpacerRenderer { return &SpacerRenderer{} }

func (r *SpacerRenderer) Type() string { return "spacer" }

func (r *SpacerRenderer) Validate(map[string]any) bool { return true }

func (r *SpacerRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	var cfg spacerConfig
	// Malformed height falls back to the default like any other option.
	_ = decode(data, &cfg)
	return execute("spacer", choice(cfg.Height, spacerHeights, "medium"))
}
