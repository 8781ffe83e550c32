package render

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rubiojr/pagebuilder/pkg/core"
)

// Registry maps block types to their renderers. It is built once at startup
// and never modified afterwards, so it can be shared by concurrent requests
// without locking.
type Registry struct {
	renderers map[string]BlockRenderer
}

// ErrDuplicateType is returned by NewRegistry when two renderers claim the
// same block type.
var ErrDuplicateType = errors.New("duplicate block type")

// NewRegistry registers renderers under their normalized Type().
func NewRegistry(renderers ...BlockRenderer) (*Registry, error) {
	reg := &Registry{renderers: make(map[string]BlockRenderer, len(renderers))}
	for _, r := range renderers {
		if r == nil {
			continue
		}
		t := core.NormalizeType(r.Type())
		if t == "" {
			return nil, fmt.Errorf("renderer %T has an empty block type", r)
		}
		if _, exists := reg.renderers[t]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, t)
		}
		reg.renderers[t] = r
	}
	return reg, nil
}

// DefaultRegistry returns a registry with every core renderer. The
// data-driven grids are only included when deps.Gateway is set.
func DefaultRegistry(deps Deps) (*Registry, error) {
	deps = deps.withDefaults()

	renderers := []BlockRenderer{
		NewHeroRenderer(),
		NewRichTextRenderer(deps.Rich),
		NewImageRenderer(),
		NewVideoRenderer(),
		NewSpacerRenderer(),
		NewButtonRenderer(),
		NewColumnsRenderer(deps.Rich),
		NewAccordionRenderer(deps.Rich, deps.NewID),
		NewStatsRenderer(deps.NewID),
		NewTestimonialsRenderer(deps.DefaultImageBase),
		NewCTACardsRenderer(),
	}
	if deps.Gateway != nil {
		renderers = append(renderers,
			NewGroupsGridRenderer(deps.Gateway, deps),
			NewListingsGridRenderer(deps.Gateway, deps),
			NewMembersGridRenderer(deps.Gateway, deps),
			NewEventsGridRenderer(deps.Gateway, deps),
		)
	}
	return NewRegistry(renderers...)
}

// Lookup returns the renderer for blockType. Lookup normalizes the type, so
// "Members-Grid" finds the members_grid renderer.
func (r *Registry) Lookup(blockType string) (BlockRenderer, bool) {
	if r == nil {
		return nil, false
	}
	renderer, ok := r.renderers[core.NormalizeType(blockType)]
	return renderer, ok
}

// Types returns the registered block types, sorted.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.renderers))
	for t := range r.renderers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
