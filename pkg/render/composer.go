package render

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/log"
)

// Outcome is the terminal state of one block of a composition.
type Outcome struct {
	Index int
	Type  string
	State core.State
	Err   error
}

// Result is a composed page fragment plus one outcome per input block, in
// input order.
type Result struct {
	HTML     template.HTML
	Outcomes []Outcome
}

// Counts returns how many blocks ended in each state.
func (r Result) Counts() map[core.State]int {
	counts := make(map[core.State]int, 3)
	for _, o := range r.Outcomes {
		counts[o.State]++
	}
	return counts
}

// Composer renders ordered block lists into one fragment. It holds no per
// request state and is safe for concurrent use.
type Composer struct {
	registry *Registry
	metrics  *Metrics
	logger   *log.Logger
}

// NewComposer returns a composer over reg. metrics may be nil.
func NewComposer(reg *Registry, metrics *Metrics) *Composer {
	return &Composer{
		registry: reg,
		metrics:  metrics,
		logger:   log.ForService("composer"),
	}
}

// Registry returns the registry the composer dispatches to.
func (c *Composer) Registry() *Registry {
	return c.registry
}

// Compose renders blocks in order. A block that cannot be rendered is
// replaced by a placeholder comment (and, for failed data blocks, the
// renderer's empty state); the rest of the page is unaffected.
//
// The only error returned is ctx.Err() when ctx is already done before the
// first block; cancellation during rendering is left to the gateway calls.
func (c *Composer) Compose(ctx context.Context, blocks []core.Block) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	defer c.metrics.ObservePage(start)

	var buf strings.Builder
	outcomes := make([]Outcome, 0, len(blocks))
	for i, block := range blocks {
		html, outcome := c.renderBlock(ctx, i, block)
		buf.WriteString(string(html))
		outcomes = append(outcomes, outcome)
	}

	return Result{HTML: template.HTML(buf.String()), Outcomes: outcomes}, nil
}

// Render is Compose without the outcomes. A cancelled context yields an
// empty fragment.
func (c *Composer) Render(ctx context.Context, blocks []core.Block) template.HTML {
	res, err := c.Compose(ctx, blocks)
	if err != nil {
		return ""
	}
	return res.HTML
}

// Preview renders a single block the way it would appear on a page.
func (c *Composer) Preview(ctx context.Context, block core.Block) (template.HTML, Outcome) {
	if err := ctx.Err(); err != nil {
		return "", Outcome{Type: core.NormalizeType(block.Type), State: core.StateFailed, Err: err}
	}
	return c.renderBlock(ctx, 0, block)
}

func (c *Composer) renderBlock(ctx context.Context, index int, block core.Block) (html template.HTML, outcome Outcome) {
	outcome = Outcome{Index: index, Type: core.NormalizeType(block.Type), State: core.StatePending}
	data := block.Data
	if data == nil {
		data = map[string]any{}
	}

	renderer, known := c.registry.Lookup(block.Type)

	defer func() {
		if r := recover(); r != nil {
			outcome.State = core.StateFailed
			outcome.Err = fmt.Errorf("%w: %v", core.ErrRenderPanic, r)
			html = placeholderFor(index, outcome.Type, outcome.State, outcome.Err)
		}
		c.record(outcome, known)
	}()

	if !known {
		outcome.State = core.StateRejected
		outcome.Err = fmt.Errorf("%w: %q", core.ErrUnknownBlockType, block.Type)
		return placeholderFor(index, outcome.Type, outcome.State, outcome.Err), outcome
	}

	if !renderer.Validate(data) {
		outcome.State = core.StateRejected
		outcome.Err = fmt.Errorf("%w: %s", core.ErrValidation, outcome.Type)
		return placeholderFor(index, outcome.Type, outcome.State, outcome.Err), outcome
	}
	outcome.State = core.StateValidated

	rendered, err := renderer.Render(ctx, data)
	if err != nil {
		outcome.State = core.StateFailed
		outcome.Err = err
		html = placeholderFor(index, outcome.Type, outcome.State, err)
		if fb, ok := renderer.(FallbackRenderer); ok {
			html += fb.Fallback(data)
		}
		return html, outcome
	}

	outcome.State = core.StateRendered
	return rendered, outcome
}

func (c *Composer) record(o Outcome, known bool) {
	c.metrics.IncrementBlock(o.Type, o.State, known)

	switch o.State {
	case core.StateRejected:
		c.logger.With(log.Fields{"block": o.Index, "type": o.Type}).Debugf("block rejected: %v", o.Err)
	case core.StateFailed:
		c.logger.With(log.Fields{"block": o.Index, "type": o.Type}).Warnf("block failed: %v", o.Err)
	}
}

func isUnknownType(err error) bool {
	return errors.Is(err, core.ErrUnknownBlockType)
}
