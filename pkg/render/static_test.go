package render

import (
	"context"
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

func TestButtonExample(t *testing.T) {
	r := NewButtonRenderer()
	html := renderBlock(t, context.Background(), r, map[string]any{
		"text":  "Join Now",
		"url":   "/signup",
		"style": "primary",
		"size":  "large",
	})

	assertContains(t, html,
		`href="/signup"`,
		`>Join Now</a>`,
		`class="pb-btn pb-btn-primary pb-btn-lg"`,
	)
	assertNotContains(t, html, `target="_blank"`)

	if r.Validate(map[string]any{"text": "", "url": "/x"}) {
		t.Fatal("expected empty text to fail validation")
	}
}

func TestButtonOptions(t *testing.T) {
	r := NewButtonRenderer()
	tests := []struct {
		name string
		data map[string]any
		want []string
	}{
		{
			name: "unknown style and size fall back",
			data: map[string]any{"text": "Go", "url": "/go", "style": "neon", "size": 42},
			want: []string{"pb-btn-primary pb-btn-md", "pb-align-center"},
		},
		{
			name: "new tab",
			data: map[string]any{"text": "Docs", "url": "https://example.org", "openInNewTab": true},
			want: []string{`target="_blank"`, `rel="noopener noreferrer"`},
		},
		{
			name: "malformed boolean is false",
			data: map[string]any{"text": "Docs", "url": "/docs", "openInNewTab": "sometimes"},
			want: []string{`href="/docs"`},
		},
		{
			name: "icon reduced to class token",
			data: map[string]any{"text": "Go", "url": "/go", "icon": `arrow" onclick="x`},
			want: []string{`pb-icon-arrowonclickx`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderBlock(t, context.Background(), r, tt.data)
			assertContains(t, html, tt.want...)
		})
	}
}

func TestAccordionExample(t *testing.T) {
	r := NewAccordionRenderer(sanitize.Trusted, nil)
	data := map[string]any{
		"items": []any{
			map[string]any{"question": "", "answer": "<p>secret</p>"},
			map[string]any{"question": "How do I join?", "answer": "<p>Sign up.</p>"},
		},
	}

	first := renderBlock(t, context.Background(), r, data)
	second := renderBlock(t, context.Background(), r, data)

	if n := strings.Count(first, `class="pb-accordion-item"`); n != 1 {
		t.Fatalf("expected exactly one accordion entry, got %d:\n%s", n, first)
	}
	assertContains(t, first, "How do I join?", "<p>Sign up.</p>")
	assertNotContains(t, first, "secret")

	idPattern := regexp.MustCompile(`id="(accordion-[0-9a-f-]{36})"`)
	m1 := idPattern.FindStringSubmatch(first)
	m2 := idPattern.FindStringSubmatch(second)
	if m1 == nil || m2 == nil {
		t.Fatalf("expected accordion container ids, got %v and %v", m1, m2)
	}
	if m1[1] == m2[1] {
		t.Fatalf("expected distinct accordion ids, both were %s", m1[1])
	}
	if !strings.Contains(first, `document.getElementById("`+m1[1]+`")`) {
		t.Errorf("expected script to address its own container %s", m1[1])
	}
}

func TestAccordionRejectsItemsWithoutQuestions(t *testing.T) {
	r := NewAccordionRenderer(nil, nil)
	tests := []map[string]any{
		{},
		{"items": []any{}},
		{"items": []any{map[string]any{"question": "  "}}},
		{"items": []any{"not an object"}},
		{"items": "nope"},
	}
	for _, data := range tests {
		if r.Validate(data) {
			t.Errorf("expected %v to fail validation", data)
		}
	}
}

func TestAccordionScriptTemplate(t *testing.T) {
	html, err := execute("accordion-script", map[string]any{"ID": "accordion-x", "AllowMultiple": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, string(html), `getElementById("accordion-x")`)
	if !regexp.MustCompile(`allowMultiple =\s*true\s*;`).MatchString(string(html)) {
		t.Errorf("expected allowMultiple to be true in script:\n%s", html)
	}
}

func TestEscaping(t *testing.T) {
	payload := `<script>alert("x")</script>`
	ctx := context.Background()

	tests := []struct {
		name string
		r    BlockRenderer
		data map[string]any
	}{
		{"hero", NewHeroRenderer(), map[string]any{"title": payload, "subtitle": payload}},
		{"button", NewButtonRenderer(), map[string]any{"text": payload, "url": "/x"}},
		{"image", NewImageRenderer(), map[string]any{"imageUrl": "/a.png", "alt": payload, "caption": payload}},
		{"stats", NewStatsRenderer(nil), map[string]any{"stats": []any{map[string]any{"number": "10", "label": payload}}}},
		{"testimonials", NewTestimonialsRenderer(""), map[string]any{"testimonials": []any{map[string]any{"quote": payload, "name": payload}}}},
		{"cta cards", NewCTACardsRenderer(), map[string]any{"cards": []any{map[string]any{"title": payload, "description": payload}}}},
		{"accordion question", NewAccordionRenderer(nil, nil), map[string]any{"items": []any{map[string]any{"question": payload}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderBlock(t, ctx, tt.r, tt.data)
			assertNotContains(t, html, `<script>alert`)
			assertContains(t, html, "&lt;script&gt;")
		})
	}
}

func TestUnsafeURLsAreNeutralized(t *testing.T) {
	html := renderBlock(t, context.Background(), NewButtonRenderer(), map[string]any{
		"text": "Click",
		"url":  "javascript:alert(1)",
	})
	assertNotContains(t, html, "javascript:")
}

func TestRichContentPolicy(t *testing.T) {
	data := map[string]any{"content": `<p>Hello</p><script>evil()</script>`}

	sanitized := renderBlock(t, context.Background(), NewRichTextRenderer(sanitize.RichHTML), data)
	assertContains(t, sanitized, "<p>Hello</p>")
	assertNotContains(t, sanitized, "<script>")

	trusted := renderBlock(t, context.Background(), NewRichTextRenderer(sanitize.Trusted), data)
	assertContains(t, trusted, "<script>evil()</script>")

	md := renderBlock(t, context.Background(), NewRichTextRenderer(nil), map[string]any{
		"content": "# Welcome\n\nSome **bold** text",
		"format":  "markdown",
		"width":   "wide",
	})
	assertContains(t, md, "<h1", "<strong>bold</strong>", "pb-width-wide")
}

func TestHeroValidation(t *testing.T) {
	r := NewHeroRenderer()
	tests := []struct {
		name string
		data map[string]any
		want bool
	}{
		{"title only", map[string]any{"title": "Welcome"}, true},
		{"blank title", map[string]any{"title": "   "}, false},
		{"missing title", map[string]any{"subtitle": "x"}, false},
		{"overlay in range", map[string]any{"title": "a", "backgroundOverlay": 0.8}, true},
		{"overlay as string", map[string]any{"title": "a", "backgroundOverlay": "1"}, true},
		{"overlay too high", map[string]any{"title": "a", "backgroundOverlay": 1.5}, false},
		{"overlay negative", map[string]any{"title": "a", "backgroundOverlay": -0.1}, false},
		{"overlay NaN", map[string]any{"title": "a", "backgroundOverlay": math.NaN()}, false},
		{"overlay infinite", map[string]any{"title": "a", "backgroundOverlay": math.Inf(1)}, false},
		{"overlay NaN string", map[string]any{"title": "a", "backgroundOverlay": "NaN"}, false},
		{"overlay as boolean", map[string]any{"title": "a", "backgroundOverlay": true}, false},
		{"title not a string", map[string]any{"title": map[string]any{"x": 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Validate(tt.data); got != tt.want {
				t.Errorf("Validate(%v) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestHeroRender(t *testing.T) {
	html := renderBlock(t, context.Background(), NewHeroRenderer(), map[string]any{
		"title":           "Welcome",
		"backgroundImage": "/img/hero.jpg",
		"alignment":       "diagonal",
		"height":          "large",
		"buttonText":      "Join",
		"buttonUrl":       "/join",
	})
	assertContains(t, html,
		"pb-hero-large",
		"pb-align-center",
		"background-image",
		"hero.jpg",
		"opacity: 0.4",
		`href="/join"`,
	)
}

func TestColumns(t *testing.T) {
	r := NewColumnsRenderer(sanitize.Trusted)

	if r.Validate(map[string]any{"columnCount": 5, "columns": []any{"a"}}) {
		t.Error("expected columnCount 5 to fail validation")
	}
	if r.Validate(map[string]any{"columnCount": 2}) {
		t.Error("expected missing columns to fail validation")
	}

	html := renderBlock(t, context.Background(), r, map[string]any{
		"columnCount": "3",
		"gap":         "huge",
		"columns":     []any{"<p>one</p>", "<p>two</p>"},
	})
	if n := strings.Count(html, `class="pb-column"`); n != 3 {
		t.Errorf("expected 3 columns, got %d", n)
	}
	assertContains(t, html, "pb-columns-3", "pb-gap-normal", "<p>one</p>", "<p>two</p>")
}

func TestSpacerAlwaysValid(t *testing.T) {
	r := NewSpacerRenderer()
	for _, data := range []map[string]any{nil, {}, {"height": []any{1}}} {
		if !r.Validate(data) {
			t.Errorf("expected spacer to accept %v", data)
		}
	}
	html := renderBlock(t, context.Background(), r, map[string]any{"height": "xlarge"})
	assertContains(t, html, "pb-spacer-xlarge")
	html = renderBlock(t, context.Background(), r, map[string]any{"height": "tall"})
	assertContains(t, html, "pb-spacer-medium")
}

func TestStats(t *testing.T) {
	r := NewStatsRenderer(sequentialIDs())

	for _, cols := range []any{1, 6, "x"} {
		if r.Validate(map[string]any{"columns": cols, "stats": []any{map[string]any{"number": "1"}}}) {
			t.Errorf("expected columns %v to fail validation", cols)
		}
	}

	html := renderBlock(t, context.Background(), r, map[string]any{
		"columns": 3,
		"stats": []any{
			map[string]any{"number": "1,200", "label": "Hours", "suffix": "+", "color": "#ff0000"},
			map[string]any{"label": "no number"},
			map[string]any{"number": "Lots", "color": "red;background:url(x)"},
		},
	})
	if n := strings.Count(html, `class="pb-stat"`); n != 2 {
		t.Fatalf("expected 2 stats, got %d:\n%s", n, html)
	}
	assertContains(t, html, `id="stats-1"`, `data-target="1200"`, "color: #ff0000", `getElementById("stats-1")`)
	assertNotContains(t, html, "background:url")

	static := renderBlock(t, context.Background(), r, map[string]any{
		"animated": false,
		"stats":    []any{map[string]any{"number": "5"}},
	})
	assertNotContains(t, static, "<script>")
}

func TestTestimonials(t *testing.T) {
	r := NewTestimonialsRenderer("https://avatars.test/api/")

	if r.Validate(map[string]any{"testimonials": []any{map[string]any{"quote": "ok", "rating": 6}}}) {
		t.Error("expected rating 6 to fail validation")
	}
	for _, rating := range []any{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		if r.Validate(map[string]any{"testimonials": []any{map[string]any{"quote": "ok", "rating": rating}}}) {
			t.Errorf("expected rating %v to fail validation", rating)
		}
	}
	if r.Validate(map[string]any{"columns": 5, "testimonials": []any{map[string]any{"quote": "ok"}}}) {
		t.Error("expected columns 5 to fail validation")
	}

	html := renderBlock(t, context.Background(), r, map[string]any{
		"testimonials": []any{
			map[string]any{"quote": "Great community", "name": "Ana Pérez", "position": "Member", "company": "Coop", "rating": 4},
			map[string]any{"name": "No quote"},
		},
	})
	if n := strings.Count(html, `class="pb-testimonial"`); n != 1 {
		t.Fatalf("expected 1 testimonial, got %d", n)
	}
	if n := strings.Count(html, "pb-star pb-star-on"); n != 4 {
		t.Errorf("expected 4 filled stars, got %d", n)
	}
	assertContains(t, html, "Member, Coop", "https://avatars.test/api/?")
}

func TestCTACards(t *testing.T) {
	r := NewCTACardsRenderer()
	if r.Validate(map[string]any{"columns": 1, "cards": []any{map[string]any{"title": "x"}}}) {
		t.Error("expected columns 1 to fail validation")
	}

	html := renderBlock(t, context.Background(), r, map[string]any{
		"style": "elevated",
		"cards": []any{
			map[string]any{"title": "Fast", "icon": "bolt", "iconColor": "#abc", "buttonText": "Go", "buttonUrl": "/go"},
			map[string]any{"description": "untitled"},
		},
	})
	if n := strings.Count(html, `class="pb-cta-card"`); n != 1 {
		t.Fatalf("expected 1 card, got %d", n)
	}
	assertContains(t, html, "pb-cta-elevated", "pb-icon-bolt", "color: #abc", `href="/go"`)
}

func TestImage(t *testing.T) {
	r := NewImageRenderer()
	if r.Validate(map[string]any{"alt": "x"}) {
		t.Error("expected missing imageUrl to fail validation")
	}
	html := renderBlock(t, context.Background(), r, map[string]any{
		"imageUrl": "/a.png",
		"caption":  "A caption",
		"linkUrl":  "/gallery",
		"width":    "full",
	})
	assertContains(t, html, `src="/a.png"`, "<figcaption>A caption</figcaption>", `href="/gallery"`, "pb-image-full")
}
