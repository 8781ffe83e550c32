package render

import (
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Plural returns "s" unless n is exactly one.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// FormatPrice renders listing prices; whole numbers print without decimals
// and zero prints as "Free".
func FormatPrice(p float64) string {
	switch {
	case p <= 0:
		return "Free"
	case p == math.Trunc(p):
		return fmt.Sprintf("%.0f", p)
	default:
		return fmt.Sprintf("%.2f", p)
	}
}

// FormatRelative describes t relative to now ("in 3 days", "tomorrow"),
// falling back to an absolute date after two weeks.
func FormatRelative(t, now time.Time) string {
	diff := t.Sub(now)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Hour:
		return "starting soon"
	case diff < 24*time.Hour:
		h := int(diff.Hours())
		return fmt.Sprintf("in %d hour%s", h, Plural(h))
	case diff < 48*time.Hour:
		return "tomorrow"
	case diff < 14*24*time.Hour:
		d := int(diff.Hours() / 24)
		return fmt.Sprintf("in %d days", d)
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Title upper-cases the first letter of every word. Casers keep state, so
// one is built per call.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

func GetTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate":   sanitize.Truncate,
		"title":      Title,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"trim":       strings.TrimSpace,
		"join":       strings.Join,
		"plural":     Plural,
		"price":      FormatPrice,
		"relative":   FormatRelative,
		"classToken": sanitize.ClassToken,

		"default": func(def, val any) any {
			if val == nil {
				return def
			}
			if v, ok := val.(string); ok && strings.TrimSpace(v) == "" {
				return def
			}
			return val
		},
		"seq": func(n int) []int {
			if n <= 0 {
				return nil
			}
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"stars": func(rating float64) []bool {
			full := int(math.Round(rating))
			out := make([]bool, 5)
			for i := range out {
				out[i] = i < full
			}
			return out
		},
		"date": func(layout string, t time.Time) string {
			return t.Format(layout)
		},
	}
}
