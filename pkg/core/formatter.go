package core

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const maxFormattedValue = 60

// FormatData renders block data as sorted "key: value" lines for terminal
// output. Long values are shortened; nested values are summarized.
func FormatData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "\n    %s: %s", k, formatValue(data[k]))
	}
	return b.String()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return shorten(t)
	case bool, int, int64, float64:
		return fmt.Sprintf("%v", t)
	case []any:
		return fmt.Sprintf("[%d items]", len(t))
	case map[string]any:
		return fmt.Sprintf("{%d keys}", len(t))
	default:
		return shorten(fmt.Sprintf("%v", t))
	}
}

func shorten(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= maxFormattedValue {
		return s
	}
	r := []rune(s)
	return string(r[:maxFormattedValue-3]) + "..."
}
