package render

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// decode fills out (a pointer to a config struct pre-populated with
// defaults) from block data. Numbers given as strings are accepted; keys with
// nil or blank string values are treated as absent so defaults apply.
// Malformed booleans decode as false.
func decode(data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(rejectBoolNumber, lenientBool),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(present(data)); err != nil {
		return fmt.Errorf("decoding block data: %w", err)
	}
	return nil
}

func present(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func lenientBool(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Bool || from.Kind() != reflect.String {
		return data, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(data.(string)))
	if err != nil {
		return false, nil
	}
	return b, nil
}

// rejectBoolNumber fails the decode when a boolean is given for a numeric
// option; weak typing would otherwise turn true into 1.
func rejectBoolNumber(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Bool {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil, fmt.Errorf("boolean %v given for a numeric option", data)
	}
	return data, nil
}

// decodeItems decodes each element of a repeated field into T. Elements that
// are not objects, fail to decode or are rejected by keep are skipped.
func decodeItems[T any](raw []any, newItem func() T, keep func(T) bool) []T {
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		item := newItem()
		if err := decode(m, &item); err != nil {
			continue
		}
		if keep != nil && !keep(item) {
			continue
		}
		items = append(items, item)
	}
	return items
}

// choice maps value through a closed table of accepted options; anything
// else yields def.
func choice(value string, allowed []string, def string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return a
		}
	}
	return def
}

func oneOf(n int, allowed ...int) bool {
	for _, a := range allowed {
		if n == a {
			return true
		}
	}
	return false
}
