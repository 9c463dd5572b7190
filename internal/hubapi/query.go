package hubapi

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// ParseQueryParams splits a query string into a map. A leading "?" is
// ignored, "k=v" yields the decoded string, and "k", "k=" or "k=a=b" yield
// true. Pairs with an empty key are skipped.
func ParseQueryParams(query string) map[string]any {
	params := map[string]any{}
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return params
	}

	for _, pair := range strings.Split(query, "&") {
		parts := strings.Split(pair, "=")
		key := unescape(parts[0])
		if key == "" {
			continue
		}
		if len(parts) == 2 && parts[1] != "" {
			params[key] = unescape(parts[1])
		} else {
			params[key] = true
		}
	}
	return params
}

// GenerateQueryParamString renders params as "?k=v&...", or "" when nothing
// is emitted. Nil values are skipped, keys are sorted, and values must be
// strings, booleans or numbers.
func GenerateQueryParamString(params map[string]any) (string, error) {
	var sb strings.Builder
	for _, key := range slices.Sorted(maps.Keys(params)) {
		value := params[key]
		if value == nil {
			continue
		}
		s, err := formatValue(value)
		if err != nil {
			return "", fmt.Errorf("query param %q: %w", key, err)
		}
		if sb.Len() == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(key))
		sb.WriteByte('=')
		sb.WriteString(escape(s))
	}
	return sb.String(), nil
}

func formatValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", t), nil
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("value needs to be a string, number or boolean instead found %T", v)
	}
}

// escape percent-encodes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ),
// the same set browsers leave alone in URI components.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
	"%7E", "~",
)

func escape(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// unescape decodes percent escapes and leaves malformed input as is.
func unescape(s string) string {
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	return s
}
