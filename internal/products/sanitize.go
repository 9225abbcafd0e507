package products

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize normalizes arbitrary decoded JSON input into a Canonical product.
// It never fails: nil, scalars, arrays and other non-object values all map to
// the zero Canonical, and mixed-type fields are coerced per field. Sanitizing
// an already-canonical value is a no-op, so Sanitize is idempotent.
func Sanitize(raw any) Canonical {
	switch v := raw.(type) {
	case nil:
		return Canonical{}
	case Canonical:
		return Canonical{
			Name:  SanitizeName(v.Name),
			Price: SanitizePrice(v.Price),
			Image: SanitizeImage(v.Image),
		}
	case map[string]any:
		return Canonical{
			Name:  SanitizeName(v["name"]),
			Price: SanitizePrice(v["price"]),
			Image: SanitizeImage(v["image"]),
		}
	default:
		return Canonical{}
	}
}

// SanitizeName coerces any value to a trimmed string with internal whitespace
// runs collapsed to single spaces. nil maps to the empty string.
func SanitizeName(v any) string {
	s, ok := stringify(v)
	if !ok {
		return ""
	}
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// SanitizePrice coerces any value to a non-negative amount rounded to two
// decimal places. Unparseable or non-finite input maps to 0.
func SanitizePrice(v any) float64 {
	var n float64
	switch p := v.(type) {
	case float64:
		n = p
	case float32:
		n = float64(p)
	case int:
		n = float64(p)
	case int64:
		n = float64(p)
	case string:
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return math.Max(0, math.Round(n*100)/100)
}

// SanitizeImage coerces any value to a trimmed string; nil maps to "".
func SanitizeImage(v any) string {
	s, ok := stringify(v)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func stringify(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return fmt.Sprintf("%v", s), true
	}
}
