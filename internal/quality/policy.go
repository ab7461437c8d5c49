package quality

import (
	"math"
	"strings"
)

// MissingPolicy decides which cells count as null. The missing-value marker
// (nil, or a NaN float) is always null; the flags add string forms.
type MissingPolicy struct {
	EmptyStringIsNull bool
	LiteralNullIsNull bool
	CaseInsensitive   bool
}

func DefaultMissingPolicy() MissingPolicy {
	return MissingPolicy{
		EmptyStringIsNull: true,
		LiteralNullIsNull: true,
		CaseInsensitive:   true,
	}
}

// IsMarker reports whether v is the missing-value marker itself.
func IsMarker(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

func (p MissingPolicy) IsNull(v any) bool {
	if IsMarker(v) {
		return true
	}
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		return false
	}
	if s == "" {
		return p.EmptyStringIsNull
	}
	if !p.LiteralNullIsNull {
		return false
	}
	if p.CaseInsensitive {
		return strings.EqualFold(s, "NULL")
	}
	return s == "NULL"
}

func (p MissingPolicy) Count(values []any) int {
	n := 0
	for _, v := range values {
		if p.IsNull(v) {
			n++
		}
	}
	return n
}
