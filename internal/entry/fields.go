package entry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Fields is the raw key/value map returned by the completion backend.
type Fields map[string]any

// Clone returns a shallow copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Has reports whether key holds a non-empty value.
func (f Fields) Has(key string) bool {
	return f.String(key) != ""
}

// String returns the value under key as trimmed text. Numbers are formatted
// without exponent; nil and unknown shapes are empty.
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Decimal parses the value under key, tolerating thousands separators and
// unit suffixes such as "MWK" or "L".
func (f Fields) Decimal(key string) decimal.NullDecimal {
	raw := f.String(key)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Int parses the value under key as a whole number.
func (f Fields) Int(key string) *int64 {
	d := f.Decimal(key)
	if !d.Valid {
		return nil
	}
	if d.Decimal.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || d.Decimal.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return nil
	}
	v := d.Decimal.Round(0).IntPart()
	return &v
}
