package shared

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LenientFloat decodes upstream numeric fields that may arrive as a JSON
// number, a numeric string, null, or garbage. Anything that does not parse
// to a finite number decodes to 0.
type LenientFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *LenientFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		trimmed = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = LenientFloat(v)
	return nil
}

// Float64 returns the coerced value.
func (f LenientFloat) Float64() float64 { return float64(f) }

// LenientString decodes fields that may arrive as a JSON string, number,
// or null. Numbers keep their decimal representation, null becomes "".
type LenientString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LenientString) UnmarshalJSON(data []byte) error {
	*s = ""
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		*s = LenientString(str)
		return nil
	}
	*s = LenientString(trimmed)
	return nil
}

// String returns the coerced value.
func (s LenientString) String() string { return string(s) }
