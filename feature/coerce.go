package feature

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Float converts a raw value to a finite float64.
// Missing, malformed and non-finite values become 0.
func Float(v any) float64 {
	switch x := v.(type) {
	case nil, bool:
		return 0
	case string:
		v = strings.TrimSpace(x)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ID converts a raw identifier to an int.
// Numbers truncate toward zero; strings must be base-10 integers.
// Anything else becomes 0.
func ID(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		return n
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
		f, err := x.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return int(f)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return int(x)
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return 0
		}
		return int(x)
	case bool:
		return 0
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return n
}
