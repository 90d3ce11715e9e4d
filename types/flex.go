package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexInt accepts a JSON number or a numeric string. Anything else decodes
// to 0, which never names a user, channel or message.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt(ParseID(string(bytes.Trim(data, `"`))))
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// ParseID coerces a query or body value to an int, returning 0 on failure.
func ParseID(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}
