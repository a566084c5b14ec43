package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Reading is one sensor's row from the upstream payload, positionally
// matched against Payload.Fields.
type Reading []any

// SensorID is the canonical text form of the row's first value.
func (r Reading) SensorID() string {
	if len(r) == 0 {
		return ""
	}
	return FormatValue(r[0])
}

// Payload is the part of the sensors response the report uses.
type Payload struct {
	Fields []string  `json:"fields"`
	Data   []Reading `json:"data"`
}

// ParsePayload decodes an upstream response body. A missing or null fields
// or data property is ErrMalformedPayload, as is a row whose length differs
// from the field list.
func ParsePayload(body []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if p.Fields == nil {
		return Payload{}, fmt.Errorf("%w: API response missing expected 'fields' property", ErrMalformedPayload)
	}
	if p.Data == nil {
		return Payload{}, fmt.Errorf("%w: API response missing expected 'data' property", ErrMalformedPayload)
	}
	for i, row := range p.Data {
		if len(row) != len(p.Fields) {
			return Payload{}, fmt.Errorf("%w: row %d has %d values, expected %d", ErrMalformedPayload, i, len(row), len(p.Fields))
		}
	}
	return p, nil
}

// ReorderReadings returns the readings sorted by the position of each
// reading's sensor ID in order. Readings whose sensor is not in order keep
// their relative order after all matched readings. IDs compare by numeric
// value, so "080327" matches the row 80327. The input is not modified.
func ReorderReadings(rows []Reading, order []string) []Reading {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		id = canonicalSensorID(id)
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}
	rankOf := func(r Reading) int {
		if i, ok := rank[canonicalSensorID(r.SensorID())]; ok {
			return i
		}
		return len(order)
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Reading) int {
		return rankOf(a) - rankOf(b)
	})
	return sorted
}

// FormatValue renders a decoded JSON scalar for display. Numbers use the
// shortest decimal form without exponent, null renders empty.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return FormatNumber(x)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// FormatNumber renders a float in its shortest form, e.g. 66 or 0.4.
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// AdjustTemperature applies TemperatureOffset to a raw temperature cell.
// It returns false when the value is not numeric.
func AdjustTemperature(v any) (float64, bool) {
	t, ok := numericValue(v)
	if !ok {
		return 0, false
	}
	return t - TemperatureOffset, true
}

var sensorIDRe = regexp.MustCompile(`^\d+$`)

// ParseSensorIDs splits a comma-separated sensor list, trimming blanks.
// Every entry must be a decimal sensor index; leading zeros are dropped so
// IDs match the numeric sensor_index the API returns.
func ParseSensorIDs(s string) ([]string, error) {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !sensorIDRe.MatchString(part) {
			return nil, fmt.Errorf("invalid sensor id %q", part)
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sensor id %q: %w", part, err)
		}
		ids = append(ids, strconv.FormatUint(n, 10))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no sensor ids in %q", s)
	}
	return ids, nil
}

// canonicalSensorID strips leading zeros from a numeric ID. Other strings
// are returned unchanged.
func canonicalSensorID(id string) string {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return id
	}
	return strconv.FormatUint(n, 10)
}
