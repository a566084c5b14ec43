package domain

import "strings"

// Field identifiers used by the PurpleAir sensors endpoint.
const (
	FieldSensorIndex = "sensor_index"
	FieldName        = "name"
	FieldTemperature = "temperature"
)

// TemperatureOffset is subtracted from the raw sensor temperature (°F). The
// sensor housing runs about 8°F warmer than ambient air, per PurpleAir's
// functional overview.
const TemperatureOffset = 8

// DefaultFields is the field list requested from the upstream API. The API
// always prepends sensor_index.
var DefaultFields = []string{
	"name",
	"pm2.5",
	"pm2.5_10minute",
	"pm2.5_30minute",
	"pm2.5_60minute",
	"pm2.5_6hour",
	"pm2.5_24hour",
	"pm2.5_1week",
	"temperature",
}

// DefaultSensorIDs is the sensor list and display priority used when the
// caller does not supply one.
var DefaultSensorIDs = []string{"108616", "80327", "134210", "66167"}

// Labels maps field identifiers to column headers.
type Labels map[string]string

// DefaultLabels returns the column headers for the default field list.
func DefaultLabels() Labels {
	return Labels{
		"sensor_index":   "Sensor ID",
		"name":           "Name",
		"temperature":    "Temp",
		"pm2.5":          "Instant",
		"pm2.5_10minute": "10 Min",
		"pm2.5_30minute": "30 Min",
		"pm2.5_60minute": "1 Hour",
		"pm2.5_6hour":    "6 Hour",
		"pm2.5_24hour":   "1 Day",
		"pm2.5_1week":    "1 Week",
	}
}

// Label returns the header for a field, falling back to the identifier.
func (l Labels) Label(field string) string {
	if v, ok := l[field]; ok {
		return v
	}
	return field
}

// FieldKind says how a column's values are transformed for display.
type FieldKind int

const (
	KindPlain FieldKind = iota
	KindParticulate
	KindTemperature
)

func (k FieldKind) String() string {
	switch k {
	case KindParticulate:
		return "particulate"
	case KindTemperature:
		return "temperature"
	default:
		return "plain"
	}
}

// Column is one field of the upstream payload with its header and kind.
type Column struct {
	ID    string
	Label string
	Kind  FieldKind
}

// Columns resolves headers and kinds once for a field list. Any identifier
// starting with "pm" is particulate; particulate wins over temperature.
func Columns(fields []string, labels Labels) []Column {
	cols := make([]Column, len(fields))
	for i, f := range fields {
		cols[i] = Column{ID: f, Label: labels.Label(f), Kind: kindOf(f)}
	}
	return cols
}

func kindOf(field string) FieldKind {
	switch {
	case strings.HasPrefix(field, "pm"):
		return KindParticulate
	case field == FieldTemperature:
		return KindTemperature
	default:
		return KindPlain
	}
}
