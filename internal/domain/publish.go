package domain

import "time"

// AQIReading is a single converted particulate value, published per sensor
// and averaging window.
type AQIReading struct {
	SensorID   string    `json:"sensor_id"`
	SensorName string    `json:"sensor_name,omitempty"`
	Field      string    `json:"field"`
	Label      string    `json:"label"`
	PM25       *float64  `json:"pm25"`
	AQI        *int      `json:"aqi"`
	Display    string    `json:"display"`
	Severity   Severity  `json:"severity"`
	Category   string    `json:"category,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// AQIReadings flattens readings into one AQIReading per particulate column.
// PM25 is nil when the raw value is not numeric, AQI is nil unless an index
// was computed.
func AQIReadings(cols []Column, rows []Reading, observedAt time.Time) []AQIReading {
	nameIdx := -1
	for i, c := range cols {
		if c.ID == FieldName {
			nameIdx = i
			break
		}
	}

	var out []AQIReading
	for _, row := range rows {
		var name string
		if nameIdx >= 0 && nameIdx < len(row) {
			name = FormatValue(row[nameIdx])
		}
		for i, c := range cols {
			if c.Kind != KindParticulate || i >= len(row) {
				continue
			}
			aqi := AQIFromValue(row[i])
			sev := ClassFromAQI(aqi)
			r := AQIReading{
				SensorID:   row.SensorID(),
				SensorName: name,
				Field:      c.ID,
				Label:      c.Label,
				Display:    aqi.String(),
				Severity:   sev,
				Category:   sev.Description(),
				ObservedAt: observedAt,
			}
			if pm, ok := numericValue(row[i]); ok {
				r.PM25 = &pm
			}
			if aqi.Kind == AQIIndex {
				idx := aqi.Index
				r.AQI = &idx
			}
			out = append(out, r)
		}
	}
	return out
}
