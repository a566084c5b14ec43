package domain

import (
	"math"
	"strconv"
	"strings"
)

// AQIKind tags how an AQI value was produced.
type AQIKind int

const (
	// AQIIndex is a computed index on the 0-500 scale.
	AQIIndex AQIKind = iota
	// AQINotComputable means the concentration was missing, NaN, or above 1000.
	AQINotComputable
	// AQIPassthrough carries a negative raw concentration through unchanged.
	AQIPassthrough
	// AQIUndefined means no breakpoint bracket matched.
	AQIUndefined
)

// AQI is the result of converting one PM2.5 concentration.
type AQI struct {
	Kind  AQIKind
	Index int
	Raw   float64 // set for AQIPassthrough
}

// String returns the display form: the index, "-" when not computable,
// the raw value for pass-through, or "undefined".
func (a AQI) String() string {
	switch a.Kind {
	case AQIIndex:
		return strconv.Itoa(a.Index)
	case AQIPassthrough:
		return FormatNumber(a.Raw)
	case AQIUndefined:
		return "undefined"
	default:
		return "-"
	}
}

// breakpoint maps the concentration range (Low, High] onto the index range [IndexLow, IndexHigh].
type breakpoint struct {
	Low, High           float64
	IndexLow, IndexHigh float64
}

// pm25Breakpoints is the US EPA PM2.5 table, highest bracket first.
// The last bracket's lower bound is inclusive.
var pm25Breakpoints = []breakpoint{
	{Low: 350.5, High: 500.4, IndexLow: 401, IndexHigh: 500},
	{Low: 250.5, High: 350.5, IndexLow: 301, IndexHigh: 400},
	{Low: 150.5, High: 250.5, IndexLow: 201, IndexHigh: 300},
	{Low: 55.5, High: 150.5, IndexLow: 151, IndexHigh: 200},
	{Low: 35.5, High: 55.5, IndexLow: 101, IndexHigh: 150},
	{Low: 12.1, High: 35.5, IndexLow: 51, IndexHigh: 100},
	{Low: 0, High: 12.1, IndexLow: 0, IndexHigh: 50},
}

// maxConvertiblePM is the largest concentration still converted. Anything in
// (500.4, 1000] extrapolates along the top bracket.
const maxConvertiblePM = 1000

// AQIFromPM converts a PM2.5 concentration in µg/m³ to an AQI value.
//   - NaN or above 1000 is not computable.
//   - Negative input is passed through unchanged and is not an index.
func AQIFromPM(pm float64) AQI {
	if math.IsNaN(pm) {
		return AQI{Kind: AQINotComputable}
	}
	if pm < 0 {
		return AQI{Kind: AQIPassthrough, Raw: pm}
	}
	if pm > maxConvertiblePM {
		return AQI{Kind: AQINotComputable}
	}

	last := len(pm25Breakpoints) - 1
	for i, bp := range pm25Breakpoints {
		if pm > bp.Low || (i == last && pm >= bp.Low) {
			return AQI{Kind: AQIIndex, Index: interpolate(pm, bp)}
		}
	}
	return AQI{Kind: AQIUndefined}
}

// AQIFromValue converts a decoded JSON cell. Numbers and numeric strings are
// converted; null, booleans, and other strings are not computable.
func AQIFromValue(v any) AQI {
	pm, ok := numericValue(v)
	if !ok {
		return AQI{Kind: AQINotComputable}
	}
	return AQIFromPM(pm)
}

func interpolate(cp float64, bp breakpoint) int {
	v := (bp.IndexHigh-bp.IndexLow)/(bp.High-bp.Low)*(cp-bp.Low) + bp.IndexLow
	return int(math.Floor(v + 0.5))
}

// Severity is the AQI category, also used as the CSS class of a report cell.
type Severity string

const (
	SeverityGood          Severity = "good"
	SeverityModerate      Severity = "moderate"
	SeverityUSG           Severity = "usg"
	SeverityUnhealthy     Severity = "unhealthy"
	SeverityVeryUnhealthy Severity = "veryunhealthy"
	SeverityHazardous     Severity = "hazardous"
	SeverityNone          Severity = "none"
)

// ClassFromAQI maps an AQI value to its severity. Boundaries are strict
// less-than, so 50 is moderate rather than good. Values that are not
// computable or undefined have no severity.
//
// Negative pass-through values classify as good.
func ClassFromAQI(aqi AQI) Severity {
	var v float64
	switch aqi.Kind {
	case AQIIndex:
		v = float64(aqi.Index)
	case AQIPassthrough:
		v = aqi.Raw
	default:
		return SeverityNone
	}

	switch {
	case v < 50:
		return SeverityGood
	case v < 100:
		return SeverityModerate
	case v < 150:
		return SeverityUSG
	case v < 200:
		return SeverityUnhealthy
	case v < 300:
		return SeverityVeryUnhealthy
	default:
		return SeverityHazardous
	}
}

// Class returns the CSS class name, or "" when there is no severity.
func (s Severity) Class() string {
	if s == SeverityNone || s == "" {
		return ""
	}
	return string(s)
}

// Description is the EPA category name.
func (s Severity) Description() string {
	switch s {
	case SeverityGood:
		return "Good"
	case SeverityModerate:
		return "Moderate"
	case SeverityUSG:
		return "Unhealthy for Sensitive Groups"
	case SeverityUnhealthy:
		return "Unhealthy"
	case SeverityVeryUnhealthy:
		return "Very Unhealthy"
	case SeverityHazardous:
		return "Hazardous"
	default:
		return ""
	}
}

// numericValue extracts a float from a decoded JSON scalar.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
