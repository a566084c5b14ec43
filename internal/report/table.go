package report

import (
	"io"

	"github.com/couchcryptid/purpleair-aqi-service/internal/domain"
)

// Cell is one rendered value with its AQI severity, if any.
type Cell struct {
	Text     string
	Severity domain.Severity
}

// Class returns the CSS class for the cell, or "".
func (c Cell) Class() string {
	return c.Severity.Class()
}

// Row is one sensor. Odd is true for the 1st, 3rd, ... row.
type Row struct {
	Odd   bool
	Cells []Cell
}

// Table is a fully converted report ready for rendering.
type Table struct {
	Title   string
	Headers []string
	Rows    []Row
}

// Renderer writes a Table in some output format.
type Renderer interface {
	Render(w io.Writer, t Table) error
	ContentType() string
}

// DefaultTitle is the document title used when none is configured.
const DefaultTitle = "Purple Air AQI"

// Build converts readings into a Table. Particulate cells become AQI values
// with a severity, the temperature cell is corrected by
// domain.TemperatureOffset, and every other cell is shown as is. Rows are
// rendered in the order given.
func Build(cols []domain.Column, rows []domain.Reading) Table {
	t := Table{
		Title:   DefaultTitle,
		Headers: make([]string, len(cols)),
		Rows:    make([]Row, 0, len(rows)),
	}
	for i, c := range cols {
		t.Headers[i] = c.Label
	}

	for n, reading := range rows {
		row := Row{Odd: (n+1)%2 == 1, Cells: make([]Cell, len(reading))}
		for i, v := range reading {
			kind := domain.KindPlain
			if i < len(cols) {
				kind = cols[i].Kind
			}
			row.Cells[i] = buildCell(kind, v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func buildCell(kind domain.FieldKind, v any) Cell {
	switch kind {
	case domain.KindParticulate:
		aqi := domain.AQIFromValue(v)
		return Cell{Text: aqi.String(), Severity: domain.ClassFromAQI(aqi)}
	case domain.KindTemperature:
		adjusted, ok := domain.AdjustTemperature(v)
		if !ok {
			return Cell{Text: "-", Severity: domain.SeverityNone}
		}
		return Cell{Text: domain.FormatNumber(adjusted), Severity: domain.SeverityNone}
	default:
		return Cell{Text: domain.FormatValue(v), Severity: domain.SeverityNone}
	}
}
