package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/couchcryptid/purpleair-aqi-service/internal/domain"
)

// severityColors mirror the HTML style sheet.
var severityColors = map[domain.Severity]lipgloss.Color{
	domain.SeverityGood:          lipgloss.Color("#00ff00"),
	domain.SeverityModerate:      lipgloss.Color("#ffff00"),
	domain.SeverityUSG:           lipgloss.Color("#ff8800"),
	domain.SeverityUnhealthy:     lipgloss.Color("#ff0000"),
	domain.SeverityVeryUnhealthy: lipgloss.Color("#ff00ff"),
	domain.SeverityHazardous:     lipgloss.Color("#ff00ff"),
}

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
	headerStyle = cellStyle.Bold(true)
	oddStyle    = cellStyle.Background(lipgloss.Color("#dddddd")).Foreground(lipgloss.Color("#000000"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// Terminal renders the table with lipgloss, colouring AQI cells by severity.
type Terminal struct{}

func (Terminal) Render(w io.Writer, t Table) error {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = make([]string, len(r.Cells))
		for j, c := range r.Cells {
			rows[i][j] = c.Text
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(t.Rows) {
				return cellStyle
			}
			r := t.Rows[row]
			style := cellStyle
			if r.Odd {
				style = oddStyle
			}
			if col < len(r.Cells) {
				if color, ok := severityColors[r.Cells[col].Severity]; ok {
					style = style.Background(color).Foreground(lipgloss.Color("#000000"))
				}
			}
			return style
		})

	if _, err := fmt.Fprintln(w, titleStyle.Render(t.Title)); err != nil {
		return fmt.Errorf("render terminal: %w", err)
	}
	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return fmt.Errorf("render terminal: %w", err)
	}
	if _, err := fmt.Fprintln(w, legend()); err != nil {
		return fmt.Errorf("render terminal: %w", err)
	}
	return nil
}

var legendOrder = []domain.Severity{
	domain.SeverityGood,
	domain.SeverityModerate,
	domain.SeverityUSG,
	domain.SeverityUnhealthy,
	domain.SeverityVeryUnhealthy,
	domain.SeverityHazardous,
}

func legend() string {
	items := make([]string, len(legendOrder))
	for i, s := range legendOrder {
		items[i] = cellStyle.
			Background(severityColors[s]).
			Foreground(lipgloss.Color("#000000")).
			Render(s.Description())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (Terminal) ContentType() string {
	return "text/plain; charset=utf-8"
}
