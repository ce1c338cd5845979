// Package cli отрисовывает результаты расчетов в терминале.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"example.com/ai-finance-copilot/backend/internal/finance"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorYellow = lipgloss.Color("#D0A215")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorBorder)
)

var bandColors = map[finance.RiskBand]lipgloss.Color{
	finance.RiskLow:      colorGreen,
	finance.RiskModerate: colorYellow,
	finance.RiskHigh:     colorOrange,
	finance.RiskSevere:   colorRed,
}

// Table описывает таблицу с рамкой. Первая колонка выравнивается влево, остальные вправо.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle рисует заголовок в рамке.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(60).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderBand раскрашивает категорию риска.
func RenderBand(band finance.RiskBand) string {
	color, ok := bandColors[band]
	if !ok {
		color = colorText
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(string(band))
}

// RenderMuted выводит второстепенный текст.
func RenderMuted(text string) string {
	return mutedStyle.Render(text)
}

// RenderKeyValue выводит пары "ключ: значение" с выравниванием ключей.
func RenderKeyValue(pairs [][2]string) string {
	width := 0
	for _, pair := range pairs {
		if w := lipgloss.Width(pair[0]); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, pair := range pairs {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s", width, pair[0])))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(pair[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTable рисует таблицу с заголовками.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	writeBorder(&b, widths, "╭", "┬", "╮")
	if len(t.Headers) > 0 {
		writeRow(&b, widths, t.Headers, headerStyle)
		writeBorder(&b, widths, "├", "┼", "┤")
	}
	for _, row := range t.Rows {
		writeRow(&b, widths, row, valueStyle)
	}
	writeBorder(&b, widths, "╰", "┴", "╯")

	return b.String()
}

func writeBorder(b *strings.Builder, widths []int, left, middle, right string) {
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(middle))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, widths []int, row []string, style lipgloss.Style) {
	b.WriteString(dimStyle.Render("│"))
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}

		// ячейки могут содержать ANSI-коды, поэтому отступ считается по видимой ширине
		pad := strings.Repeat(" ", w-lipgloss.Width(cell))
		if i == 0 {
			b.WriteString(style.Render(" " + cell + pad + " "))
		} else {
			b.WriteString(style.Render(" " + pad + cell + " "))
		}
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render("│"))
		}
	}
	b.WriteString(dimStyle.Render("│"))
	b.WriteString("\n")
}

// FormatMoney форматирует сумму в рупиях с разделителями разрядов.
func FormatMoney(value float64) string {
	if value < 0 {
		return "-₹" + humanize.FormatFloat("#,###.##", -value)
	}
	return "₹" + humanize.FormatFloat("#,###.##", value)
}

// FormatRatio форматирует долю платежа в доходе.
func FormatRatio(ratio *float64) string {
	if ratio == nil {
		return "undefined"
	}
	return fmt.Sprintf("%.1f%%", *ratio*100)
}
