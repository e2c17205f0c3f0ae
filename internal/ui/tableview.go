package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhaohua/mpconsole/internal/jsontable"
)

// cellPadding matches the horizontal padding of table.DefaultStyles cells.
const cellPadding = 2

// tableView presents one render pass in the content area. It is rebuilt
// whenever the page data, the search query or the available size changes.
type tableView struct {
	rendered jsontable.RenderedTable
	err      error
	table    table.Model
	hasTable bool
	width    int
	height   int
}

func newTableView(rendered jsontable.RenderedTable, err error, width, height int, theme Theme, keys keyMap) tableView {
	v := tableView{rendered: rendered, err: err, width: width, height: height}
	if err != nil || rendered.IsEmpty() || len(rendered.Header) == 0 {
		return v
	}

	widths := columnWidths(rendered.Header, width)
	columns := make([]table.Column, len(rendered.Header))
	for i, c := range rendered.Header {
		columns[i] = table.Column{Title: truncate(c.Text, widths[i]), Width: widths[i]}
	}
	rows := make([]table.Row, 0, len(rendered.Rows))
	for _, row := range rendered.Rows {
		r := make(table.Row, len(row))
		for j, c := range row {
			r[j] = truncate(c.Text, widths[j])
		}
		rows = append(rows, r)
	}

	v.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithStyles(theme.TableStyles()),
		table.WithKeyMap(keys.tableKeyMap()),
	)
	v.table.SetWidth(width)
	v.table.SetHeight(height)
	v.hasTable = true
	return v
}

// columnWidths splits width by the header weights. The rounding remainder
// goes to the last column so the row always spans the full width.
func columnWidths(header []jsontable.Cell, width int) []int {
	widths := make([]int, len(header))
	used := 0
	for i, c := range header {
		widths[i] = int(c.Weight * float64(width))
		used += widths[i]
	}
	if n := len(widths); n > 0 && used < width {
		widths[n-1] += width - used
	}
	for i := range widths {
		widths[i] -= cellPadding
		if widths[i] < 1 {
			widths[i] = 1
		}
	}
	return widths
}

func (v tableView) cursor() int {
	if !v.hasTable {
		return -1
	}
	return v.table.Cursor()
}

func (v *tableView) setCursor(n int) {
	if !v.hasTable || n < 0 {
		return
	}
	if last := len(v.rendered.Rows) - 1; n > last {
		n = last
	}
	v.table.SetCursor(n)
}

func (v tableView) update(msg tea.Msg) (tableView, tea.Cmd) {
	if !v.hasTable {
		return v, nil
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v tableView) view(styles Styles) string {
	switch {
	case v.err != nil:
		return v.errorPanel(styles)
	case v.rendered.IsEmpty():
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(v.rendered.Indicator.Text))
	case !v.hasTable:
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center,
			styles.FaintText.Render(fmt.Sprintf("%d rows without columns", len(v.rendered.Rows))))
	}
	return v.table.View()
}

func (v tableView) errorPanel(styles Styles) string {
	var b strings.Builder
	var invalid *jsontable.InvalidValueError
	if errors.As(v.err, &invalid) {
		b.WriteString(styles.DangerText.Render("Cannot render table"))
		b.WriteString("\n\n")
		b.WriteString(styles.Text.Render(invalid.Error()))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("column: " + invalid.Key))
	} else {
		b.WriteString(styles.DangerText.Render("Cannot load page"))
		b.WriteString("\n\n")
		b.WriteString(styles.Text.Render(truncate(v.err.Error(), max(v.width-8, 20))))
	}
	panel := styles.ErrorPanel.Render(b.String())
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, panel)
}

