package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pkg/errors"

	"github.com/zhaohua/mpconsole/internal/jsontable"
)

// Format selects the text rendition of a table.
type Format string

const (
	FormatTable    Format = "table"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted text formats.
func Formats() []Format {
	return []Format{FormatTable, FormatHTML, FormatMarkdown}
}

// ParseFormat accepts a format name case-insensitively. "md" is an alias
// for markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return FormatTable, nil
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// WriteText writes the rendered table to w. An empty table becomes a single
// indicator cell; a table without columns writes nothing.
func WriteText(w io.Writer, table jsontable.RenderedTable, format Format) error {
	if !table.IsEmpty() && len(table.Header) == 0 {
		return nil
	}

	t, err := newWriter(w, format)
	if err != nil {
		return err
	}

	if table.IsEmpty() {
		if err := t.Append([]string{table.Indicator.Text}); err != nil {
			return errors.Wrap(err, "tablewriter.Append")
		}
	} else {
		t.Header(table.HeaderTexts())
		for _, row := range table.RowTexts() {
			if err := t.Append(row); err != nil {
				return errors.Wrap(err, "tablewriter.Append")
			}
		}
	}

	if err := t.Render(); err != nil {
		return errors.Wrap(err, "tablewriter.Render")
	}
	return nil
}

func newWriter(w io.Writer, format Format) (*tablewriter.Table, error) {
	switch format {
	case FormatHTML:
		cfg := renderer.HTMLConfig{
			HeaderClass:   "mpconsole-header",
			TableClass:    "mpconsole-table",
			EscapeContent: true,
		}
		return tablewriter.NewTable(w,
			tablewriter.WithRenderer(renderer.NewHTML(cfg)),
			tablewriter.WithHeaderAutoFormat(tw.Off),
		), nil
	case FormatMarkdown:
		return tablewriter.NewTable(w,
			tablewriter.WithRenderer(renderer.NewMarkdown()),
			tablewriter.WithHeaderAutoFormat(tw.Off),
			tablewriter.WithHeaderAlignment(tw.AlignLeft),
			tablewriter.WithRowAlignment(tw.AlignLeft),
		), nil
	case FormatTable, "":
		return tablewriter.NewTable(w,
			tablewriter.WithHeaderAutoFormat(tw.Off),
			tablewriter.WithHeaderAlignment(tw.AlignLeft),
			tablewriter.WithRowAlignment(tw.AlignLeft),
			tablewriter.WithRendition(tw.Rendition{
				Borders: tw.Border{Left: tw.On, Right: tw.On, Top: tw.On, Bottom: tw.On},
				Settings: tw.Settings{
					Separators: tw.Separators{BetweenColumns: tw.On},
				},
			}),
		), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}
