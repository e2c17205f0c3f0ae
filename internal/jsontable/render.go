package jsontable

// EmptyText is the text of the indicator cell shown for a table without items.
const EmptyText = "Empty"

// Cell is one layout-ready cell. Weight is the cell's share of the row width.
type Cell struct {
	Text     string
	IsHeader bool
	Weight   float64
}

// RenderedTable is the output of Render. A table without items carries only
// the Indicator cell; otherwise Header has one cell per column and every row
// in Rows has exactly as many cells as Header.
type RenderedTable struct {
	Header    []Cell
	Rows      [][]Cell
	Indicator *Cell
	Schema    TableConfig
}

// IsEmpty reports whether r is the "no items" indicator table.
func (r RenderedTable) IsEmpty() bool {
	return r.Indicator != nil
}

// HeaderTexts returns the header labels in column order.
func (r RenderedTable) HeaderTexts() []string {
	out := make([]string, len(r.Header))
	for i, c := range r.Header {
		out[i] = c.Text
	}
	return out
}

// RowTexts returns the text of every data cell, row by row.
func (r RenderedTable) RowTexts() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		texts := make([]string, len(row))
		for j, c := range row {
			texts[j] = c.Text
		}
		out[i] = texts
	}
	return out
}

// Render lays data out as a grid. Without items it returns the Empty
// indicator and skips inference entirely. Otherwise the schema is data.Conf,
// or one inferred from the first item. Every cell gets the same weight
// 1/max(1, columns). A missing key or a non-primitive value renders as "";
// keys outside the schema are dropped. The only error is an
// *InvalidValueError from inference.
func Render(data TableData) (RenderedTable, error) {
	if len(data.Items) == 0 {
		return RenderedTable{
			Indicator: &Cell{Text: EmptyText, Weight: 1},
		}, nil
	}

	var conf TableConfig
	if data.Conf != nil {
		conf = *data.Conf
	} else {
		inferred, err := BuildSchema(data.Items[0])
		if err != nil {
			return RenderedTable{}, err
		}
		conf = inferred
	}

	weight := 1.0 / float64(max(1, conf.Len()))

	header := make([]Cell, conf.Len())
	for i, col := range conf.columns {
		header[i] = Cell{Text: col.DisplayLabel(), IsHeader: true, Weight: weight}
	}

	rows := make([][]Cell, len(data.Items))
	for i, item := range data.Items {
		row := make([]Cell, conf.Len())
		for j, col := range conf.columns {
			row[j] = Cell{Text: cellText(item, col.Key), Weight: weight}
		}
		rows[i] = row
	}

	return RenderedTable{Header: header, Rows: rows, Schema: conf}, nil
}

func cellText(item *Object, key string) string {
	v, ok := item.Get(key)
	if !ok || !v.IsPrimitive() {
		return ""
	}
	return v.Content()
}
