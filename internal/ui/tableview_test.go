package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/zhaohua/mpconsole/internal/jsontable"
)

func TestColumnWidths(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		width int
		want  []int
	}{
		{"two halves", 2, 100, []int{48, 48}},
		{"remainder to last", 3, 100, []int{31, 31, 32}},
		{"narrow floor", 4, 8, []int{1, 1, 1, 1}},
		{"single", 1, 40, []int{38}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			header := make([]jsontable.Cell, tc.n)
			for i := range header {
				header[i] = jsontable.Cell{IsHeader: true, Weight: 1 / float64(tc.n)}
			}
			got := columnWidths(header, tc.width)
			if len(got) != len(tc.want) {
				t.Fatalf("columnWidths = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("columnWidths = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func renderFor(t *testing.T, data jsontable.TableData) (jsontable.RenderedTable, error) {
	t.Helper()
	return jsontable.Render(data)
}

func TestTableView_Rows(t *testing.T) {
	items := []*jsontable.Object{
		jsontable.NewObject(jsontable.Field{Key: "path", Value: jsontable.String("/srv")}),
		jsontable.NewObject(jsontable.Field{Key: "path", Value: jsontable.String("/home")}),
	}
	rendered, err := renderFor(t, jsontable.TableData{Items: items})
	v := newTableView(rendered, err, 60, 10, GetTheme("Nightfox"), DefaultKeyMap())

	if !v.hasTable {
		t.Fatalf("expected a table component")
	}
	if v.cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", v.cursor())
	}
	v.setCursor(10)
	if v.cursor() != 1 {
		t.Fatalf("setCursor past end = %d, want 1", v.cursor())
	}
	out := v.view(GetTheme("Nightfox").Styles())
	if !strings.Contains(out, "/home") || !strings.Contains(out, "path") {
		t.Fatalf("view missing cells:\n%s", out)
	}
}

func TestTableView_TruncatesWideCells(t *testing.T) {
	long := strings.Repeat("x", 80)
	items := []*jsontable.Object{jsontable.NewObject(jsontable.Field{Key: "v", Value: jsontable.String(long)})}
	rendered, err := renderFor(t, jsontable.TableData{Items: items})
	v := newTableView(rendered, err, 20, 5, GetTheme("Slate"), DefaultKeyMap())

	out := v.view(GetTheme("Slate").Styles())
	if strings.Contains(out, long) {
		t.Fatalf("cell was not truncated:\n%s", out)
	}
	if !strings.Contains(out, ellipsis) {
		t.Fatalf("truncated cell should end in an ellipsis:\n%s", out)
	}
}

func TestTableView_EmptyIndicator(t *testing.T) {
	rendered, err := renderFor(t, jsontable.EmptyTableData())
	v := newTableView(rendered, err, 40, 5, GetTheme("Nightfox"), DefaultKeyMap())

	if v.hasTable || v.cursor() != -1 {
		t.Fatalf("empty table should not build a table component")
	}
	out := v.view(GetTheme("Nightfox").Styles())
	if !strings.Contains(out, jsontable.EmptyText) {
		t.Fatalf("view missing indicator:\n%s", out)
	}
}

func TestTableView_InvalidValuePanel(t *testing.T) {
	items := []*jsontable.Object{jsontable.NewObject(jsontable.Field{Key: "score", Value: jsontable.Float(math.NaN())})}
	rendered, err := renderFor(t, jsontable.TableData{Items: items})
	if err == nil {
		t.Fatalf("expected render error")
	}
	v := newTableView(rendered, err, 60, 12, GetTheme("Nightfox"), DefaultKeyMap())

	out := v.view(GetTheme("Nightfox").Styles())
	for _, want := range []string{"Cannot render table", "unexpected value NaN for score", "column: score"} {
		if !strings.Contains(out, want) {
			t.Fatalf("error panel missing %q:\n%s", want, out)
		}
	}
}

func TestTableView_ZeroColumns(t *testing.T) {
	items := []*jsontable.Object{jsontable.NewObject(), jsontable.NewObject()}
	rendered, err := renderFor(t, jsontable.TableData{Items: items})
	v := newTableView(rendered, err, 40, 5, GetTheme("Nightfox"), DefaultKeyMap())

	if out := v.view(GetTheme("Nightfox").Styles()); !strings.Contains(out, "2 rows without columns") {
		t.Fatalf("view = %q", out)
	}
}
