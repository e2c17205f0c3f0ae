package export

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/zhaohua/mpconsole/internal/jsontable"
)

const (
	// SheetName is the worksheet the table is written to.
	SheetName = "Table"

	// sheetWidth is the total column width, in characters, shared out by
	// cell weight.
	sheetWidth  = 120.0
	minColWidth = 8.0
)

// WriteXLSX writes the rendered table as a workbook to w.
func WriteXLSX(w io.Writer, table jsontable.RenderedTable) error {
	f, err := buildWorkbook(table)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "excelize.Write")
	}
	return nil
}

// SaveXLSX writes the rendered table as a workbook at path.
func SaveXLSX(path string, table jsontable.RenderedTable) error {
	f, err := buildWorkbook(table)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "excelize.SaveAs")
	}
	return nil
}

func buildWorkbook(table jsontable.RenderedTable) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "excelize.SetSheetName")
	}

	var err error
	if table.IsEmpty() {
		err = f.SetCellValue(SheetName, "A1", table.Indicator.Text)
	} else {
		err = fillSheet(f, table)
	}
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillSheet(f *excelize.File, table jsontable.RenderedTable) error {
	if len(table.Header) == 0 {
		return nil
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "excelize.NewStyle")
	}

	for col, cell := range table.Header {
		name, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.Wrap(err, "excelize.CoordinatesToCellName")
		}
		if err := f.SetCellValue(SheetName, name, cell.Text); err != nil {
			return errors.Wrap(err, "excelize.SetCellValue")
		}

		letter, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return errors.Wrap(err, "excelize.ColumnNumberToName")
		}
		if err := f.SetColWidth(SheetName, letter, letter, columnWidth(cell.Weight)); err != nil {
			return errors.Wrap(err, "excelize.SetColWidth")
		}
	}

	last, err := excelize.CoordinatesToCellName(len(table.Header), 1)
	if err != nil {
		return errors.Wrap(err, "excelize.CoordinatesToCellName")
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return errors.Wrap(err, "excelize.SetCellStyle")
	}

	for r, row := range table.Rows {
		for c, cell := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return errors.Wrap(err, "excelize.CoordinatesToCellName")
			}
			if err := f.SetCellValue(SheetName, name, cell.Text); err != nil {
				return errors.Wrap(err, "excelize.SetCellValue")
			}
		}
	}
	return nil
}

func columnWidth(weight float64) float64 {
	return max(weight*sheetWidth, minColWidth)
}
