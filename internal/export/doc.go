// Package export writes rendered tables outside the terminal UI.
//
// Text output goes through tablewriter in three renditions: a bordered
// table, HTML and markdown. Workbooks are written with excelize, one sheet
// named Table with a bold header row and column widths proportional to the
// cell weights.
//
// Cells are written as text exactly as the renderer produced them, so a
// number keeps its literal form and a missing value stays blank.
package export
