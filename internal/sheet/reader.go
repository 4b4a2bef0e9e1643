// Package sheet decodes spreadsheet files into positional rows of raw cell text.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrNoHeader = errors.New("sheet has no header row")

// Row is one data line. Number is the 1-based row number in the sheet.
// Cells hold raw stored values: numbers and date serials are unformatted.
type Row struct {
	Number int
	Cells  []string
}

type Table struct {
	Sheet    string
	Header   []string
	Rows     []Row
	Date1904 bool
}

type Decoder interface {
	Decode(path string) (Table, error)
}

// XLSXDecoder reads the named sheet, or the first one when SheetName is empty.
type XLSXDecoder struct {
	SheetName string
}

func (d XLSXDecoder) Decode(path string) (Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer fh.Close()
	table, err := d.Read(fh)
	if err != nil {
		return Table{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return table, nil
}

func (d XLSXDecoder) Read(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	sheet := d.SheetName
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return Table{}, errors.New("workbook has no sheets")
		}
		sheet = list[0]
	}

	table := Table{Sheet: sheet}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		table.Date1904 = *props.Date1904
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return Table{}, err
	}
	defer rows.Close()

	rowNo := 0
	for rows.Next() {
		rowNo++
		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return Table{}, fmt.Errorf("row %d: %w", rowNo, err)
		}
		if table.Header == nil {
			if isBlank(cells) {
				continue
			}
			table.Header = trimCells(cells)
			continue
		}
		if isBlank(cells) {
			continue
		}
		table.Rows = append(table.Rows, Row{Number: rowNo, Cells: pad(cells, len(table.Header))})
	}
	if err := rows.Error(); err != nil {
		return Table{}, err
	}
	if table.Header == nil {
		return Table{}, ErrNoHeader
	}

	return table, nil
}

// pad restores trailing blank cells the reader drops, so every row is at
// least as wide as the header.
func pad(cells []string, width int) []string {
	if len(cells) >= width {
		return cells
	}
	out := make([]string, width)
	copy(out, cells)
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimCells(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, strings.TrimSpace(c))
	}
	return out
}
