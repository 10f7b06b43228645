package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads one worksheet of an Excel workbook. The sheet is chosen by
// name, else by 1-based index, else the first sheet. The first non-empty row is
// the header.
func ReadXLSX(r io.Reader, name string, opt Options) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &InputFormatError{Name: name, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &InputFormatError{Name: name, Err: fmt.Errorf("workbook has no sheets")}
	}
	sheet, err := pickSheet(sheets, opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, &InputFormatError{Name: name, Err: err}
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, &InputFormatError{Name: name, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	start := 0
	for start < len(all) && blankRow(all[start]) {
		start++
	}
	if start == len(all) {
		return nil, &InputFormatError{Name: name, Err: fmt.Errorf("sheet %q is empty", sheet)}
	}
	header := all[start]
	var rows [][]string
	total := 0
	for _, row := range all[start+1:] {
		if blankRow(row) {
			continue
		}
		total++
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			continue
		}
		rows = append(rows, row)
	}
	ds := New(name, header, rows, opt)
	if len(rows) < total {
		ds.addWarning("loaded only %d/%d rows due to MaxRows", len(rows), total)
	}
	return ds, nil
}

func pickSheet(sheets []string, sheetName string, sheetIndex int) (string, error) {
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s", sheetName, strings.Join(sheets, ", "))
	}
	idx := sheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return sheets[idx-1], nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
