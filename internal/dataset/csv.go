package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads a delimited table. The first record is the header; short
// records are padded. Rows beyond opt.MaxRows are counted but not kept.
func ReadCSV(r io.Reader, name string, opt Options) (*Dataset, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &InputFormatError{Name: name, Err: errors.New("empty file")}
		}
		return nil, &InputFormatError{Name: name, Err: fmt.Errorf("read header: %w", err)}
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	maxRows := opt.MaxRows
	var rows [][]string
	total := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &InputFormatError{Name: name, Err: fmt.Errorf("read row %d: %w", total+1, err)}
		}
		total++
		if maxRows > 0 && len(rows) >= maxRows {
			continue
		}
		rows = append(rows, rec)
	}
	ds := New(name, header, rows, opt)
	if len(rows) < total {
		ds.addWarning("loaded only %d/%d rows due to MaxRows", len(rows), total)
	}
	return ds, nil
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}
