package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load opens a dataset file and reads it according to its extension.
func Load(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputFormatError{Name: filepath.Base(path), Err: fmt.Errorf("open: %w", err)}
	}
	defer f.Close()
	return Read(f, filepath.Base(path), opt)
}

// Read selects a reader based on the file name and returns the parsed Dataset.
func Read(r io.Reader, name string, opt Options) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv", ".txt":
		return ReadCSV(r, name, opt)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r, name, opt)
	default:
		return nil, &InputFormatError{Name: name, Err: ErrUnsupported}
	}
}
