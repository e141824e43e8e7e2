package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/captainctl/internal/frame"
)

// WriteCSV saves f with a header row and no index column.
func WriteCSV(path string, f *frame.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := EncodeCSV(file, f); err != nil {
		file.Close()
		return fmt.Errorf("write csv (%s): %w", path, err)
	}
	return file.Close()
}

func EncodeCSV(w io.Writer, f *frame.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Names()); err != nil {
		return err
	}
	cols := f.Columns()
	record := make([]string, len(cols))
	for i := 0; i < f.Rows(); i++ {
		for j, c := range cols {
			record[j] = c.Cell(i)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
