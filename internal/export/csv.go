package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// EncodeCSV writes rows as CSV. Empty rows become blank lines between sections.
func EncodeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVBytes encodes rows into a byte slice.
func CSVBytes(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
