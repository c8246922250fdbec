package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/heatsim/internal/diffusion"
)

// WriteCSV writes one record per field row. Values use the shortest
// representation that parses back to the same float64.
func WriteCSV(w io.Writer, f *diffusion.Field) error {
	cw := csv.NewWriter(w)
	record := make([]string, f.Cols())
	for i := 0; i < f.Rows(); i++ {
		for j, v := range f.Row(i) {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a field written by WriteCSV. Ragged input is a
// *diffusion.ShapeError.
func ReadCSV(r io.Reader) (*diffusion.Field, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, len(records))
	for i, rec := range records {
		rows[i] = make([]float64, len(rec))
		for j, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			rows[i][j] = v
		}
	}
	return diffusion.FromRows(rows)
}

func WriteCSVFile(path string, f *diffusion.Field) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(file, f); err != nil {
		return err
	}
	return file.Close()
}

func ReadCSVFile(path string) (*diffusion.Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}
