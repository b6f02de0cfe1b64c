package table

import (
	"encoding/csv"
	"os"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// WriteCSV exports columns and records to a delimited flat file,
// numeric cells in their display form.
func WriteCSV(path string, columns []string, records [][]frame.Value) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create CSV file %s", path)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return errors.Wrapf(err, "failed to write CSV header to %s", path)
	}
	line := make([]string, len(columns))
	for _, rec := range records {
		for i := range columns {
			if i < len(rec) {
				line[i] = rec[i].Text()
			} else {
				line[i] = ""
			}
		}
		if err := w.Write(line); err != nil {
			return errors.Wrapf(err, "failed to write CSV record to %s", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "failed to flush CSV file %s", path)
}
