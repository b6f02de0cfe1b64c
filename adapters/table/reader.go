package table

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader loads tabular experiment data from CSV and Excel files
// into a frame. The comparator itself never parses files; this adapter
// is the ingestion boundary.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewDataReader creates a reader for the given path, picking the
// format by extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, log: internal.DefaultLogger}
}

// Read loads the file into a frame. The first row supplies column
// names; numeric-looking cells become numeric values, everything else
// stays text.
func (r *DataReader) Read() (*frame.Frame, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(strings.ToUpper(r.fileType) + " file " + r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	default:
		return r.readExcel()
	}
}

func (r *DataReader) readCSV() (*frame.Frame, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", r.filePath)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read CSV file %s", r.filePath)
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput("CSV file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

func (r *DataReader) readExcel() (*frame.Frame, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open Excel file %s", r.filePath)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read Sheet1 of %s", r.filePath)
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput("Excel file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into a typed frame
func (r *DataReader) processRows(rows [][]string) (*frame.Frame, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	out := frame.New(headers...)
	for i := 1; i < len(rows); i++ {
		cells := make([]frame.Value, len(headers))
		for j := range headers {
			text := ""
			if j < len(rows[i]) {
				text = strings.TrimSpace(rows[i][j])
			}
			cells[j] = parseCell(text)
		}
		if err := out.Append(cells...); err != nil {
			return nil, err
		}
	}

	r.log.Debug("%s file %s processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), r.filePath, len(headers), out.Len())
	return out, nil
}

// parseCell types a raw cell: parseable floats become numbers
func parseCell(text string) frame.Value {
	if text != "" {
		if num, err := strconv.ParseFloat(text, 64); err == nil {
			return frame.Num(num)
		}
	}
	return frame.Str(text)
}

// ReadCSV loads one CSV file into a frame
func ReadCSV(path string) (*frame.Frame, error) {
	return NewDataReader(path).Read()
}
