package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goanova/domain/core"
	"goanova/domain/dataset"
	"goanova/ports"
)

// DataReader reads Excel or CSV files into frames. Column types are
// inferred: a column is numeric when every non-empty cell parses as a
// float, otherwise categorical. Implements ports.FrameReader.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
}

var _ ports.FrameReader = (*DataReader)(nil)

// NewDataReader creates a reader that handles both Excel and CSV files.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: "Sheet1"}
}

// WithSheet overrides the worksheet read from Excel files.
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

// ReadFrame reads the file into a typed frame.
func (r *DataReader) ReadFrame(ctx context.Context) (*dataset.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		err = fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", r.fileType)
	}
	return framify(rows)
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}
	return rows, nil
}

// framify turns header + string rows into typed columns.
func framify(rows [][]string) (*dataset.Frame, error) {
	header := rows[0]
	data := rows[1:]

	columns := make([]dataset.Column, 0, len(header))
	for colIdx, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", colIdx+1)
		}

		cells := make([]string, len(data))
		for i, row := range data {
			if colIdx < len(row) {
				cells[i] = strings.TrimSpace(row[colIdx])
			}
		}
		columns = append(columns, inferColumn(core.ColumnKey(name), cells))
	}
	return dataset.NewFrame(columns)
}

func inferColumn(key core.ColumnKey, cells []string) dataset.Column {
	numeric := make([]float64, len(cells))
	isNumeric := true
	nonEmpty := 0
	for i, cell := range cells {
		if cell == "" {
			numeric[i] = math.NaN()
			continue
		}
		nonEmpty++
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			isNumeric = false
			break
		}
		numeric[i] = v
	}

	if isNumeric && nonEmpty > 0 {
		return dataset.Column{Key: key, Type: dataset.TypeNumeric, Numeric: numeric}
	}
	return dataset.Column{Key: key, Type: dataset.TypeCategorical, Labels: cells}
}
