package service

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/saatgomi1/secondsense/models"
)

// Exporter renders one record row as a downloadable file
type Exporter interface {
	Format() string
	FileName() string
	ContentType() string
	Export(row []models.Column) ([]byte, error)
}

// XLSXExporter writes a header row and one value row to the first sheet
type XLSXExporter struct{}

const xlsxSheet = "Sheet1"

func (XLSXExporter) Format() string   { return "xlsx" }
func (XLSXExporter) FileName() string { return "garment_details.xlsx" }
func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Export(row []models.Column) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, 0, len(row))
	values := make([]interface{}, 0, len(row))
	for _, column := range row {
		header = append(header, column.Name)
		values = append(values, column.Value)
	}

	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, "A2", &values); err != nil {
		return nil, fmt.Errorf("failed to write value row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVExporter writes the same two rows as comma-separated values
type CSVExporter struct{}

func (CSVExporter) Format() string      { return "csv" }
func (CSVExporter) FileName() string    { return "garment_details.csv" }
func (CSVExporter) ContentType() string { return "text/csv" }

func (CSVExporter) Export(row []models.Column) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(row))
	values := make([]string, 0, len(row))
	for _, column := range row {
		header = append(header, column.Name)
		values = append(values, column.Value)
	}
	_ = w.Write(header)
	_ = w.Write(values)
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
