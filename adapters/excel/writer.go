package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tutoreval/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// WriteDataset writes ds as .csv or .xlsx depending on the path extension.
// Columns are written in ds.Columns order.
func WriteDataset(path string, ds *dataset.Dataset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(path, ds)
	case ".xlsx":
		return writeExcel(path, ds)
	}
	return fmt.Errorf("unsupported output format: %s", path)
}

func writeCSV(path string, ds *dataset.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(ds.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range ds.Records {
		if err := w.Write(recordCells(ds.Columns, record)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeExcel(path string, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(ds.Columns)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, record := range ds.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(recordCells(ds.Columns, record))); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f.SaveAs(path)
}

func recordCells(columns []string, record dataset.Record) []string {
	cells := make([]string, len(columns))
	for i, column := range columns {
		cells[i] = record[column]
	}
	return cells
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
