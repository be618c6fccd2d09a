package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"deliverypulse/internal/analytics"
)

// ExcelWriter exports the view bundle as a single XLSX workbook with one
// sheet per view.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates an Excel writer. A nil logger falls back to
// slog.Default().
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteWorkbook writes the views to an XLSX workbook at path.
func (w *ExcelWriter) WriteWorkbook(views *analytics.Views, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	book := excelize.NewFile()
	defer book.Close()

	tables := flattenViews(views)
	for i, table := range tables {
		if i == 0 {
			// reuse the default sheet for the first view
			if err := book.SetSheetName(book.GetSheetName(0), table.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := book.NewSheet(table.Name); err != nil {
				return fmt.Errorf("create sheet %s: %w", table.Name, err)
			}
		}
		if err := writeSheet(book, table); err != nil {
			return fmt.Errorf("write sheet %s: %w", table.Name, err)
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("views exported to workbook",
		"path", path,
		"sheets", len(tables),
	)
	return nil
}

func writeSheet(book *excelize.File, table viewTable) error {
	for col, header := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := book.SetCellValue(table.Name, cell, header); err != nil {
			return err
		}
	}

	for row, record := range table.Records {
		for col, value := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := book.SetCellValue(table.Name, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
