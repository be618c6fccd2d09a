package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"deliverypulse/internal/analytics"
)

// CSVWriter exports the view bundle as one CSV file per view.
type CSVWriter struct {
	logger *slog.Logger

	// BOMPrefix prepends a UTF-8 BOM to every file so Excel recognizes
	// the encoding.
	BOMPrefix bool
}

// NewCSVWriter creates a CSV writer. A nil logger falls back to slog.Default().
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteViews writes each view to <outputDir>/<view name>.csv and returns the
// written paths.
func (w *CSVWriter) WriteViews(views *analytics.Views, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for _, table := range flattenViews(views) {
		path := filepath.Join(outputDir, table.Name+".csv")
		if err := w.writeFile(path, table); err != nil {
			return written, fmt.Errorf("export view %s: %w", table.Name, err)
		}
		written = append(written, path)
	}

	w.logger.Info("views exported to CSV",
		"output_dir", outputDir,
		"files", len(written),
	)
	return written, nil
}

func (w *CSVWriter) writeFile(path string, table viewTable) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if w.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, record := range table.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return writer.Error()
}

// WriteJSON writes the full view bundle to a single indented JSON document.
// Missing metrics are encoded as null, so downstream renderers can pick
// their own placeholder.
func WriteJSON(views *analytics.Views, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(views); err != nil {
		return fmt.Errorf("encode views: %w", err)
	}
	return nil
}
