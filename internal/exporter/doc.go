// Package exporter writes the computed analytics views to disk.
//
// Three formats are supported:
//
// CSVWriter: one CSV file per view, with an N/A placeholder for missing
// metrics and a UTF-8 BOM option for Excel compatibility.
//
// JSON: the full view bundle as a single indented document, missing metrics
// encoded as null.
//
// ExcelWriter: a single XLSX workbook with one sheet per view, for readers
// who live in spreadsheets.
package exporter
