// Package export writes transcript records as spreadsheets or data files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tealeg/xlsx"

	"audio-transcriber/internal/app/model"
)

// Supported formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var header = []string{"Job ID", "Original Name", "Location", "Size (bytes)", "Created At"}

func row(r model.TranscriptRecord) []string {
	return []string{
		r.JobID,
		r.OriginalName,
		r.Location,
		strconv.FormatInt(r.SizeBytes, 10),
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Write encodes records in format to w.
func Write(w io.Writer, format string, records []model.TranscriptRecord) error {
	switch format {
	case FormatXLSX:
		return ToExcel(w, records)
	case FormatCSV:
		return ToCSV(w, records)
	case FormatJSON:
		return ToJSON(w, records)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ContentType returns the MIME type and a download file name for format.
func ContentType(format string) (contentType, filename string) {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "transcripts.xlsx"
	case FormatCSV:
		return "text/csv", "transcripts.csv"
	default:
		return "application/json", "transcripts.json"
	}
}

// ToExcel writes one sheet with a header row and one row per record.
func ToExcel(w io.Writer, records []model.TranscriptRecord) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcripts")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}

	for _, r := range records {
		dataRow := sheet.AddRow()
		for _, v := range row(r) {
			dataRow.AddCell().Value = v
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ToCSV exports records as CSV
func ToCSV(w io.Writer, records []model.TranscriptRecord) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := csvWriter.Write(row(r)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// ToJSON exports records as an indented JSON array
func ToJSON(w io.Writer, records []model.TranscriptRecord) error {
	if records == nil {
		records = []model.TranscriptRecord{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}
