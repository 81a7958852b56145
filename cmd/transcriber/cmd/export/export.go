package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio-transcriber/cmd/transcriber/cmd/shared"
	recordexport "audio-transcriber/internal/app/converter/export"
	"audio-transcriber/internal/app/model"
)

var (
	outputPath string
	format     string
	limit      int
)

func init() {
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "File to write; \"-\" writes to stdout")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "xlsx, csv or json; defaults to the output file extension, else xlsx")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Export at most this many records, newest first (0 = all)")

	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export transcript records to Excel, CSV or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := shared.Bootstrap(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := application.Orchestrator.Transcripts(cmd.Context(), limit)
		if err != nil {
			return err
		}

		f := resolveFormat(format, outputPath)
		if outputPath == "-" {
			return recordexport.Write(cmd.OutOrStdout(), f, records)
		}

		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outputPath, err)
		}
		if err := writeAndClose(file, f, records); err != nil {
			return err
		}

		application.Logger.Info("Exported transcripts",
			zap.String("path", outputPath),
			zap.String("format", f),
			zap.Int("records", len(records)))
		return nil
	},
}

func writeAndClose(file io.WriteCloser, format string, records []model.TranscriptRecord) error {
	if err := recordexport.Write(file, format, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func resolveFormat(flag, path string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case recordexport.FormatCSV, recordexport.FormatJSON, recordexport.FormatXLSX:
		return ext
	}
	return recordexport.FormatXLSX
}
