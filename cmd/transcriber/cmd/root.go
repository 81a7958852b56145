package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"audio-transcriber/cmd/transcriber/cmd/export"
	"audio-transcriber/cmd/transcriber/cmd/fetch"
	"audio-transcriber/cmd/transcriber/cmd/migrate"
	"audio-transcriber/cmd/transcriber/cmd/serve"
	"audio-transcriber/cmd/transcriber/cmd/shared"
	"audio-transcriber/cmd/transcriber/cmd/transcribe"
	"audio-transcriber/cmd/transcriber/cmd/version"
	"audio-transcriber/cmd/transcriber/cmd/worker"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transcriber",
	Short: "Turn audio recordings into plain-text transcripts",
	Long: `Turn audio recordings into plain-text transcripts.

- Uploads are resampled to 16 kHz mono WAV with ffmpeg
- A captioner produces a WebVTT track, which is reduced to plain text
- Transcripts are stored and recorded; intermediate files are always removed`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(fetch.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(migrate.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&shared.ConfigPath, "config", "c", "", "YAML config file; environment variables override it")
	rootCmd.PersistentFlags().BoolVarP(&shared.Verbose, "verbose", "V", false, "verbose output")
}
