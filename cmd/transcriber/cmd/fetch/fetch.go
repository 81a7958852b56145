package fetch

import (
	"github.com/spf13/cobra"

	"audio-transcriber/cmd/transcriber/cmd/shared"
)

// Cmd represents the fetch command
var Cmd = &cobra.Command{
	Use:   "fetch <job-id>",
	Short: "Print the transcript of a stored job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := shared.Bootstrap(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer cleanup()

		text, err := application.Orchestrator.Transcript(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(text, '\n'))
		return err
	},
}
