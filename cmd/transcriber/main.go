package main

import (
	"fmt"
	"os"

	"audio-transcriber/cmd/transcriber/cmd"
	"audio-transcriber/internal/config"

	// Import captioners to register them
	_ "audio-transcriber/internal/app/api/openai/whisper"
	_ "audio-transcriber/internal/app/api/whisper_cpp"
)

func main() {
	// A missing .env is fine; variables may be set system-wide
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}
