package whisper_cpp

import (
	"fmt"

	"audio-transcriber/internal/app/api"
)

func init() {
	api.RegisterCaptioner("whisper_cpp", createWhisperCppCaptioner)
}

// createWhisperCppCaptioner validates the settings whisper.cpp cannot run without.
func createWhisperCppCaptioner(s api.CaptionerSettings) (api.Captioner, error) {
	if s.WhisperBinary == "" {
		return nil, fmt.Errorf("whisper_cpp captioner requires a binary path")
	}
	if s.WhisperModel == "" {
		return nil, fmt.Errorf("whisper_cpp captioner requires a model path")
	}
	return NewLocalCaptioner(s.WhisperBinary, s.WhisperModel, s.WhisperLanguage, s.WhisperThreads, s.Runner, s.Logger), nil
}
