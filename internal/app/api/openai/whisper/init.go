package whisper

import (
	"fmt"

	"audio-transcriber/internal/app/api"
	client "audio-transcriber/internal/app/api/openai"
)

func init() {
	api.RegisterCaptioner("openai", createOpenAICaptioner)
}

func createOpenAICaptioner(s api.CaptionerSettings) (api.Captioner, error) {
	if s.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai captioner requires an API key")
	}
	return NewRemoteCaptioner(client.NewClient(s.OpenAIAPIKey, s.OpenAIBaseURL), s.OpenAIModel, s.OpenAILang, s.Logger), nil
}
