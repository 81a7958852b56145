package audio

import "audio-transcriber/internal/app/api"

func init() {
	api.RegisterCaptioner("ffmpeg", func(s api.CaptionerSettings) (api.Captioner, error) {
		return NewFFmpeg(s.FFmpegPath, s.FFprobePath, s.Runner, s.Logger), nil
	})
}
