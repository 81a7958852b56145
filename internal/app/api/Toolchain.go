package api

import "context"

// Resampler turns an arbitrary input audio file into the normalized
// 16 kHz mono waveform at outputPath.
type Resampler interface {
	Resample(ctx context.Context, inputPath, outputPath string) error
}

// WaveformInspector checks a waveform the resampler produced.
type WaveformInspector interface {
	IsNormalizedWav(ctx context.Context, path string) (bool, error)
	GetAudioDuration(ctx context.Context, path string) (int, error)
}

// AudioProcessor resamples inputs and can inspect what it wrote.
type AudioProcessor interface {
	Resampler
	WaveformInspector
}

// Captioner turns a waveform into a WebVTT caption track at outputPath.
// Implementations report failure through the returned error; callers also
// verify that outputPath exists afterwards.
type Captioner interface {
	GenerateCaptions(ctx context.Context, waveformPath, outputPath string) error
	Name() string
}

// Toolchain is the external audio/caption capability the pipeline needs.
type Toolchain interface {
	AudioProcessor
	Captioner
}

type toolchain struct {
	AudioProcessor
	Captioner
}

// Combine pairs an audio processor with a captioner from a different backend.
func Combine(a AudioProcessor, c Captioner) Toolchain {
	return toolchain{AudioProcessor: a, Captioner: c}
}
