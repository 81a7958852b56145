package testutil

import (
	"context"
	"os"
	"sync"
	"time"
)

// SampleCaptions is a minimal caption track whose transcript is "Hello world".
const SampleCaptions = "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nHello world\n"

// FakeToolchain implements api.Toolchain by writing canned outputs.
type FakeToolchain struct {
	mu sync.Mutex

	// Configuration options
	Waveform    string
	Captions    string
	ResampleErr error
	CaptionErr  error
	// PartialOutput makes failing calls write their output before failing.
	PartialOutput bool
	Latency       time.Duration
	// FailFirst fails that many caption calls before succeeding.
	FailFirst int
	// NotNormalized makes IsNormalizedWav reject every waveform.
	NotNormalized bool
	InspectErr    error
	// DurationSeconds is what GetAudioDuration reports.
	DurationSeconds int

	// State tracking
	ResampleCalls []string
	CaptionCalls  []string
	active        int
	MaxActive     int
}

// NewFakeToolchain creates a toolchain that succeeds with SampleCaptions.
func NewFakeToolchain() *FakeToolchain {
	return &FakeToolchain{
		Waveform:        "RIFF\x00\x00\x00\x00WAVEfmt ",
		Captions:        SampleCaptions,
		DurationSeconds: 1,
	}
}

func (f *FakeToolchain) Name() string {
	return "fake"
}

// Resample implements api.Resampler.
func (f *FakeToolchain) Resample(ctx context.Context, inputPath, outputPath string) error {
	f.mu.Lock()
	f.ResampleCalls = append(f.ResampleCalls, inputPath)
	err := f.ResampleErr
	f.mu.Unlock()

	return f.invoke(ctx, outputPath, f.Waveform, err)
}

// IsNormalizedWav implements api.WaveformInspector.
func (f *FakeToolchain) IsNormalizedWav(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InspectErr != nil {
		return false, f.InspectErr
	}
	return !f.NotNormalized, nil
}

// GetAudioDuration implements api.WaveformInspector.
func (f *FakeToolchain) GetAudioDuration(ctx context.Context, path string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InspectErr != nil {
		return 0, f.InspectErr
	}
	return f.DurationSeconds, nil
}

// GenerateCaptions implements api.Captioner.
func (f *FakeToolchain) GenerateCaptions(ctx context.Context, waveformPath, outputPath string) error {
	f.mu.Lock()
	f.CaptionCalls = append(f.CaptionCalls, waveformPath)
	err := f.CaptionErr
	if err == nil && f.FailFirst > 0 {
		f.FailFirst--
		err = errTransient
	}
	f.mu.Unlock()

	return f.invoke(ctx, outputPath, f.Captions, err)
}

// CaptionCallCount returns how many times GenerateCaptions ran.
func (f *FakeToolchain) CaptionCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.CaptionCalls)
}

func (f *FakeToolchain) invoke(ctx context.Context, outputPath, content string, err error) error {
	f.mu.Lock()
	f.active++
	if f.active > f.MaxActive {
		f.MaxActive = f.active
	}
	latency := f.Latency
	partial := f.PartialOutput
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err != nil {
		if partial {
			_ = os.WriteFile(outputPath, []byte("partial"), 0o644)
		}
		return err
	}
	return os.WriteFile(outputPath, []byte(content), 0o644)
}

type transientError struct{}

func (transientError) Error() string { return "transient tool failure" }

var errTransient error = transientError{}
