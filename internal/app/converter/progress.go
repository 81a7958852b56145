package converter

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// Progress renders bars for batch runs. A disabled Progress hands out no-op bars.
type Progress struct {
	container *mpb.Progress
	mu        sync.Mutex
}

// ProgressBar counts finished files.
type ProgressBar struct {
	bar *mpb.Bar
}

func NewProgress(config ProgressConfig) *Progress {
	if !config.Enabled {
		return &Progress{}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	return &Progress{
		container: mpb.New(
			mpb.WithOutput(writer),
			mpb.WithRefreshRate(120*time.Millisecond),
		),
	}
}

func (p *Progress) AddBar(total int, description string) *ProgressBar {
	if p == nil || p.container == nil {
		return &ProgressBar{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bar := p.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " done",
			),
		),
	)
	return &ProgressBar{bar: bar}
}

// Increment marks one file finished; elapsed feeds the ETA estimate.
func (b *ProgressBar) Increment(elapsed time.Duration) {
	if b != nil && b.bar != nil {
		b.bar.EwmaIncrement(elapsed)
	}
}

// Abort drops the bar, e.g. when the batch is cancelled.
func (b *ProgressBar) Abort() {
	if b != nil && b.bar != nil {
		b.bar.Abort(false)
	}
}

// Wait blocks until every bar has completed or aborted.
func (p *Progress) Wait() {
	if p != nil && p.container != nil {
		p.container.Wait()
	}
}

// IsTTY reports whether writer is a character device.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok || file == nil {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// ShouldShowProgress enables bars when forced or when stderr is a terminal.
func ShouldShowProgress(forced bool) bool {
	return forced || IsTTY(os.Stderr)
}
