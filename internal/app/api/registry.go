package api

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"audio-transcriber/internal/app/util/execx"
)

// CaptionerSettings carries everything a caption backend may need.
// Each backend reads only its own fields.
type CaptionerSettings struct {
	FFmpegPath  string
	FFprobePath string

	WhisperBinary   string
	WhisperModel    string
	WhisperLanguage string
	WhisperThreads  int

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAILang    string

	Runner execx.Runner
	Logger *zap.Logger
}

// CaptionerFactory builds a Captioner from settings.
type CaptionerFactory func(settings CaptionerSettings) (Captioner, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]CaptionerFactory)
)

// RegisterCaptioner makes a caption backend available by name.
// Backends register themselves from init.
func RegisterCaptioner(name string, factory CaptionerFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// NewCaptioner builds the named caption backend.
func NewCaptioner(name string, settings CaptionerSettings) (Captioner, error) {
	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("caption backend %q is not registered (available: %v)", name, Captioners())
	}
	if settings.Runner == nil {
		settings.Runner = execx.NewExecRunner()
	}
	if settings.Logger == nil {
		settings.Logger = zap.NewNop()
	}
	return factory(settings)
}

// Captioners lists registered backend names in order.
func Captioners() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := lo.Keys(factories)
	sort.Strings(names)
	return names
}
