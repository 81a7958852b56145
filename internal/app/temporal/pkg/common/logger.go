package common

import (
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

// ZapAdapter routes Temporal SDK logs into zap.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

var _ log.WithLogger = (*ZapAdapter)(nil)

// NewZapAdapter wraps logger; nil logs nowhere.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAdapter{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (a *ZapAdapter) Debug(msg string, keyvals ...interface{}) { a.sugar.Debugw(msg, keyvals...) }
func (a *ZapAdapter) Info(msg string, keyvals ...interface{})  { a.sugar.Infow(msg, keyvals...) }
func (a *ZapAdapter) Warn(msg string, keyvals ...interface{})  { a.sugar.Warnw(msg, keyvals...) }
func (a *ZapAdapter) Error(msg string, keyvals ...interface{}) { a.sugar.Errorw(msg, keyvals...) }

// With returns a logger carrying keyvals on every entry.
func (a *ZapAdapter) With(keyvals ...interface{}) log.Logger {
	return &ZapAdapter{sugar: a.sugar.With(keyvals...)}
}
