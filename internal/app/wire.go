//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"audio-transcriber/internal/config"
)

// InitializeApp wires the pipeline from cfg. The returned func releases
// database and registry connections.
func InitializeApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
