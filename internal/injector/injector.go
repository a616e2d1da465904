//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/flockbeat/internal/config"
	"github.com/zeusync/flockbeat/internal/controller"
)

func InitializeApp(cfg *config.Config, renderer controller.Renderer) (*App, func(), error) {
	wire.Build(Set)
	return nil, nil, nil
}
