//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/hvactwin/internal/app"
	"github.com/zeusync/hvactwin/internal/config"
)

// InitializeApp builds the whole twin from a loaded configuration.
func InitializeApp(cfg *config.Config) (*app.App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
