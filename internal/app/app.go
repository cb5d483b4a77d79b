package app

import (
	"context"

	"github.com/rinov1/WorkWave/internal/bootstrap"
	"github.com/rinov1/WorkWave/internal/config"
	"github.com/rinov1/WorkWave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure, applies migrations, starts the roster subscription and
// registers every route. The returned resources are released by the server on shutdown, roster
// subscription first.
func BuildApp(router *gin.Engine, cfg config.Config) ([]bootstrap.Resource, error) {
	logger := zap.L()

	in, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database and redis connections established")

	if err := connection.RunMigrations(in.GormDB); err != nil {
		in.Close()
		return nil, err
	}

	svc, err := NewServices(in, logger)
	if err != nil {
		in.Close()
		return nil, err
	}

	if err := svc.Roster.Start(context.Background()); err != nil {
		in.Close()
		return nil, err
	}

	registerModules(router, in, svc, logger)

	return []bootstrap.Resource{
		{
			Name: "roster subscription",
			Release: func(context.Context) error {
				svc.Roster.Stop()
				return nil
			},
		},
		{
			Name: "connections",
			Release: func(context.Context) error {
				in.Close()
				return nil
			},
		},
	}, nil
}
