package cli

import (
	"context"
	"time"

	"github.com/rinov1/WorkWave/internal/app"
	"github.com/rinov1/WorkWave/internal/attendance"
	"github.com/rinov1/WorkWave/internal/config"
	"github.com/rinov1/WorkWave/internal/shared/connection"

	"go.uber.org/zap"
)

const rosterWaitTimeout = 10 * time.Second

type RosterResyncer interface {
	ResyncRoster(ctx context.Context) (int, error)
}

// Backend opens the services a command needs. Every returned release func must be called.
type Backend interface {
	MigrateUp(ctx context.Context) error
	MigrateDown(ctx context.Context, steps int) error
	Roster(ctx context.Context) (RosterResyncer, func(), error)
	// Attendance waits for the first live roster delivery when withRoster is set.
	Attendance(ctx context.Context, withRoster bool) (attendance.Service, func(), error)
	Location() *time.Location
}

type appBackend struct {
	cfg    config.Config
	logger *zap.Logger
}

func NewAppBackend(cfg config.Config, logger *zap.Logger) Backend {
	return &appBackend{cfg: cfg, logger: logger}
}

func (b *appBackend) Location() *time.Location {
	if b.cfg.Location == nil {
		return time.Local
	}
	return b.cfg.Location
}

func (b *appBackend) MigrateUp(_ context.Context) error {
	in, err := app.ConnectDB(b.cfg)
	if err != nil {
		return err
	}
	defer in.Close()
	return connection.RunMigrations(in.GormDB)
}

func (b *appBackend) MigrateDown(_ context.Context, steps int) error {
	in, err := app.ConnectDB(b.cfg)
	if err != nil {
		return err
	}
	defer in.Close()
	return connection.RollbackMigrations(in.GormDB, steps)
}

func (b *appBackend) services() (*app.Infra, *app.Services, error) {
	in, err := app.Connect(b.cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.NewServices(in, b.logger)
	if err != nil {
		in.Close()
		return nil, nil, err
	}
	return in, svc, nil
}

func (b *appBackend) Roster(_ context.Context) (RosterResyncer, func(), error) {
	in, svc, err := b.services()
	if err != nil {
		return nil, nil, err
	}
	return svc.Employee, in.Close, nil
}

func (b *appBackend) Attendance(ctx context.Context, withRoster bool) (attendance.Service, func(), error) {
	in, svc, err := b.services()
	if err != nil {
		return nil, nil, err
	}
	release := in.Close
	if !withRoster {
		return svc.Attendance, release, nil
	}

	if err := svc.Roster.Start(ctx); err != nil {
		release()
		return nil, nil, err
	}
	release = func() {
		svc.Roster.Stop()
		in.Close()
	}

	waitCtx, cancel := context.WithTimeout(ctx, rosterWaitTimeout)
	defer cancel()
	if err := svc.Roster.AwaitSnapshot(waitCtx); err != nil {
		release()
		return nil, nil, err
	}
	return svc.Attendance, release, nil
}
