package app

import (
	"github.com/rinov1/WorkWave/internal/account"
	"github.com/rinov1/WorkWave/internal/attendance"
	"github.com/rinov1/WorkWave/internal/auth"
	"github.com/rinov1/WorkWave/internal/auth/token"
	"github.com/rinov1/WorkWave/internal/credential"
	"github.com/rinov1/WorkWave/internal/employee"
	"github.com/rinov1/WorkWave/internal/messaging/kafka"
	"github.com/rinov1/WorkWave/internal/middleware"
	"github.com/rinov1/WorkWave/internal/rbac"
	"github.com/rinov1/WorkWave/internal/rbac/infra"
	"github.com/rinov1/WorkWave/internal/roster"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services is the wired service graph shared by the API and the CLI.
type Services struct {
	Tokens     *token.Manager
	RBAC       rbac.Service
	Roster     *roster.Synchronizer
	Auth       auth.Service
	Attendance attendance.Service
	Employee   employee.Service
}

func NewServices(in *Infra, logger *zap.Logger) (*Services, error) {
	cfg := in.Config

	// --- Repositories ---
	accountRepo := account.NewRepository(in.GormDB)
	attendanceRepo := attendance.NewRepository(in.GormDB)
	employeeRepo := employee.NewRepository(in.GormDB)
	flagRepo := roster.NewFlagRepository(in.GormDB)
	outboxRepo := kafka.NewOutboxRepository(in.DB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService, err := rbac.NewService(enforcer, rbac.DefaultPermissions, logger)
	if err != nil {
		return nil, err
	}

	// --- Roster ---
	channel := roster.NewRedisChannel(in.Redis, roster.WithChannelLogger(logger.Named("roster.channel")))
	synchronizer := roster.NewSynchronizer(channel, flagRepo,
		roster.WithOutbox(outboxRepo),
		roster.WithLogger(logger.Named("roster.synchronizer")),
	)

	// --- Services ---
	tokens := token.NewManager(cfg.JWTSecret)
	authService := auth.NewService(
		in.DB,
		accountRepo,
		employeeRepo,
		credential.NewHasher(),
		tokens,
		employee.NewDirectoryCache(in.Redis, logger),
		auth.Bootstrap{Email: cfg.BootstrapHREmail, Password: cfg.BootstrapHRPassword},
		logger,
	)
	attendanceService := attendance.NewServiceWithOutbox(in.DB, attendanceRepo, synchronizer, outboxRepo, logger)
	employeeService := employee.NewService(in.DB, employeeRepo, accountRepo, synchronizer, in.Redis, logger)

	return &Services{
		Tokens:     tokens,
		RBAC:       rbacService,
		Roster:     synchronizer,
		Auth:       authService,
		Attendance: attendanceService,
		Employee:   employeeService,
	}, nil
}

func registerModules(router *gin.Engine, in *Infra, svc *Services, logger *zap.Logger) {
	cfg := in.Config

	// --- Handlers ---
	authHandler := auth.NewHandler(svc.Auth, cfg.IsProduction(), logger)
	attendanceHandler := attendance.NewHandler(svc.Attendance, cfg.Location, logger)
	employeeHandler := employee.NewHandler(svc.Employee, logger)
	rosterHandler := roster.NewHandler(svc.Roster, logger)

	router.Use(middleware.RequestID())

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, svc.Tokens)
		attendance.RegisterRoutes(api, attendanceHandler, svc.Tokens, svc.RBAC, in.Redis, logger)
		employee.RegisterRoutes(api, employeeHandler, svc.Tokens, svc.RBAC, logger)
		roster.RegisterRoutes(api, rosterHandler, svc.Tokens, svc.RBAC, logger)
	}
}
