package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Resource is released after the HTTP server stops, in registration order.
type Resource struct {
	Name    string
	Release func(ctx context.Context) error
}

type Server struct {
	http      *http.Server
	cfg       ServerConfig
	audit     AuditLogger
	resources []Resource
	logger    *zap.Logger
}

func NewServer(handler http.Handler, cfg ServerConfig, audit AuditLogger, logger ...*zap.Logger) *Server {
	l := zap.L().Named("http.server")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("http.server")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Server{
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg:    cfg,
		audit:  audit,
		logger: l,
	}
}

// OnShutdown registers resources such as the roster subscription and the connection pools.
func (s *Server) OnShutdown(resources ...Resource) {
	s.resources = append(s.resources, resources...)
}

// Run listens on the configured port until ctx is done. Resources are released even when the
// port cannot be bound.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		s.shutdown()
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is done, then drains in-flight requests and releases
// every registered resource. Live roster streams end with the shutdown context.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.http.BaseContext = func(net.Listener) context.Context { return ctx }

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server running", zap.String("addr", ln.Addr().String()))
		serveErr <- s.http.Serve(ln)
	}()

	var runErr error
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		s.logger.Info("shutdown signal received", zap.Error(context.Cause(ctx)))
	}

	s.shutdown()
	return runErr
}

func (s *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.audit.Log(ctx, AuditLog{
		Action:  AuditServerShutdown,
		Message: "Server is shutting down",
		Meta:    map[string]any{"resources": len(s.resources)},
	})

	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("forced shutdown", zap.Error(err))
	} else {
		s.logger.Info("server exited gracefully")
	}

	for _, r := range s.resources {
		err := r.Release(ctx)
		meta := map[string]any{"resource": r.Name}
		if err != nil {
			meta["error"] = err.Error()
			s.logger.Warn("release failed", zap.String("resource", r.Name), zap.Error(err))
		}
		s.audit.Log(ctx, AuditLog{
			Action:  AuditResourceRelease,
			Message: "Released " + r.Name,
			Meta:    meta,
		})
	}
}
