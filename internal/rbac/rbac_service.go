package rbac

import (
	"sync"

	"github.com/rinov1/WorkWave/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const (
	ResourceAttendance = "attendance"
	ResourceProfile    = "profile"
	ResourceRoster     = "roster"
	ResourceEmployee   = "employee"
	ResourceSummary    = "summary"

	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionReadAll = "read_all"
)

type Permission struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPermissions is the static policy. HR additionally inherits every EMPLOYEE permission.
var DefaultPermissions = []Permission{
	{domain.RoleEmployee, ResourceAttendance, ActionCreate},
	{domain.RoleEmployee, ResourceAttendance, ActionRead},
	{domain.RoleEmployee, ResourceProfile, ActionRead},
	{domain.RoleEmployee, ResourceProfile, ActionUpdate},
	{domain.RoleEmployee, ResourceRoster, ActionRead},
	{domain.RoleEmployee, ResourceSummary, ActionRead},

	{domain.RoleHR, ResourceEmployee, ActionCreate},
	{domain.RoleHR, ResourceEmployee, ActionRead},
	{domain.RoleHR, ResourceEmployee, ActionUpdate},
	{domain.RoleHR, ResourceEmployee, ActionDelete},
	{domain.RoleHR, ResourceSummary, ActionReadAll},
}

type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewService loads permissions into enforcer and makes HR inherit EMPLOYEE.
func NewService(enforcer *casbin.Enforcer, permissions []Permission, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer.ClearPolicy()
	for _, p := range permissions {
		if _, err := enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return nil, err
		}
	}
	if _, err := enforcer.AddGroupingPolicy(domain.RoleHR, domain.RoleEmployee); err != nil {
		return nil, err
	}
	l.Debug("rbac policy loaded", zap.Int("permissions", len(permissions)))

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Warn("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
