package rbac

import (
	"testing"

	"github.com/rinov1/WorkWave/internal/domain"
	"github.com/rinov1/WorkWave/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	e, err := infra.NewEnforcer()
	require.NoError(t, err)

	svc, err := NewService(e, DefaultPermissions)
	require.NoError(t, err)
	return svc
}

func TestService_Enforce(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"employee clocks in", domain.RoleEmployee, ResourceAttendance, ActionCreate, true},
		{"employee reads roster", domain.RoleEmployee, ResourceRoster, ActionRead, true},
		{"employee cannot add to roster", domain.RoleEmployee, ResourceEmployee, ActionCreate, false},
		{"employee cannot read all summaries", domain.RoleEmployee, ResourceSummary, ActionReadAll, false},
		{"hr manages employees", domain.RoleHR, ResourceEmployee, ActionDelete, true},
		{"hr inherits attendance", domain.RoleHR, ResourceAttendance, ActionCreate, true},
		{"hr inherits profile update", domain.RoleHR, ResourceProfile, ActionUpdate, true},
		{"unknown role", "GUEST", ResourceRoster, ActionRead, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(domain.EnforceRequest{
				Role:     tc.role,
				Resource: tc.resource,
				Action:   tc.action,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
