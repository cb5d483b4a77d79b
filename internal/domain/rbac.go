package domain

const (
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"
)

// RoleFor maps the account flag to the role carried in tokens and policies.
func RoleFor(isHR bool) string {
	if isHR {
		return RoleHR
	}
	return RoleEmployee
}

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}
