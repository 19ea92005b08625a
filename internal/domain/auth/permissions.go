package auth

import "context"

const (
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
	RoleHR       = "HR"

	UserStatusActive = "active"
)

const (
	PermPerformanceRead  = "performance.read"
	PermPerformanceWrite = "performance.write"
	PermAuditRead        = "audit.read"
)

var DefaultPermissions = []string{
	PermPerformanceRead,
	PermPerformanceWrite,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermPerformanceRead,
	},
	RoleManager: {
		PermPerformanceRead,
		PermPerformanceWrite,
	},
	RoleHR: {
		PermPerformanceRead,
		PermPerformanceWrite,
		PermAuditRead,
	},
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(ctx context.Context, roleName, permission string) (bool, error) {
	for _, perm := range RolePermissions[roleName] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}
