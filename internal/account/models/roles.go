package models

// Role levels rank privilege; higher values are more privileged. The
// request gate compares these against the route access table, and the
// notification dispatcher uses a configured threshold to pick
// administrator recipients.
const (
	LevelCollaborator  = 1
	LevelOperator      = 2
	LevelManager       = 3
	LevelCompanyAdmin  = 4
	LevelReviewer      = 5
	LevelPlatformAdmin = 6
	LevelSuperAdmin    = 7
)

// Role names the privilege tier carried by an account.
type Role string

const (
	RoleCollaborator  Role = "collaborator"
	RoleOperator      Role = "pde_operator"
	RoleManager       Role = "pde_manager"
	RoleCompanyAdmin  Role = "company_admin"
	RoleReviewer      Role = "reviewer"
	RolePlatformAdmin Role = "platform_admin"
	RoleSuperAdmin    Role = "superadmin"
)

var roleLevels = map[Role]int{
	RoleCollaborator:  LevelCollaborator,
	RoleOperator:      LevelOperator,
	RoleManager:       LevelManager,
	RoleCompanyAdmin:  LevelCompanyAdmin,
	RoleReviewer:      LevelReviewer,
	RolePlatformAdmin: LevelPlatformAdmin,
	RoleSuperAdmin:    LevelSuperAdmin,
}

// Level returns the ordinal level for the role, or 0 for unknown roles so
// an unrecognized role never passes a level check.
func (r Role) Level() int {
	return roleLevels[r]
}

// IsValid reports whether the role is one of the known tiers.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}
