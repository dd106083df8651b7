package constants

// Role slugs as they appear in JWT school_roles / roles_global claims.
const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleTreasurer = "treasurer"
	RoleTeacher   = "teacher"
	RoleStudent   = "student"
	RoleUser      = "user"
)

// AdminTier may override the debt gate on its own authority (audited).
var AdminTier = []string{RoleOwner, RoleAdmin}

// StaffTier may override the gate only together with a payment promise.
var StaffTier = []string{RoleOwner, RoleAdmin, RoleTreasurer, RoleTeacher}

// FinanceTier manages tariffs, payments and promises.
var FinanceTier = []string{RoleOwner, RoleAdmin, RoleTreasurer}
