// file: internals/helpers/auth/claims.go
package helperAuth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (middleware should set these)
   ============================================ */

const (
	LocUserID         = "user_id"          // string UUID
	LocUserName       = "user_name"        // string
	LocRolesGlobal    = "roles_global"     // []string
	LocSchoolRoles    = "school_roles"     // []string (roles in the active school)
	LocActiveSchoolID = "active_school_id" // string UUID
)

/* ============================================
   Extractors
   ============================================ */

// GetSchoolIDFromToken returns the active school (tenant) id hydrated by the
// auth middleware. Every tenant-scoped query must filter on it.
func GetSchoolIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocActiveSchoolID).(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "school_id missing from token")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid school_id in token")
	}
	return id, nil
}

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocUserID).(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user_id missing from token")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user_id in token")
	}
	return id, nil
}

func rolesFromLocals(c *fiber.Ctx, key string) []string {
	switch v := c.Locals(key).(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, it := range v {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return strings.Split(v, ",")
	}
	return nil
}

// HasSchoolRole reports whether the caller holds any of the given roles in
// the active school (global roles count too).
func HasSchoolRole(c *fiber.Ctx, wanted ...string) bool {
	have := append(rolesFromLocals(c, LocSchoolRoles), rolesFromLocals(c, LocRolesGlobal)...)
	for _, h := range have {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, w := range wanted {
			if h == strings.ToLower(w) {
				return true
			}
		}
	}
	return false
}
