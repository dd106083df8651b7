package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helperAuth "sekolahku_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(rawToken string) (bool, error) // return true if blacklisted
	AllowCookieFallback bool                                // use cookie access_token when no Bearer header
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		// 1) Token from Authorization: Bearer xxx (or cookie when allowed)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Blacklist (optional)
		if o.BlacklistChecker != nil {
			if black, err := o.BlacklistChecker(raw); err == nil && black {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		// 3) Parse + verify signing method
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		c.Locals("jwt_claims", claims)

		// === HYDRATE LOCALS EXPECTED BY THE HELPERS ===

		if sid := strClaim(claims, "school_id"); sid != "" {
			c.Locals(helperAuth.LocActiveSchoolID, sid)
		} else if sid := strClaim(claims, "active_school_id"); sid != "" {
			c.Locals(helperAuth.LocActiveSchoolID, sid)
		}

		if uid := strClaim(claims, "sub"); uid != "" {
			c.Locals(helperAuth.LocUserID, uid)
		} else if uid := strClaim(claims, "user_id"); uid != "" {
			c.Locals(helperAuth.LocUserID, uid)
		}
		if un := strClaim(claims, "user_name"); un != "" {
			c.Locals(helperAuth.LocUserName, un)
		}

		if v, ok := claims["roles_global"]; ok {
			c.Locals(helperAuth.LocRolesGlobal, v)
		}
		if v, ok := claims["school_roles"]; ok {
			c.Locals(helperAuth.LocSchoolRoles, v)
		}

		return c.Next()
	}
}

// RequireSchoolRole guards a route group behind role tiers.
func RequireSchoolRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helperAuth.HasSchoolRole(c, roles...) {
			return fiber.NewError(fiber.StatusForbidden, "Insufficient role")
		}
		return c.Next()
	}
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
