// file: internals/helpers/auth/token_blacklist.go
package helperAuth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
   Durable, shared token blacklist. Revocations live in the same Postgres the
   payment tables use, so they hold across every service instance — an
   in-process set would not.

   Schema: token_blacklist(token TEXT unique, expired_at, deleted_at)
   The stored value is HMAC(raw token) so the blacklist itself never holds a
   usable credential.
*/

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

func getRawAccessToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

// BlacklistAdd stores HMAC(access token) with its expiry.
func BlacklistAdd(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return nil
	}
	tokenHex := hmacHex(rawAccessToken, jwtSecret)
	return db.WithContext(ctx).Exec(`
		INSERT INTO token_blacklist (token, expired_at)
		VALUES (?, ?)
		ON CONFLICT (token) DO UPDATE
		SET expired_at = EXCLUDED.expired_at,
		    deleted_at = NULL
	`, tokenHex, expiresAt).Error
}

// IsBlacklisted: active, unexpired row exists?
func IsBlacklisted(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string) (bool, error) {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return false, nil
	}
	tokenHex := hmacHex(rawAccessToken, jwtSecret)
	var exists bool
	err := db.WithContext(ctx).Raw(`
		SELECT EXISTS (
		  SELECT 1
		  FROM token_blacklist
		  WHERE token = ?
		    AND deleted_at IS NULL
		    AND expired_at > NOW()
		)
	`, tokenHex).Scan(&exists).Error
	return exists, err
}

// PurgeExpired removes rows past expiry (run from a scheduler).
func PurgeExpired(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(`DELETE FROM token_blacklist WHERE expired_at <= NOW()`).Error
}

// MiddlewareBlacklistOnly rejects revoked tokens. Mount in front of the JWT
// middleware.
func MiddlewareBlacklistOnly(db *gorm.DB, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := getRawAccessToken(c)
		if strings.TrimSpace(raw) == "" {
			return c.Next()
		}
		bl, err := IsBlacklisted(c.Context(), db, raw, jwtSecret)
		if err == nil && bl {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Session has been revoked. Please log in again.",
			})
		}
		return c.Next()
	}
}
