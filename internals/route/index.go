// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/constants"
	"sekolahku_backend/internals/features/finance/payments/gateway"
	paymentRoutes "sekolahku_backend/internals/features/finance/payments/routes"
	promiseRoutes "sekolahku_backend/internals/features/finance/promises/routes"
	tariffRoutes "sekolahku_backend/internals/features/finance/tariffs/routes"
	enrollmentRoutes "sekolahku_backend/internals/features/school/enrollments/routes"
	helperAuth "sekolahku_backend/internals/helpers/auth"
	"sekolahku_backend/internals/helpers/notifier"
	"sekolahku_backend/internals/middlewares"
	schoolMiddleware "sekolahku_backend/internals/middlewares/auth_school"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, reg *gateway.Registry) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PUBLIC =====================
	// Provider webhooks: no JWT, their own signature check, own rate budget.
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public", middlewares.WebhookRateLimiter())
	paymentRoutes.PublicRoutes(public, db, reg, notifier.Default)

	// ===================== ADMIN (per school) =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + Blacklist + RoleCheck)...")
	admin := app.Group("/api/a",
		middlewares.DBMiddleware(db),
		helperAuth.MiddlewareBlacklistOnly(db, configs.JWTSecret),
		schoolMiddleware.AuthJWT(schoolMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	// Finance surfaces need a finance-tier role; enrollment is open to all
	// staff tiers — the debt gate itself decides who may override.
	finance := admin.Group("/", schoolMiddleware.RequireSchoolRole(constants.FinanceTier...))
	log.Println("[INFO] Mounting Finance routes...")
	tariffRoutes.AdminRoutes(finance, db)
	paymentRoutes.AdminRoutes(finance, db, reg)
	promiseRoutes.AdminRoutes(finance, db)

	staff := admin.Group("/", schoolMiddleware.RequireSchoolRole(constants.StaffTier...))
	log.Println("[INFO] Mounting School routes...")
	enrollmentRoutes.AdminRoutes(staff, db)
}
