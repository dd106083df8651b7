package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMw "sekolahku_backend/internals/middlewares/logger"
)

// SetupMiddlewares mounts the base middleware chain.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMw.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
