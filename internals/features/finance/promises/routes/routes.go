// file: internals/features/finance/promises/routes/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	promiseController "sekolahku_backend/internals/features/finance/promises/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := promiseController.NewPromiseController(db)
	grp := r.Group("/payment-promises")
	grp.Post("/", ctrl.CreatePromise)
	grp.Get("/", ctrl.ListPromises)
	grp.Get("/expired", ctrl.ListExpired)
	grp.Post("/:id/cancel", ctrl.CancelPromise)
	grp.Post("/:id/break", ctrl.BreakPromise)
}
