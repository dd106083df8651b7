// file: internals/features/finance/tariffs/routes/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tariffController "sekolahku_backend/internals/features/finance/tariffs/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := tariffController.NewTariffController(db)
	grp := r.Group("/tariffs")
	grp.Post("/", ctrl.CreateTariff)
	grp.Get("/", ctrl.ListTariffs)
	grp.Get("/:id", ctrl.GetByID)
	grp.Patch("/:id", ctrl.UpdateTariff)
	grp.Delete("/:id", ctrl.DeleteTariff)
}
