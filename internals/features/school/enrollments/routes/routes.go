// file: internals/features/school/enrollments/routes/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollmentController "sekolahku_backend/internals/features/school/enrollments/controller"
	"sekolahku_backend/internals/helpers/notifier"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := enrollmentController.NewEnrollmentController(db, notifier.Default)
	grp := r.Group("/enrollments")
	grp.Post("/", ctrl.CreateEnrollment)
}
