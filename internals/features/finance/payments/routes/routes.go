// file: internals/features/finance/payments/routes/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "sekolahku_backend/internals/features/finance/payments/controller"
	"sekolahku_backend/internals/features/finance/payments/gateway"
	"sekolahku_backend/internals/helpers/notifier"
)

// PublicRoutes: provider webhooks. No auth — authenticity is proven per
// notification by the gateway's own signature scheme.
func PublicRoutes(r fiber.Router, db *gorm.DB, reg *gateway.Registry, n notifier.Notifier) {
	wh := paymentController.NewWebhookController(db, reg, n)
	grp := r.Group("/payments/webhooks")
	grp.Get("/:provider", wh.Ping)
	grp.Post("/:provider", wh.HandleNotification)
}

// AdminRoutes: staff payment management + ledger audit (mounted behind JWT +
// finance-role guard by the route index).
func AdminRoutes(r fiber.Router, db *gorm.DB, reg *gateway.Registry) {
	pc := paymentController.NewPaymentController(db, reg)
	pr := r.Group("/payments")
	pr.Post("/", pc.CreatePayment)
	pr.Get("/", pc.ListPayments)
	pr.Get("/:id", pc.GetByID)

	ec := paymentController.NewGatewayEventController(db)
	er := r.Group("/payment-gateway-events")
	er.Get("/", ec.ListEvents)
	er.Get("/:id", ec.GetByID)
}
