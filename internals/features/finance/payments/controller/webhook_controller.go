// file: internals/features/finance/payments/controller/webhook_controller.go
package controller

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/gateway"
	"sekolahku_backend/internals/features/finance/payments/model"
	"sekolahku_backend/internals/features/finance/payments/service"
	"sekolahku_backend/internals/helpers/notifier"
)

type WebhookController struct {
	DB         *gorm.DB
	Registry   *gateway.Registry
	Ledger     *service.Ledger
	Reconciler *service.Reconciler
}

func NewWebhookController(db *gorm.DB, reg *gateway.Registry, n notifier.Notifier) *WebhookController {
	return &WebhookController{
		DB:         db,
		Registry:   reg,
		Ledger:     service.NewLedger(db),
		Reconciler: service.NewReconciler(db, n),
	}
}

/*
	POST /payments/webhooks/:provider

	Contract with providers: 200 = accepted and processed, 401 = verification
	failed, 500 = internal error (providers retry on non-2xx). The ledger row
	is written before anything else, so a crash or timeout mid-processing
	leaves a replayable `received` record instead of a silent drop.
*/
func (h *WebhookController) HandleNotification(c *fiber.Ctx) error {
	providerName := strings.ToLower(strings.TrimSpace(c.Params("provider")))
	gw, ok := h.Registry.ForProvider(providerName)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown provider")
	}
	provider := gw.Provider()

	rawBody := c.Body()
	var body map[string]any
	if err := c.BodyParser(&body); err != nil || body == nil {
		// Still unverifiable garbage: ledger it, reject it.
		body = map[string]any{}
	}

	headers := map[string]string{}
	c.Request().Header.VisitAll(func(k, v []byte) {
		headers[strings.ToLower(string(k))] = string(v)
	})

	ids := gw.ExtractIdentifiers(body)

	headerJSON, _ := json.Marshal(headers)
	eventID, err := h.Ledger.Append(c.UserContext(), provider, ids, headerJSON, rawBody)
	if err != nil {
		log.Printf("[ERROR] ledger append %s: %v", provider, err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	verdict := gw.Verify(headers, body, rawBody)
	if !verdict.OK {
		// Classified outcome, not an exception: ledger row flips to failed
		// and the caller learns nothing about internal state.
		if err := h.Ledger.MarkFailed(c.UserContext(), eventID, "verification failed: "+verdict.Reason); err != nil {
			log.Printf("[ERROR] mark event %s failed: %v", eventID, err)
		}
		log.Printf("[WARN] unverified %s notification rejected event=%s reason=%s", provider, eventID, verdict.Reason)
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if verdict.TrustDowngrade {
		log.Printf("[WARN] TRUST DOWNGRADE: %s notification accepted unverified event=%s (%s)", provider, eventID, verdict.Reason)
	}

	canonical := service.Canonicalize(provider, ids.RawStatus)

	result, err := h.Reconciler.Reconcile(c.UserContext(), provider, ids, canonical)
	if err != nil {
		if mErr := h.Ledger.MarkFailed(c.UserContext(), eventID, err.Error()); mErr != nil {
			log.Printf("[ERROR] mark event %s failed: %v", eventID, mErr)
		}
		log.Printf("[ERROR] reconcile %s event=%s: %v", provider, eventID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	opts := service.ProcessedOpts{Orphan: !result.Matched}
	if result.Payment != nil {
		opts.SchoolID = &result.Payment.PaymentSchoolID
		opts.PaymentID = &result.Payment.PaymentID
	}
	if err := h.Ledger.MarkProcessed(c.UserContext(), eventID, opts); err != nil {
		log.Printf("[ERROR] mark event %s processed: %v", eventID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Ping lets providers validate the endpoint during onboarding.
func (h *WebhookController) Ping(c *fiber.Ctx) error {
	if !model.IsKnownProvider(strings.ToLower(c.Params("provider"))) {
		return fiber.NewError(fiber.StatusNotFound, "unknown provider")
	}
	return c.SendStatus(fiber.StatusOK)
}
