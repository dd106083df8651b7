// file: internals/features/finance/payments/controller/gateway_event_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/dto"
	"sekolahku_backend/internals/features/finance/payments/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/*
	Staff-facing audit view over the webhook ledger. Rows are never edited
	from here; orphans are what manual follow-up starts from.
*/

type GatewayEventController struct {
	DB *gorm.DB
}

func NewGatewayEventController(db *gorm.DB) *GatewayEventController {
	return &GatewayEventController{DB: db}
}

// GET /payment-gateway-events?provider=&status=&orphan=&q=&start=&end=
func (h *GatewayEventController) ListEvents(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	db := h.DB.Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_school_id = ? OR gateway_event_school_id IS NULL", schoolID)

	if p := strings.TrimSpace(c.Query("provider")); p != "" {
		db = db.Where("gateway_event_provider = ?", strings.ToLower(p))
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		db = db.Where("gateway_event_status = ?", strings.ToLower(s))
	}
	if o := strings.TrimSpace(c.Query("orphan")); o != "" {
		db = db.Where("gateway_event_orphan = ?", o == "true" || o == "1")
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		db = db.Where(`
			COALESCE(gateway_event_external_id,'') ILIKE ?
			OR COALESCE(gateway_event_external_ref,'') ILIKE ?
		`, like, like)
	}
	if start := strings.TrimSpace(c.Query("start")); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "invalid start (use RFC3339)")
		}
		db = db.Where("gateway_event_received_at >= ?", t)
	}
	if end := strings.TrimSpace(c.Query("end")); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "invalid end (use RFC3339)")
		}
		db = db.Where("gateway_event_received_at < ?", t)
	}

	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.PaymentGatewayEventModel
	if err := db.Order("gateway_event_received_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]*dto.GatewayEventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromGatewayEventModel(&rows[i]))
	}

	return helper.Success(c, "OK", fiber.Map{
		"items":      out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

// GET /payment-gateway-events/:id
func (h *GatewayEventController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var m model.PaymentGatewayEventModel
	if err := h.DB.
		Where("gateway_event_id = ? AND (gateway_event_school_id = ? OR gateway_event_school_id IS NULL)", id, schoolID).
		Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "event not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", dto.FromGatewayEventModel(&m))
}
