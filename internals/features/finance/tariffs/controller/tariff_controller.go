// file: internals/features/finance/tariffs/controller/tariff_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
	"sekolahku_backend/internals/features/finance/tariffs/dto"
	"sekolahku_backend/internals/features/finance/tariffs/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

type TariffController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewTariffController(db *gorm.DB) *TariffController {
	return &TariffController{DB: db, validate: validator.New()}
}

// POST /tariffs
func (ctrl *TariffController) CreateTariff(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.CreateTariffRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	row := model.TariffModel{
		TariffSchoolID: schoolID,
		TariffName:     strings.TrimSpace(body.TariffName),
		TariffAmount:   body.TariffAmount,
		TariffCurrency: strings.ToUpper(body.TariffCurrency),
		TariffIsActive: true,
	}
	if err := ctrl.DB.Create(&row).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create tariff")
	}
	return helper.JsonCreated(c, "Tariff created", dto.FromTariffModel(&row))
}

// GET /tariffs?active=
func (ctrl *TariffController) ListTariffs(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	q := ctrl.DB.Model(&model.TariffModel{}).Where("tariff_school_id = ?", schoolID)
	if a := strings.TrimSpace(c.Query("active")); a != "" {
		q = q.Where("tariff_is_active = ?", a == "true" || a == "1")
	}

	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.TariffModel
	if err := q.Order("tariff_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]*dto.TariffResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromTariffModel(&rows[i]))
	}
	return helper.Success(c, "OK", fiber.Map{
		"items":      out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

// GET /tariffs/:id
func (ctrl *TariffController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var row model.TariffModel
	if err := ctrl.DB.
		Where("tariff_id = ? AND tariff_school_id = ?", id, schoolID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "tariff not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", dto.FromTariffModel(&row))
}

// PATCH /tariffs/:id
func (ctrl *TariffController) UpdateTariff(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var body dto.UpdateTariffRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	updates := map[string]any{}
	if body.TariffName != nil {
		updates["tariff_name"] = strings.TrimSpace(*body.TariffName)
	}
	if body.TariffIsActive != nil {
		updates["tariff_is_active"] = *body.TariffIsActive
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "nothing to update")
	}

	res := ctrl.DB.Model(&model.TariffModel{}).
		Where("tariff_id = ? AND tariff_school_id = ?", id, schoolID).
		Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "tariff not found")
	}
	return helper.Success(c, "Tariff updated", nil)
}

// DELETE /tariffs/:id — refused while any payment references the tariff.
func (ctrl *TariffController) DeleteTariff(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var refs int64
	if err := ctrl.DB.Model(&paymentModel.PaymentModel{}).
		Where("payment_school_id = ? AND payment_tariff_id = ?", schoolID, id).
		Count(&refs).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if refs > 0 {
		return helper.ErrorWithReason(c, fiber.StatusConflict, "TARIFF_REFERENCED",
			"Tariff is referenced by payments and cannot be deleted", fiber.Map{"payment_count": refs})
	}

	res := ctrl.DB.
		Where("tariff_id = ? AND tariff_school_id = ?", id, schoolID).
		Delete(&model.TariffModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "tariff not found")
	}
	return helper.Success(c, "Tariff deleted", nil)
}
