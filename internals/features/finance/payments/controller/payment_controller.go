// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/dto"
	"sekolahku_backend/internals/features/finance/payments/gateway"
	"sekolahku_backend/internals/features/finance/payments/model"
	"sekolahku_backend/internals/features/finance/payments/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

type PaymentController struct {
	DB       *gorm.DB
	Checkout *service.CheckoutService
	validate *validator.Validate
}

func NewPaymentController(db *gorm.DB, reg *gateway.Registry) *PaymentController {
	return &PaymentController{
		DB:       db,
		Checkout: service.NewCheckoutService(db, reg),
		validate: validator.New(),
	}
}

// POST /payments
func (ctrl *PaymentController) CreatePayment(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.CreatePaymentRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	payment, err := ctrl.Checkout.CreatePayment(c.UserContext(), service.CreatePaymentInput{
		SchoolID:  schoolID,
		StudentID: body.PaymentStudentID,
		TariffID:  body.PaymentTariffID,
		Provider:  body.PaymentProvider,
		DueDate:   body.PaymentDueDate,
		Note:      body.PaymentNote,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTariffNotFound):
			return helper.Error(c, fiber.StatusNotFound, "Tariff not found or inactive")
		case errors.Is(err, service.ErrStudentNotFound):
			return helper.Error(c, fiber.StatusNotFound, "Student not found")
		case errors.Is(err, gateway.ErrProviderUnavailable):
			return helper.ErrorWithReason(c, fiber.StatusBadGateway, "PROVIDER_UNAVAILABLE",
				"Payment provider is unavailable, please retry", nil)
		default:
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to create payment")
		}
	}

	return helper.JsonCreated(c, "Payment created", dto.FromPaymentModel(payment))
}

// GET /payments/:id
func (ctrl *PaymentController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var p model.PaymentModel
	if err := ctrl.DB.
		Where("payment_id = ? AND payment_school_id = ?", id, schoolID).
		Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "payment not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", dto.FromPaymentModel(&p))
}

// GET /payments?student_id=&status=
func (ctrl *PaymentController) ListPayments(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	q := ctrl.DB.Model(&model.PaymentModel{}).
		Where("payment_school_id = ?", schoolID)

	if sid := c.Query("student_id"); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "invalid student_id")
		}
		q = q.Where("payment_student_id = ?", id)
	}
	if st := c.Query("status"); st != "" {
		q = q.Where("payment_status = ?", st)
	}

	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.PaymentModel
	if err := q.Order("payment_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]*dto.PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromPaymentModel(&rows[i]))
	}

	return helper.Success(c, "OK", fiber.Map{
		"items":      out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}
