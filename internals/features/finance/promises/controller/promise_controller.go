// file: internals/features/finance/promises/controller/promise_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/promises/dto"
	"sekolahku_backend/internals/features/finance/promises/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

type PromiseController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewPromiseController(db *gorm.DB) *PromiseController {
	return &PromiseController{DB: db, validate: validator.New()}
}

// POST /payment-promises
func (ctrl *PromiseController) CreatePromise(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.CreatePromiseRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	if !body.PromiseDate.After(time.Now()) {
		return helper.Error(c, fiber.StatusBadRequest, "promise_date must be in the future")
	}

	row, err := service.Create(c.UserContext(), ctrl.DB, service.CreatePromiseInput{
		SchoolID:    schoolID,
		StudentID:   body.PromiseStudentID,
		GuardianID:  body.PromiseGuardianID,
		Amount:      body.PromiseAmount,
		Currency:    body.PromiseCurrency,
		PromiseDate: body.PromiseDate,
		CreatedBy:   userID,
		Notes:       body.PromiseNotes,
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create promise")
	}
	return helper.JsonCreated(c, "Promise created", dto.FromPromiseModel(row))
}

// POST /payment-promises/:id/cancel
func (ctrl *PromiseController) CancelPromise(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := service.Cancel(c.UserContext(), ctrl.DB, schoolID, id); err != nil {
		if errors.Is(err, service.ErrNotActive) {
			return helper.Error(c, fiber.StatusConflict, "promise is not active")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Promise cancelled", nil)
}

// GET /payment-promises?student_id=
func (ctrl *PromiseController) ListPromises(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	sid := c.Query("student_id")
	if sid == "" {
		return helper.Error(c, fiber.StatusBadRequest, "student_id is required")
	}
	studentID, err := uuid.Parse(sid)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid student_id")
	}

	rows, err := service.ListByStudent(c.UserContext(), ctrl.DB, schoolID, studentID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	out := make([]*dto.PromiseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromPromiseModel(&rows[i]))
	}
	return helper.Success(c, "OK", out)
}

// GET /payment-promises/expired?as_of= — consumed by the scheduled sweep that
// marks overdue promises broken.
func (ctrl *PromiseController) ListExpired(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "invalid as_of (use RFC3339)")
		}
		asOf = t
	}

	rows, err := service.ListActiveExpired(c.UserContext(), ctrl.DB, schoolID, asOf)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	out := make([]*dto.PromiseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromPromiseModel(&rows[i]))
	}
	return helper.Success(c, "OK", out)
}

// POST /payment-promises/:id/break — sweep callback.
func (ctrl *PromiseController) BreakPromise(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := service.MarkBroken(c.UserContext(), ctrl.DB, schoolID, id); err != nil {
		if errors.Is(err, service.ErrNotActive) {
			return helper.Error(c, fiber.StatusConflict, "promise is not active")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Promise marked broken", nil)
}
