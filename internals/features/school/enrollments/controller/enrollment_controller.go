// file: internals/features/school/enrollments/controller/enrollment_controller.go
package controller

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	promiseDTO "sekolahku_backend/internals/features/finance/promises/dto"
	promiseModel "sekolahku_backend/internals/features/finance/promises/model"
	promiseService "sekolahku_backend/internals/features/finance/promises/service"
	"sekolahku_backend/internals/features/school/enrollments/dto"
	"sekolahku_backend/internals/features/school/enrollments/model"
	"sekolahku_backend/internals/features/school/enrollments/service"
	studentModel "sekolahku_backend/internals/features/school/students/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
	"sekolahku_backend/internals/helpers/notifier"
)

type EnrollmentController struct {
	DB       *gorm.DB
	Notifier notifier.Notifier
	validate *validator.Validate
}

func NewEnrollmentController(db *gorm.DB, n notifier.Notifier) *EnrollmentController {
	if n == nil {
		n = notifier.Default
	}
	return &EnrollmentController{DB: db, Notifier: n, validate: validator.New()}
}

/*
	POST /enrollments

	Debt gate:
	- no overdue payments → allow.
	- overdue + admin-tier caller → allow, audited per-user override (the
	  acting admin id and overdue count go into the enrollment note and log).
	- overdue + staff-tier caller + promise payload → enrollment and promise
	  are created atomically; if either fails, neither persists.
	- otherwise → 409 with reason code DEBT_BLOCK / ARREARS_LOCK and the
	  overdue count.
*/
func (ctrl *EnrollmentController) CreateEnrollment(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.CreateEnrollmentRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	eval, err := service.Evaluate(c.UserContext(), ctrl.DB, schoolID, body.EnrollmentStudentID, time.Now())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to evaluate debt")
	}

	if !eval.Blocked {
		row, err := ctrl.insertEnrollment(ctrl.DB, schoolID, &body, nil)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to create enrollment")
		}
		return helper.JsonCreated(c, "Enrollment created", dto.FromEnrollmentModel(row))
	}

	// Blocked: admin-tier override on the caller's own authority.
	if helperAuth.HasSchoolRole(c, constants.AdminTier...) {
		note := fmt.Sprintf("debt gate override by %s (overdue_count=%d)", userID, eval.OverdueCount)
		log.Printf("[WARN] %s school=%s student=%s", note, schoolID, body.EnrollmentStudentID)
		row, err := ctrl.insertEnrollment(ctrl.DB, schoolID, &body, &note)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to create enrollment")
		}
		return helper.JsonCreated(c, "Enrollment created (debt gate overridden)", dto.FromEnrollmentModel(row))
	}

	// Blocked: staff-tier caller with a payment promise in the same request.
	if body.Promise != nil && helperAuth.HasSchoolRole(c, constants.StaffTier...) {
		if err := ctrl.validate.Struct(body.Promise); err != nil {
			return helper.ValidationError(c, err)
		}
		if !body.Promise.PromiseDate.After(time.Now()) {
			return helper.Error(c, fiber.StatusBadRequest, "promise_date must be in the future")
		}

		var (
			enrollment *model.EnrollmentModel
			promise    *promiseModel.PaymentPromiseModel
		)
		txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
			note := fmt.Sprintf("enrolled with payment promise by %s (overdue_count=%d)", userID, eval.OverdueCount)
			row, err := ctrl.insertEnrollment(tx, schoolID, &body, &note)
			if err != nil {
				return err
			}
			enrollment = row

			p, err := promiseService.Create(c.UserContext(), tx, promiseService.CreatePromiseInput{
				SchoolID:     schoolID,
				StudentID:    body.Promise.PromiseStudentID,
				GuardianID:   body.Promise.PromiseGuardianID,
				EnrollmentID: &row.EnrollmentID,
				Amount:       body.Promise.PromiseAmount,
				Currency:     body.Promise.PromiseCurrency,
				PromiseDate:  body.Promise.PromiseDate,
				CreatedBy:    userID,
				Notes:        body.Promise.PromiseNotes,
			})
			if err != nil {
				return err
			}
			promise = p
			return nil
		})
		if txErr != nil {
			log.Printf("[ERROR] enrollment+promise tx school=%s student=%s: %v", schoolID, body.EnrollmentStudentID, txErr)
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to create enrollment with promise")
		}

		resp := dto.FromEnrollmentModel(enrollment)
		resp.Promise = promiseDTO.FromPromiseModel(promise)
		return helper.JsonCreated(c, "Enrollment created with payment promise", resp)
	}

	// Blocked and no valid override path: structured rejection + guardian notice.
	if addr := studentModel.GuardianEmailForStudent(c.UserContext(), ctrl.DB, schoolID, body.EnrollmentStudentID); addr != "" {
		notifier.SendAsync(ctrl.Notifier, addr,
			"Enrollment blocked by outstanding payments",
			fmt.Sprintf("Enrollment was blocked because %d payment(s) are overdue.", eval.OverdueCount))
	}
	return helper.ErrorWithReason(c, fiber.StatusConflict, "ARREARS_LOCK",
		"Student has overdue payments", fiber.Map{
			"code":          "DEBT_BLOCK",
			"overdue_count": eval.OverdueCount,
		})
}

func (ctrl *EnrollmentController) insertEnrollment(db *gorm.DB, schoolID uuid.UUID, body *dto.CreateEnrollmentRequest, note *string) (*model.EnrollmentModel, error) {
	row := model.EnrollmentModel{
		EnrollmentSchoolID:  schoolID,
		EnrollmentStudentID: body.EnrollmentStudentID,
		EnrollmentClassID:   body.EnrollmentClassID,
		EnrollmentPeriod:    body.EnrollmentPeriod,
		EnrollmentStatus:    "active",
		EnrollmentNote:      note,
	}
	return &row, db.Create(&row).Error
}
