// file: internals/features/finance/promises/dto/promise_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/features/finance/promises/model"
)

type CreatePromiseRequest struct {
	PromiseStudentID  uuid.UUID `json:"promise_student_id" validate:"required"`
	PromiseGuardianID uuid.UUID `json:"promise_guardian_id" validate:"required"`
	PromiseAmount     int       `json:"promise_amount" validate:"required,gt=0"`
	PromiseCurrency   string    `json:"promise_currency" validate:"required,len=3"`
	PromiseDate       time.Time `json:"promise_date" validate:"required"`
	PromiseNotes      *string   `json:"promise_notes,omitempty" validate:"omitempty,max=1000"`
}

type PromiseResponse struct {
	PromiseID                 uuid.UUID                  `json:"promise_id"`
	PromiseStudentID          uuid.UUID                  `json:"promise_student_id"`
	PromiseGuardianID         uuid.UUID                  `json:"promise_guardian_id"`
	PromiseEnrollmentID       *uuid.UUID                 `json:"promise_enrollment_id,omitempty"`
	PromiseAmount             int                        `json:"promise_amount"`
	PromiseCurrency           string                     `json:"promise_currency"`
	PromiseDate               time.Time                  `json:"promise_date"`
	PromiseStatus             model.PaymentPromiseStatus `json:"promise_status"`
	PromiseCreatedBy          uuid.UUID                  `json:"promise_created_by"`
	PromiseNotes              *string                    `json:"promise_notes,omitempty"`
	PromiseFulfilledPaymentID *uuid.UUID                 `json:"promise_fulfilled_payment_id,omitempty"`
	PromiseCreatedAt          time.Time                  `json:"promise_created_at"`
	PromiseClosedAt           *time.Time                 `json:"promise_closed_at,omitempty"`
}

func FromPromiseModel(p *model.PaymentPromiseModel) *PromiseResponse {
	return &PromiseResponse{
		PromiseID:                 p.PromiseID,
		PromiseStudentID:          p.PromiseStudentID,
		PromiseGuardianID:         p.PromiseGuardianID,
		PromiseEnrollmentID:       p.PromiseEnrollmentID,
		PromiseAmount:             p.PromiseAmount,
		PromiseCurrency:           p.PromiseCurrency,
		PromiseDate:               p.PromiseDate,
		PromiseStatus:             p.PromiseStatus,
		PromiseCreatedBy:          p.PromiseCreatedBy,
		PromiseNotes:              p.PromiseNotes,
		PromiseFulfilledPaymentID: p.PromiseFulfilledPaymentID,
		PromiseCreatedAt:          p.PromiseCreatedAt,
		PromiseClosedAt:           p.PromiseClosedAt,
	}
}
