// file: internals/features/finance/promises/model/payment_promise_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentPromiseStatus string

const (
	PromiseStatusActive    PaymentPromiseStatus = "active"
	PromiseStatusFulfilled PaymentPromiseStatus = "fulfilled"
	PromiseStatusBroken    PaymentPromiseStatus = "broken"
	PromiseStatusCancelled PaymentPromiseStatus = "cancelled"
)

// CanTransition: active → {fulfilled, broken, cancelled}; terminal states are
// sinks, re-entry to active never happens.
func CanTransition(from, to PaymentPromiseStatus) bool {
	if from != PromiseStatusActive {
		return false
	}
	switch to {
	case PromiseStatusFulfilled, PromiseStatusBroken, PromiseStatusCancelled:
		return true
	}
	return false
}

type PaymentPromiseModel struct {
	PromiseID uuid.UUID `gorm:"column:promise_id;type:uuid;primaryKey" json:"promise_id"`

	PromiseSchoolID   uuid.UUID  `gorm:"column:promise_school_id;type:uuid;not null;index:idx_promises_school_student,priority:1" json:"promise_school_id"`
	PromiseStudentID  uuid.UUID  `gorm:"column:promise_student_id;type:uuid;not null;index:idx_promises_school_student,priority:2" json:"promise_student_id"`
	PromiseGuardianID uuid.UUID  `gorm:"column:promise_guardian_id;type:uuid;not null" json:"promise_guardian_id"`
	PromiseEnrollmentID *uuid.UUID `gorm:"column:promise_enrollment_id;type:uuid" json:"promise_enrollment_id,omitempty"`

	PromiseAmount   int       `gorm:"column:promise_amount;not null;check:promise_amount > 0" json:"promise_amount"`
	PromiseCurrency string    `gorm:"column:promise_currency;type:varchar(8);not null" json:"promise_currency"`
	PromiseDate     time.Time `gorm:"column:promise_date;not null" json:"promise_date"`

	PromiseStatus PaymentPromiseStatus `gorm:"column:promise_status;type:varchar(16);not null;default:'active'" json:"promise_status"`

	// Staff member who authorized the gate override.
	PromiseCreatedBy uuid.UUID `gorm:"column:promise_created_by;type:uuid;not null" json:"promise_created_by"`
	PromiseNotes     *string   `gorm:"column:promise_notes;type:text" json:"promise_notes,omitempty"`

	// Set when the reconciler fulfils the promise.
	PromiseFulfilledPaymentID *uuid.UUID `gorm:"column:promise_fulfilled_payment_id;type:uuid" json:"promise_fulfilled_payment_id,omitempty"`

	PromiseCreatedAt time.Time  `gorm:"column:promise_created_at;autoCreateTime" json:"promise_created_at"`
	PromiseUpdatedAt time.Time  `gorm:"column:promise_updated_at;autoUpdateTime" json:"promise_updated_at"`
	PromiseClosedAt  *time.Time `gorm:"column:promise_closed_at" json:"promise_closed_at,omitempty"`
}

func (PaymentPromiseModel) TableName() string { return "payment_promises" }

func (p *PaymentPromiseModel) BeforeCreate(tx *gorm.DB) error {
	if p.PromiseID == uuid.Nil {
		p.PromiseID = uuid.New()
	}
	return nil
}
