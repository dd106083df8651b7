// file: internals/features/finance/promises/service/promise_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/promises/model"
)

var ErrNotActive = errors.New("promise is not active")

type CreatePromiseInput struct {
	SchoolID     uuid.UUID
	StudentID    uuid.UUID
	GuardianID   uuid.UUID
	EnrollmentID *uuid.UUID
	Amount       int
	Currency     string
	PromiseDate  time.Time
	CreatedBy    uuid.UUID
	Notes        *string
}

func Create(ctx context.Context, db *gorm.DB, in CreatePromiseInput) (*model.PaymentPromiseModel, error) {
	row := model.PaymentPromiseModel{
		PromiseSchoolID:     in.SchoolID,
		PromiseStudentID:    in.StudentID,
		PromiseGuardianID:   in.GuardianID,
		PromiseEnrollmentID: in.EnrollmentID,
		PromiseAmount:       in.Amount,
		PromiseCurrency:     in.Currency,
		PromiseDate:         in.PromiseDate,
		PromiseStatus:       model.PromiseStatusActive,
		PromiseCreatedBy:    in.CreatedBy,
		PromiseNotes:        in.Notes,
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// transition applies one state-machine step as a single conditional write.
// Terminal states are sinks; a row already out of `active` is left alone.
func transition(ctx context.Context, db *gorm.DB, schoolID, promiseID uuid.UUID, to model.PaymentPromiseStatus, extra map[string]any) error {
	if !model.CanTransition(model.PromiseStatusActive, to) {
		return ErrNotActive
	}
	now := time.Now()
	updates := map[string]any{
		"promise_status":    to,
		"promise_closed_at": &now,
	}
	for k, v := range extra {
		updates[k] = v
	}
	res := db.WithContext(ctx).
		Model(&model.PaymentPromiseModel{}).
		Where("promise_id = ? AND promise_school_id = ? AND promise_status = ?",
			promiseID, schoolID, model.PromiseStatusActive).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotActive
	}
	return nil
}

func Cancel(ctx context.Context, db *gorm.DB, schoolID, promiseID uuid.UUID) error {
	return transition(ctx, db, schoolID, promiseID, model.PromiseStatusCancelled, nil)
}

func MarkBroken(ctx context.Context, db *gorm.DB, schoolID, promiseID uuid.UUID) error {
	return transition(ctx, db, schoolID, promiseID, model.PromiseStatusBroken, nil)
}

// FulfillForPayment is called by the payment reconciler once a payment
// reaches `paid`. The oldest active promise for the student whose window is
// still open and whose amount is covered becomes `fulfilled`.
func FulfillForPayment(ctx context.Context, db *gorm.DB, schoolID, studentID, paymentID uuid.UUID, paidAmount int) error {
	var promise model.PaymentPromiseModel
	err := db.WithContext(ctx).
		Where(`promise_school_id = ? AND promise_student_id = ?
		       AND promise_status = ? AND promise_amount <= ? AND promise_date >= ?`,
			schoolID, studentID, model.PromiseStatusActive, paidAmount, time.Now().Truncate(24*time.Hour)).
		Order("promise_created_at ASC").
		Take(&promise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // nothing to fulfil
	}
	if err != nil {
		return err
	}
	err = transition(ctx, db, schoolID, promise.PromiseID, model.PromiseStatusFulfilled, map[string]any{
		"promise_fulfilled_payment_id": paymentID,
	})
	if errors.Is(err, ErrNotActive) {
		return nil // raced with another closer; terminal state stands
	}
	return err
}

// ListActiveExpired returns active promises whose date has passed, for the
// external sweep that marks them broken.
func ListActiveExpired(ctx context.Context, db *gorm.DB, schoolID uuid.UUID, asOf time.Time) ([]model.PaymentPromiseModel, error) {
	var rows []model.PaymentPromiseModel
	q := db.WithContext(ctx).
		Where("promise_status = ? AND promise_date < ?", model.PromiseStatusActive, asOf)
	if schoolID != uuid.Nil {
		q = q.Where("promise_school_id = ?", schoolID)
	}
	err := q.Order("promise_date ASC").Find(&rows).Error
	return rows, err
}

func ListByStudent(ctx context.Context, db *gorm.DB, schoolID, studentID uuid.UUID) ([]model.PaymentPromiseModel, error) {
	var rows []model.PaymentPromiseModel
	err := db.WithContext(ctx).
		Where("promise_school_id = ? AND promise_student_id = ?", schoolID, studentID).
		Order("promise_created_at DESC").
		Find(&rows).Error
	return rows, err
}
