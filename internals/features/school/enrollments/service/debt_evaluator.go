// file: internals/features/school/enrollments/service/debt_evaluator.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
)

type DebtEvaluation struct {
	Blocked      bool `json:"blocked"`
	OverdueCount int  `json:"overdue_count"`
}

// Evaluate counts the student's overdue payments: status still pending with a
// due date in the past. Overdue is always derived here, never stored.
func Evaluate(ctx context.Context, db *gorm.DB, schoolID, studentID uuid.UUID, asOf time.Time) (DebtEvaluation, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&paymentModel.PaymentModel{}).
		Where(`payment_school_id = ? AND payment_student_id = ?
		       AND payment_status = ? AND payment_due_date IS NOT NULL AND payment_due_date < ?`,
			schoolID, studentID, paymentModel.PaymentStatusPending, asOf).
		Count(&count).Error
	if err != nil {
		return DebtEvaluation{}, err
	}
	return DebtEvaluation{Blocked: count > 0, OverdueCount: int(count)}, nil
}
