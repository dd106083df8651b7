// file: internals/features/school/enrollments/service/debt_evaluator_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&paymentModel.PaymentModel{}))
	return db
}

func seedPayment(t *testing.T, db *gorm.DB, schoolID, studentID uuid.UUID, status paymentModel.PaymentStatus, due *time.Time) {
	t.Helper()
	p := paymentModel.PaymentModel{
		PaymentSchoolID:  schoolID,
		PaymentStudentID: studentID,
		PaymentTariffID:  uuid.New(),
		PaymentAmount:    50000,
		PaymentCurrency:  "CLP",
		PaymentStatus:    status,
		PaymentDueDate:   due,
		PaymentProvider:  paymentModel.GatewayProviderMidtrans,
	}
	require.NoError(t, db.Create(&p).Error)
}

func TestEvaluateCountsOnlyOverduePending(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	schoolID := uuid.New()
	studentID := uuid.New()
	now := time.Now()

	past := now.AddDate(0, -4, 0)
	future := now.AddDate(0, 1, 0)

	seedPayment(t, db, schoolID, studentID, paymentModel.PaymentStatusPending, &past)   // counts
	seedPayment(t, db, schoolID, studentID, paymentModel.PaymentStatusPending, &future) // not due yet
	seedPayment(t, db, schoolID, studentID, paymentModel.PaymentStatusPaid, &past)      // settled
	seedPayment(t, db, schoolID, studentID, paymentModel.PaymentStatusPending, nil)     // no due date

	eval, err := Evaluate(ctx, db, schoolID, studentID, now)
	require.NoError(t, err)
	assert.True(t, eval.Blocked)
	assert.Equal(t, 1, eval.OverdueCount)
}

func TestEvaluateIsTenantScoped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	studentID := uuid.New()
	past := time.Now().AddDate(0, -1, 0)

	seedPayment(t, db, uuid.New(), studentID, paymentModel.PaymentStatusPending, &past)

	eval, err := Evaluate(ctx, db, uuid.New(), studentID, time.Now())
	require.NoError(t, err)
	assert.False(t, eval.Blocked)
	assert.Zero(t, eval.OverdueCount)
}
