// file: internals/features/finance/promises/service/promise_service_test.go
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

	"sekolahku_backend/internals/features/finance/promises/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PaymentPromiseModel{}))
	return db
}

func seedActivePromise(t *testing.T, db *gorm.DB, schoolID, studentID uuid.UUID, amount int, date time.Time) *model.PaymentPromiseModel {
	t.Helper()
	p, err := Create(context.Background(), db, CreatePromiseInput{
		SchoolID:    schoolID,
		StudentID:   studentID,
		GuardianID:  uuid.New(),
		Amount:      amount,
		Currency:    "CLP",
		PromiseDate: date,
		CreatedBy:   uuid.New(),
	})
	require.NoError(t, err)
	return p
}

func TestCanTransitionTable(t *testing.T) {
	assert.True(t, model.CanTransition(model.PromiseStatusActive, model.PromiseStatusFulfilled))
	assert.True(t, model.CanTransition(model.PromiseStatusActive, model.PromiseStatusBroken))
	assert.True(t, model.CanTransition(model.PromiseStatusActive, model.PromiseStatusCancelled))

	// terminal states are sinks
	for _, from := range []model.PaymentPromiseStatus{
		model.PromiseStatusFulfilled, model.PromiseStatusBroken, model.PromiseStatusCancelled,
	} {
		for _, to := range []model.PaymentPromiseStatus{
			model.PromiseStatusActive, model.PromiseStatusFulfilled, model.PromiseStatusBroken, model.PromiseStatusCancelled,
		} {
			assert.False(t, model.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, model.CanTransition(model.PromiseStatusActive, model.PromiseStatusActive))
}

func TestCancelThenBreakIsRejected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	schoolID := uuid.New()
	p := seedActivePromise(t, db, schoolID, uuid.New(), 10000, time.Now().Add(48*time.Hour))

	require.NoError(t, Cancel(ctx, db, schoolID, p.PromiseID))

	err := MarkBroken(ctx, db, schoolID, p.PromiseID)
	assert.ErrorIs(t, err, ErrNotActive)

	var got model.PaymentPromiseModel
	require.NoError(t, db.First(&got, "promise_id = ?", p.PromiseID).Error)
	assert.Equal(t, model.PromiseStatusCancelled, got.PromiseStatus)
	assert.NotNil(t, got.PromiseClosedAt)
}

func TestCancelWrongTenant(t *testing.T) {
	db := newTestDB(t)
	p := seedActivePromise(t, db, uuid.New(), uuid.New(), 10000, time.Now().Add(48*time.Hour))

	err := Cancel(context.Background(), db, uuid.New(), p.PromiseID)
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestFulfillForPaymentPicksOldestCovered(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	schoolID := uuid.New()
	studentID := uuid.New()

	future := time.Now().Add(96 * time.Hour)
	older := seedActivePromise(t, db, schoolID, studentID, 30000, future)
	time.Sleep(5 * time.Millisecond) // distinct created_at ordering
	newer := seedActivePromise(t, db, schoolID, studentID, 30000, future)
	tooBig := seedActivePromise(t, db, schoolID, studentID, 99999, future)

	paymentID := uuid.New()
	require.NoError(t, FulfillForPayment(ctx, db, schoolID, studentID, paymentID, 50000))

	var got model.PaymentPromiseModel
	require.NoError(t, db.First(&got, "promise_id = ?", older.PromiseID).Error)
	assert.Equal(t, model.PromiseStatusFulfilled, got.PromiseStatus)
	require.NotNil(t, got.PromiseFulfilledPaymentID)
	assert.Equal(t, paymentID, *got.PromiseFulfilledPaymentID)

	for _, untouched := range []uuid.UUID{newer.PromiseID, tooBig.PromiseID} {
		var row model.PaymentPromiseModel
		require.NoError(t, db.First(&row, "promise_id = ?", untouched).Error)
		assert.Equal(t, model.PromiseStatusActive, row.PromiseStatus)
	}
}

func TestFulfillForPaymentNoCandidateIsNoOp(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, FulfillForPayment(context.Background(), db, uuid.New(), uuid.New(), uuid.New(), 50000))
}

func TestListActiveExpired(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()
	now := time.Now()

	expired := seedActivePromise(t, db, schoolID, uuid.New(), 10000, now.Add(-24*time.Hour))
	seedActivePromise(t, db, schoolID, uuid.New(), 10000, now.Add(24*time.Hour))

	closed := seedActivePromise(t, db, schoolID, uuid.New(), 10000, now.Add(-48*time.Hour))
	require.NoError(t, Cancel(context.Background(), db, schoolID, closed.PromiseID))

	rows, err := ListActiveExpired(context.Background(), db, schoolID, now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, expired.PromiseID, rows[0].PromiseID)
}
