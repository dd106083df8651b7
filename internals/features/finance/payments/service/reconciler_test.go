// file: internals/features/finance/payments/service/reconciler_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sekolahku_backend/internals/features/finance/payments/gateway"
	"sekolahku_backend/internals/features/finance/payments/model"
	promiseModel "sekolahku_backend/internals/features/finance/promises/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.PaymentModel{},
		&model.PaymentGatewayEventModel{},
		&promiseModel.PaymentPromiseModel{},
		&studentModel.StudentModel{},
		&studentModel.GuardianModel{},
	))
	return db
}

func seedPendingPayment(t *testing.T, db *gorm.DB, schoolID uuid.UUID, ref string) *model.PaymentModel {
	t.Helper()
	p := model.PaymentModel{
		PaymentSchoolID:  schoolID,
		PaymentStudentID: uuid.New(),
		PaymentTariffID:  uuid.New(),
		PaymentAmount:    50000,
		PaymentCurrency:  "CLP",
		PaymentStatus:    model.PaymentStatusPending,
		PaymentProvider:  model.GatewayProviderMidtrans,
		PaymentMeta:      datatypes.JSONMap{model.MetaKeyCorrelationRef: ref},
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

// A notification can race checkout creation: the provider id is not stored
// yet, so correlation falls back to the reference we handed the provider.
func TestReconcileMatchByCorrelationRefOnly(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()
	p := seedPendingPayment(t, db, schoolID, "PAY-ref-1")

	r := NewReconciler(db, nil)
	res, err := r.Reconcile(context.Background(), model.GatewayProviderMidtrans, gateway.Identifiers{
		ProviderPaymentID: "mt-555",
		CorrelationRef:    "PAY-ref-1",
	}, model.PaymentStatusPaid)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.True(t, res.Transitioned)

	var got model.PaymentModel
	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
	assert.NotNil(t, got.PaymentPaidAt)
	// provider id backfilled on first sight
	require.NotNil(t, got.PaymentProviderPaymentID)
	assert.Equal(t, "mt-555", *got.PaymentProviderPaymentID)
}

func TestReconcileReplayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingPayment(t, db, uuid.New(), "PAY-ref-2")

	r := NewReconciler(db, nil)
	ids := gateway.Identifiers{ProviderPaymentID: "mt-777", CorrelationRef: "PAY-ref-2"}

	res, err := r.Reconcile(context.Background(), model.GatewayProviderMidtrans, ids, model.PaymentStatusPaid)
	require.NoError(t, err)
	assert.True(t, res.Transitioned)

	// provider redelivers the same notification
	res, err = r.Reconcile(context.Background(), model.GatewayProviderMidtrans, ids, model.PaymentStatusPaid)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.False(t, res.Transitioned)

	var got model.PaymentModel
	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
}

func TestReconcileOrphanIsNotAnError(t *testing.T) {
	db := newTestDB(t)

	r := NewReconciler(db, nil)
	res, err := r.Reconcile(context.Background(), model.GatewayProviderXendit, gateway.Identifiers{
		ProviderPaymentID: "inv-unknown",
		CorrelationRef:    "PAY-never-created",
	}, model.PaymentStatusPaid)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.False(t, res.Transitioned)
}

func TestReconcileUnknownStatusIsNoOp(t *testing.T) {
	db := newTestDB(t)
	p := seedPendingPayment(t, db, uuid.New(), "PAY-ref-3")

	r := NewReconciler(db, nil)
	res, err := r.Reconcile(context.Background(), model.GatewayProviderMidtrans, gateway.Identifiers{
		CorrelationRef: "PAY-ref-3",
	}, model.PaymentStatusUnknown)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.False(t, res.Transitioned)

	var got model.PaymentModel
	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)
}

func TestReconcileFulfilsMatchingPromise(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()
	p := seedPendingPayment(t, db, schoolID, "PAY-ref-4")

	promise := promiseModel.PaymentPromiseModel{
		PromiseSchoolID:   schoolID,
		PromiseStudentID:  p.PaymentStudentID,
		PromiseGuardianID: uuid.New(),
		PromiseAmount:     40000, // covered by the 50000 payment
		PromiseCurrency:   "CLP",
		PromiseDate:       time.Now().Add(72 * time.Hour),
		PromiseStatus:     promiseModel.PromiseStatusActive,
		PromiseCreatedBy:  uuid.New(),
	}
	require.NoError(t, db.Create(&promise).Error)

	r := NewReconciler(db, nil)
	_, err := r.Reconcile(context.Background(), model.GatewayProviderMidtrans, gateway.Identifiers{
		CorrelationRef: "PAY-ref-4",
	}, model.PaymentStatusPaid)
	require.NoError(t, err)

	var got promiseModel.PaymentPromiseModel
	require.NoError(t, db.First(&got, "promise_id = ?", promise.PromiseID).Error)
	assert.Equal(t, promiseModel.PromiseStatusFulfilled, got.PromiseStatus)
	require.NotNil(t, got.PromiseFulfilledPaymentID)
	assert.Equal(t, p.PaymentID, *got.PromiseFulfilledPaymentID)
}

func TestLedgerFlipIsOneShot(t *testing.T) {
	db := newTestDB(t)
	l := NewLedger(db)
	ctx := context.Background()

	id, err := l.Append(ctx, model.GatewayProviderTripay, gateway.Identifiers{
		ProviderPaymentID: "T0001-1",
		CorrelationRef:    "PAY-ref-5",
	}, []byte(`{}`), []byte(`{"status":"PAID"}`))
	require.NoError(t, err)

	var row model.PaymentGatewayEventModel
	require.NoError(t, db.First(&row, "gateway_event_id = ?", id).Error)
	assert.Equal(t, model.GatewayEventStatusReceived, row.GatewayEventStatus)

	schoolID := uuid.New()
	require.NoError(t, l.MarkProcessed(ctx, id, ProcessedOpts{SchoolID: &schoolID, Orphan: true}))

	// second flip attempt must not touch the row
	require.NoError(t, l.MarkFailed(ctx, id, "too late"))

	require.NoError(t, db.First(&row, "gateway_event_id = ?", id).Error)
	assert.Equal(t, model.GatewayEventStatusProcessed, row.GatewayEventStatus)
	assert.True(t, row.GatewayEventOrphan)
	assert.Nil(t, row.GatewayEventError)
	assert.NotNil(t, row.GatewayEventProcessedAt)
}
