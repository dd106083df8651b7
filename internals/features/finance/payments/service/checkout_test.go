// file: internals/features/finance/payments/service/checkout_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/gateway"
	"sekolahku_backend/internals/features/finance/payments/model"
	tariffModel "sekolahku_backend/internals/features/finance/tariffs/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
)

// fakeGateway lets checkout tests run without a provider on the wire.
type fakeGateway struct {
	name   model.PaymentGatewayProvider
	result gateway.CheckoutResult
	err    error
}

func (f *fakeGateway) Provider() model.PaymentGatewayProvider { return f.name }
func (f *fakeGateway) Verify(map[string]string, map[string]any, []byte) gateway.VerifyResult {
	return gateway.VerifyResult{OK: true}
}
func (f *fakeGateway) ExtractIdentifiers(map[string]any) gateway.Identifiers {
	return gateway.Identifiers{}
}
func (f *fakeGateway) CreateCheckout(context.Context, gateway.CheckoutInput) (gateway.CheckoutResult, error) {
	return f.result, f.err
}

func seedCheckoutFixtures(t *testing.T, db *gorm.DB, schoolID uuid.UUID) (tariffID, studentID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.AutoMigrate(&tariffModel.TariffModel{}))

	tariff := tariffModel.TariffModel{
		TariffSchoolID: schoolID,
		TariffName:     "Monthly tuition",
		TariffAmount:   50000,
		TariffCurrency: "CLP",
		TariffIsActive: true,
	}
	require.NoError(t, db.Create(&tariff).Error)

	student := studentModel.StudentModel{
		StudentID:       uuid.New(),
		StudentSchoolID: schoolID,
		StudentName:     "Ana",
	}
	require.NoError(t, db.Create(&student).Error)
	return tariff.TariffID, student.StudentID
}

func TestCreatePaymentSnapshotsTariff(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()
	tariffID, studentID := seedCheckoutFixtures(t, db, schoolID)

	url := "https://pay.example/checkout/1"
	svc := NewCheckoutService(db, gateway.NewRegistry(&fakeGateway{
		name:   model.GatewayProviderXendit,
		result: gateway.CheckoutResult{ProviderPaymentID: "inv-1", CheckoutURL: url},
	}))

	p, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		SchoolID:  schoolID,
		StudentID: studentID,
		TariffID:  tariffID,
		Provider:  "xendit",
	})
	require.NoError(t, err)

	assert.Equal(t, 50000, p.PaymentAmount)
	assert.Equal(t, "CLP", p.PaymentCurrency)
	assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
	assert.NotEmpty(t, p.CorrelationRef())
	require.NotNil(t, p.PaymentProviderPaymentID)
	assert.Equal(t, "inv-1", *p.PaymentProviderPaymentID)

	var stored model.PaymentModel
	require.NoError(t, db.First(&stored, "payment_id = ?", p.PaymentID).Error)
	require.NotNil(t, stored.PaymentCheckoutURL)
	assert.Equal(t, url, *stored.PaymentCheckoutURL)
}

func TestCreatePaymentProviderDownCancelsRow(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()
	tariffID, studentID := seedCheckoutFixtures(t, db, schoolID)

	svc := NewCheckoutService(db, gateway.NewRegistry(&fakeGateway{
		name: model.GatewayProviderXendit,
		err:  gateway.ErrProviderUnavailable,
	}))

	_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		SchoolID:  schoolID,
		StudentID: studentID,
		TariffID:  tariffID,
		Provider:  "xendit",
	})
	require.ErrorIs(t, err, gateway.ErrProviderUnavailable)

	// the row survives for audit, closed out as cancelled
	var stored model.PaymentModel
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, model.PaymentStatusCancelled, stored.PaymentStatus)
	assert.NotNil(t, stored.PaymentCancelledAt)
	require.NotNil(t, stored.PaymentNote)
	assert.Equal(t, "checkout creation failed", *stored.PaymentNote)
}

func TestCreatePaymentInactiveTariffRejected(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(&tariffModel.TariffModel{}))
	schoolID := uuid.New()

	tariff := tariffModel.TariffModel{
		TariffSchoolID: schoolID,
		TariffName:     "Retired tariff",
		TariffAmount:   10000,
		TariffCurrency: "CLP",
		TariffIsActive: false,
	}
	require.NoError(t, db.Create(&tariff).Error)

	svc := NewCheckoutService(db, gateway.NewRegistry(&fakeGateway{name: model.GatewayProviderXendit}))
	_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		SchoolID:  schoolID,
		StudentID: uuid.New(),
		TariffID:  tariff.TariffID,
		Provider:  "xendit",
	})
	assert.ErrorIs(t, err, ErrTariffNotFound)
}
