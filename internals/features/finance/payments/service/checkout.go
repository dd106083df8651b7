// file: internals/features/finance/payments/service/checkout.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/gateway"
	"sekolahku_backend/internals/features/finance/payments/model"
	tariffModel "sekolahku_backend/internals/features/finance/tariffs/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
)

var (
	ErrTariffNotFound = errors.New("tariff not found or inactive")
	ErrStudentNotFound = errors.New("student not found")
)

type CheckoutService struct {
	DB       *gorm.DB
	Registry *gateway.Registry
}

func NewCheckoutService(db *gorm.DB, reg *gateway.Registry) *CheckoutService {
	return &CheckoutService{DB: db, Registry: reg}
}

type CreatePaymentInput struct {
	SchoolID  uuid.UUID
	StudentID uuid.UUID
	TariffID  uuid.UUID
	Provider  string
	DueDate   *time.Time
	Note      *string
}

/*
	CreatePayment snapshots amount/currency from the tariff, stores the
	correlation ref in payment_meta, then asks the provider for a checkout.
	The correlation ref doubles as the provider-side order id, so a
	notification can be matched before the provider-assigned id is known.
*/
func (s *CheckoutService) CreatePayment(ctx context.Context, in CreatePaymentInput) (*model.PaymentModel, error) {
	gw, ok := s.Registry.ForProvider(in.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown payment provider %q", in.Provider)
	}

	var tariff tariffModel.TariffModel
	if err := s.DB.WithContext(ctx).
		Where("tariff_school_id = ? AND tariff_id = ? AND tariff_is_active = ?", in.SchoolID, in.TariffID, true).
		Take(&tariff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTariffNotFound
		}
		return nil, err
	}

	student, err := studentModel.LookupStudent(ctx, s.DB, in.SchoolID, in.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	correlationRef := "PAY-" + uuid.NewString()

	payment := model.PaymentModel{
		PaymentSchoolID:  in.SchoolID,
		PaymentStudentID: in.StudentID,
		PaymentTariffID:  tariff.TariffID,
		// Snapshot: never recomputed from the tariff afterwards.
		PaymentAmount:   tariff.TariffAmount,
		PaymentCurrency: tariff.TariffCurrency,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentProvider: gw.Provider(),
		PaymentDueDate:  in.DueDate,
		PaymentNote:     in.Note,
		PaymentMeta: datatypes.JSONMap{
			model.MetaKeyCorrelationRef: correlationRef,
			"tariff_name":               tariff.TariffName,
		},
	}
	if err := s.DB.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}

	email := studentModel.GuardianEmailForStudent(ctx, s.DB, in.SchoolID, in.StudentID)
	res, err := gw.CreateCheckout(ctx, gateway.CheckoutInput{
		OrderRef:      correlationRef,
		Amount:        payment.PaymentAmount,
		Currency:      payment.PaymentCurrency,
		Description:   tariff.TariffName,
		CustomerName:  student.StudentName,
		CustomerEmail: email,
	})
	if err != nil {
		// No provider id attached yet, so the row may be closed out. Keep it
		// for audit as cancelled instead of deleting.
		now := time.Now()
		if uerr := s.DB.WithContext(ctx).
			Model(&model.PaymentModel{}).
			Where("payment_id = ? AND payment_status = ?", payment.PaymentID, model.PaymentStatusPending).
			Updates(map[string]any{
				"payment_status":       model.PaymentStatusCancelled,
				"payment_cancelled_at": &now,
				"payment_note":         "checkout creation failed",
			}).Error; uerr != nil {
			log.Printf("[ERROR] cancel payment %s after checkout failure: %v", payment.PaymentID, uerr)
		}
		return nil, err
	}

	updates := map[string]any{}
	if res.ProviderPaymentID != "" {
		updates["payment_provider_payment_id"] = res.ProviderPaymentID
		payment.PaymentProviderPaymentID = &res.ProviderPaymentID
	}
	if res.CheckoutURL != "" {
		updates["payment_checkout_url"] = res.CheckoutURL
		payment.PaymentCheckoutURL = &res.CheckoutURL
	}
	if res.CheckoutToken != "" {
		updates["payment_checkout_token"] = res.CheckoutToken
		payment.PaymentCheckoutToken = &res.CheckoutToken
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).
			Model(&model.PaymentModel{}).
			Where("payment_id = ?", payment.PaymentID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &payment, nil
}
