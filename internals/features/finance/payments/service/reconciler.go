// file: internals/features/finance/payments/service/reconciler.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/gateway"
	"sekolahku_backend/internals/features/finance/payments/model"
	promiseService "sekolahku_backend/internals/features/finance/promises/service"
	studentModel "sekolahku_backend/internals/features/school/students/model"
	"sekolahku_backend/internals/helpers/notifier"
)

type Reconciler struct {
	DB       *gorm.DB
	Notifier notifier.Notifier
}

func NewReconciler(db *gorm.DB, n notifier.Notifier) *Reconciler {
	if n == nil {
		n = notifier.Default
	}
	return &Reconciler{DB: db, Notifier: n}
}

type ReconcileResult struct {
	Matched      bool
	Transitioned bool
	Payment      *model.PaymentModel
}

/*
	Reconcile finds the internal payment a verified notification refers to and
	applies the canonical status idempotently.

	Correlation order: provider payment id first, then the correlation ref we
	put in payment_meta at creation time (notifications can race checkout
	creation, when the provider id is not stored yet).

	The status write is one conditional UPDATE keyed on payment id + current
	status: redelivery of the same status is a no-op, and between DIFFERENT
	canonical states the last processed notification wins — providers give us
	no trustworthy ordering timestamp, which is an accepted limitation.
*/
func (r *Reconciler) Reconcile(
	ctx context.Context,
	provider model.PaymentGatewayProvider,
	ids gateway.Identifiers,
	canonical model.PaymentStatus,
) (ReconcileResult, error) {
	payment, err := r.correlate(ctx, provider, ids)
	if err != nil {
		return ReconcileResult{}, err
	}
	if payment == nil {
		// Orphan: verified but nothing to attach to yet. Retained for manual
		// follow-up, not an error.
		log.Printf("[INFO] orphan notification provider=%s external_id=%q ref=%q", provider, ids.ProviderPaymentID, ids.CorrelationRef)
		return ReconcileResult{Matched: false}, nil
	}

	// Backfill the provider-assigned id the first time we see it. Conditional
	// on the column still being NULL so concurrent deliveries cannot fight.
	if payment.PaymentProviderPaymentID == nil && ids.ProviderPaymentID != "" {
		res := r.DB.WithContext(ctx).
			Model(&model.PaymentModel{}).
			Where("payment_id = ? AND payment_provider_payment_id IS NULL", payment.PaymentID).
			Update("payment_provider_payment_id", ids.ProviderPaymentID)
		if res.Error != nil {
			return ReconcileResult{}, res.Error
		}
		payment.PaymentProviderPaymentID = &ids.ProviderPaymentID
	}

	if canonical == model.PaymentStatusUnknown || canonical == payment.PaymentStatus {
		return ReconcileResult{Matched: true, Payment: payment}, nil
	}

	now := time.Now()
	updates := map[string]any{"payment_status": canonical}
	switch canonical {
	case model.PaymentStatusPaid:
		updates["payment_paid_at"] = &now
	case model.PaymentStatusFailed:
		updates["payment_failed_at"] = &now
	case model.PaymentStatusCancelled:
		updates["payment_cancelled_at"] = &now
	}

	res := r.DB.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Where("payment_id = ? AND payment_school_id = ? AND payment_status <> ?",
			payment.PaymentID, payment.PaymentSchoolID, canonical).
		Updates(updates)
	if res.Error != nil {
		return ReconcileResult{}, res.Error
	}
	transitioned := res.RowsAffected == 1
	payment.PaymentStatus = canonical

	if transitioned && canonical == model.PaymentStatusPaid {
		r.afterPaid(ctx, payment)
	}

	return ReconcileResult{Matched: true, Transitioned: transitioned, Payment: payment}, nil
}

func (r *Reconciler) correlate(ctx context.Context, provider model.PaymentGatewayProvider, ids gateway.Identifiers) (*model.PaymentModel, error) {
	var p model.PaymentModel

	if ids.ProviderPaymentID != "" {
		err := r.DB.WithContext(ctx).
			Where("payment_provider = ? AND payment_provider_payment_id = ?", provider, ids.ProviderPaymentID).
			Take(&p).Error
		if err == nil {
			return &p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if ids.CorrelationRef != "" {
		err := r.DB.WithContext(ctx).
			Where("payment_provider = ? AND payment_meta ->> ? = ?", provider, model.MetaKeyCorrelationRef, ids.CorrelationRef).
			Take(&p).Error
		if err == nil {
			return &p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, nil
}

// afterPaid runs the side effects of a confirmed payment: promise fulfilment
// and the guardian notification. Neither may block or fail the reconciliation.
func (r *Reconciler) afterPaid(ctx context.Context, p *model.PaymentModel) {
	if err := promiseService.FulfillForPayment(ctx, r.DB, p.PaymentSchoolID, p.PaymentStudentID, p.PaymentID, p.PaymentAmount); err != nil {
		log.Printf("[ERROR] promise fulfilment after payment %s: %v", p.PaymentID, err)
	}

	if addr := studentModel.GuardianEmailForStudent(ctx, r.DB, p.PaymentSchoolID, p.PaymentStudentID); addr != "" {
		notifier.SendAsync(r.Notifier, addr,
			"Payment received",
			fmt.Sprintf("A payment of %d %s has been confirmed.", p.PaymentAmount, p.PaymentCurrency))
	}
}
