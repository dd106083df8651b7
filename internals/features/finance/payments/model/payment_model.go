// file: internals/features/finance/payments/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MetaKeyCorrelationRef is the payment_meta key holding the app-chosen
// reference handed to the provider at checkout time. Notifications that
// arrive before the provider-assigned id is known correlate through it.
const MetaKeyCorrelationRef = "correlation_ref"

type PaymentModel struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`

	PaymentSchoolID  uuid.UUID `gorm:"column:payment_school_id;type:uuid;not null;index:idx_payments_school_student,priority:1" json:"payment_school_id"`
	PaymentStudentID uuid.UUID `gorm:"column:payment_student_id;type:uuid;not null;index:idx_payments_school_student,priority:2" json:"payment_student_id"`
	PaymentTariffID  uuid.UUID `gorm:"column:payment_tariff_id;type:uuid;not null" json:"payment_tariff_id"`

	// Amount/currency are the tariff snapshot taken at creation time.
	PaymentAmount   int    `gorm:"column:payment_amount;not null;check:payment_amount >= 0" json:"payment_amount"`
	PaymentCurrency string `gorm:"column:payment_currency;type:varchar(8);not null" json:"payment_currency"`

	PaymentStatus  PaymentStatus `gorm:"column:payment_status;type:varchar(16);not null;default:'pending'" json:"payment_status"`
	PaymentDueDate *time.Time    `gorm:"column:payment_due_date" json:"payment_due_date,omitempty"`

	// Gateway identity. ProviderPaymentID is unique per provider once known.
	PaymentProvider          PaymentGatewayProvider `gorm:"column:payment_provider;type:varchar(16);not null" json:"payment_provider"`
	PaymentProviderPaymentID *string                `gorm:"column:payment_provider_payment_id;uniqueIndex:uq_payments_provider_payment_id,where:payment_provider_payment_id IS NOT NULL" json:"payment_provider_payment_id,omitempty"`
	PaymentCheckoutURL       *string                `gorm:"column:payment_checkout_url" json:"payment_checkout_url,omitempty"`
	PaymentCheckoutToken     *string                `gorm:"column:payment_checkout_token" json:"payment_checkout_token,omitempty"`

	PaymentPaidAt      *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`
	PaymentFailedAt    *time.Time `gorm:"column:payment_failed_at" json:"payment_failed_at,omitempty"`
	PaymentCancelledAt *time.Time `gorm:"column:payment_cancelled_at" json:"payment_cancelled_at,omitempty"`

	PaymentNote *string           `gorm:"column:payment_note" json:"payment_note,omitempty"`
	PaymentMeta datatypes.JSONMap `gorm:"column:payment_meta;type:jsonb" json:"payment_meta,omitempty"`

	CreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	UpdatedAt time.Time      `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"payment_deleted_at,omitempty"`
}

func (PaymentModel) TableName() string { return "payments" }

func (p *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}

/* ===================== Helpers ===================== */

func (p *PaymentModel) IsPaid() bool {
	return p.PaymentStatus == PaymentStatusPaid
}

// IsOverdue: overdue is derived, never stored — pending plus a due date in
// the past.
func (p *PaymentModel) IsOverdue(asOf time.Time) bool {
	return p.PaymentStatus == PaymentStatusPending &&
		p.PaymentDueDate != nil &&
		p.PaymentDueDate.Before(asOf)
}

func (p *PaymentModel) CorrelationRef() string {
	if p.PaymentMeta == nil {
		return ""
	}
	if v, ok := p.PaymentMeta[MetaKeyCorrelationRef].(string); ok {
		return v
	}
	return ""
}
