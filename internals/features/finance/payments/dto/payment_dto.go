// file: internals/features/finance/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/features/finance/payments/model"
)

type CreatePaymentRequest struct {
	PaymentStudentID uuid.UUID  `json:"payment_student_id" validate:"required"`
	PaymentTariffID  uuid.UUID  `json:"payment_tariff_id" validate:"required"`
	PaymentProvider  string     `json:"payment_provider" validate:"required,oneof=midtrans xendit tripay"`
	PaymentDueDate   *time.Time `json:"payment_due_date,omitempty"`
	PaymentNote      *string    `json:"payment_note,omitempty" validate:"omitempty,max=500"`
}

type PaymentResponse struct {
	PaymentID                uuid.UUID                    `json:"payment_id"`
	PaymentStudentID         uuid.UUID                    `json:"payment_student_id"`
	PaymentTariffID          uuid.UUID                    `json:"payment_tariff_id"`
	PaymentAmount            int                          `json:"payment_amount"`
	PaymentCurrency          string                       `json:"payment_currency"`
	PaymentStatus            model.PaymentStatus          `json:"payment_status"`
	PaymentProvider          model.PaymentGatewayProvider `json:"payment_provider"`
	PaymentProviderPaymentID *string                      `json:"payment_provider_payment_id,omitempty"`
	PaymentCheckoutURL       *string                      `json:"payment_checkout_url,omitempty"`
	PaymentCheckoutToken     *string                      `json:"payment_checkout_token,omitempty"`
	PaymentDueDate           *time.Time                   `json:"payment_due_date,omitempty"`
	PaymentPaidAt            *time.Time                   `json:"payment_paid_at,omitempty"`
	PaymentOverdue           bool                         `json:"payment_overdue"`
	PaymentCreatedAt         time.Time                    `json:"payment_created_at"`
}

func FromPaymentModel(p *model.PaymentModel) *PaymentResponse {
	return &PaymentResponse{
		PaymentID:                p.PaymentID,
		PaymentStudentID:         p.PaymentStudentID,
		PaymentTariffID:          p.PaymentTariffID,
		PaymentAmount:            p.PaymentAmount,
		PaymentCurrency:          p.PaymentCurrency,
		PaymentStatus:            p.PaymentStatus,
		PaymentProvider:          p.PaymentProvider,
		PaymentProviderPaymentID: p.PaymentProviderPaymentID,
		PaymentCheckoutURL:       p.PaymentCheckoutURL,
		PaymentCheckoutToken:     p.PaymentCheckoutToken,
		PaymentDueDate:           p.PaymentDueDate,
		PaymentPaidAt:            p.PaymentPaidAt,
		PaymentOverdue:           p.IsOverdue(time.Now()),
		PaymentCreatedAt:         p.CreatedAt,
	}
}

type GatewayEventResponse struct {
	GatewayEventID          uuid.UUID                    `json:"gateway_event_id"`
	GatewayEventProvider    model.PaymentGatewayProvider `json:"gateway_event_provider"`
	GatewayEventSchoolID    *uuid.UUID                   `json:"gateway_event_school_id,omitempty"`
	GatewayEventPaymentID   *uuid.UUID                   `json:"gateway_event_payment_id,omitempty"`
	GatewayEventExternalID  *string                      `json:"gateway_event_external_id,omitempty"`
	GatewayEventExternalRef *string                      `json:"gateway_event_external_ref,omitempty"`
	GatewayEventStatus      model.GatewayEventStatus     `json:"gateway_event_status"`
	GatewayEventOrphan      bool                         `json:"gateway_event_orphan"`
	GatewayEventError       *string                      `json:"gateway_event_error,omitempty"`
	GatewayEventReceivedAt  time.Time                    `json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time                   `json:"gateway_event_processed_at,omitempty"`
}

func FromGatewayEventModel(e *model.PaymentGatewayEventModel) *GatewayEventResponse {
	return &GatewayEventResponse{
		GatewayEventID:          e.GatewayEventID,
		GatewayEventProvider:    e.GatewayEventProvider,
		GatewayEventSchoolID:    e.GatewayEventSchoolID,
		GatewayEventPaymentID:   e.GatewayEventPaymentID,
		GatewayEventExternalID:  e.GatewayEventExternalID,
		GatewayEventExternalRef: e.GatewayEventExternalRef,
		GatewayEventStatus:      e.GatewayEventStatus,
		GatewayEventOrphan:      e.GatewayEventOrphan,
		GatewayEventError:       e.GatewayEventError,
		GatewayEventReceivedAt:  e.GatewayEventReceivedAt,
		GatewayEventProcessedAt: e.GatewayEventProcessedAt,
	}
}
