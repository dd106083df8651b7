// file: internals/features/finance/payments/model/payment_gateway_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
  payment_gateway_events = append-only webhook ledger.
  - One row per inbound notification, verified or not. Written BEFORE any
    correlation or payment mutation, so a crash mid-processing leaves a
    replayable `received` row.
  - Many rows per payment are fine (provider retries); idempotency lives in
    the reconciler, not here.
  - The only mutation ever applied is the single received → processed|failed
    flip.
*/

type PaymentGatewayEventModel struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`

	GatewayEventSchoolID  *uuid.UUID `gorm:"column:gateway_event_school_id;type:uuid" json:"gateway_event_school_id"`
	GatewayEventPaymentID *uuid.UUID `gorm:"column:gateway_event_payment_id;type:uuid" json:"gateway_event_payment_id"`

	GatewayEventProvider    PaymentGatewayProvider `gorm:"column:gateway_event_provider;type:varchar(16);not null" json:"gateway_event_provider"`
	GatewayEventExternalID  *string                `gorm:"column:gateway_event_external_id;index:idx_gateway_events_external_id" json:"gateway_event_external_id"`
	GatewayEventExternalRef *string                `gorm:"column:gateway_event_external_ref" json:"gateway_event_external_ref"`

	// Raw data (debug / replay)
	GatewayEventHeaders datatypes.JSON `gorm:"column:gateway_event_headers;type:jsonb" json:"gateway_event_headers"`
	GatewayEventPayload datatypes.JSON `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload"`

	GatewayEventStatus GatewayEventStatus `gorm:"column:gateway_event_status;type:varchar(16);not null;default:'received'" json:"gateway_event_status"`
	GatewayEventOrphan bool               `gorm:"column:gateway_event_orphan;not null;default:false" json:"gateway_event_orphan"`
	GatewayEventError  *string            `gorm:"column:gateway_event_error" json:"gateway_event_error"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null;autoCreateTime" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at"`
}

func (PaymentGatewayEventModel) TableName() string {
	return "payment_gateway_events"
}

func (e *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if e.GatewayEventID == uuid.Nil {
		e.GatewayEventID = uuid.New()
	}
	return nil
}
