// file: internals/features/finance/payments/service/ledger.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/gateway"
	"sekolahku_backend/internals/features/finance/payments/model"
)

/*
	Transaction ledger. Append happens before verification and before any
	payment mutation; duplicates from provider retries are allowed (several
	providers omit a stable event id) because reconciliation downstream is
	idempotent.
*/

type Ledger struct {
	DB *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger { return &Ledger{DB: db} }

// Append writes the inbound notification as-is. Must succeed before any
// correlation runs; a crash afterwards leaves a replayable `received` row.
func (l *Ledger) Append(
	ctx context.Context,
	provider model.PaymentGatewayProvider,
	ids gateway.Identifiers,
	headers []byte,
	payload []byte,
) (uuid.UUID, error) {
	row := model.PaymentGatewayEventModel{
		GatewayEventProvider: provider,
		GatewayEventStatus:   model.GatewayEventStatusReceived,
		GatewayEventHeaders:  datatypes.JSON(headers),
		GatewayEventPayload:  datatypes.JSON(payload),
	}
	if ids.ProviderPaymentID != "" {
		row.GatewayEventExternalID = &ids.ProviderPaymentID
	}
	if ids.CorrelationRef != "" {
		row.GatewayEventExternalRef = &ids.CorrelationRef
	}
	if err := l.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return row.GatewayEventID, nil
}

type ProcessedOpts struct {
	SchoolID  *uuid.UUID
	PaymentID *uuid.UUID
	Orphan    bool
}

// MarkProcessed flips received → processed exactly once (conditional write).
func (l *Ledger) MarkProcessed(ctx context.Context, id uuid.UUID, opts ProcessedOpts) error {
	now := time.Now()
	updates := map[string]any{
		"gateway_event_status":       model.GatewayEventStatusProcessed,
		"gateway_event_orphan":       opts.Orphan,
		"gateway_event_processed_at": &now,
	}
	if opts.SchoolID != nil {
		updates["gateway_event_school_id"] = opts.SchoolID
	}
	if opts.PaymentID != nil {
		updates["gateway_event_payment_id"] = opts.PaymentID
	}
	return l.DB.WithContext(ctx).
		Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_id = ? AND gateway_event_status = ?", id, model.GatewayEventStatusReceived).
		Updates(updates).Error
}

// MarkFailed flips received → failed exactly once (conditional write).
func (l *Ledger) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	now := time.Now()
	return l.DB.WithContext(ctx).
		Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_id = ? AND gateway_event_status = ?", id, model.GatewayEventStatusReceived).
		Updates(map[string]any{
			"gateway_event_status":       model.GatewayEventStatusFailed,
			"gateway_event_error":        &reason,
			"gateway_event_processed_at": &now,
		}).Error
}
