// file: internals/features/finance/payments/service/canonical.go
package service

import (
	"strings"

	"sekolahku_backend/internals/features/finance/payments/model"
)

/*
	Status canonicalization is table-driven, per provider. An unrecognized raw
	status maps to PaymentStatusUnknown which the reconciler treats as a
	no-op: an unknown or future provider status must never force a wrong
	transition.
*/

var commonStatusTable = map[string]model.PaymentStatus{
	"approved":  model.PaymentStatusPaid,
	"paid":      model.PaymentStatusPaid,
	"completed": model.PaymentStatusPaid,

	"pending":         model.PaymentStatusPending,
	"in_process":      model.PaymentStatusPending,
	"pending_payment": model.PaymentStatusPending,

	"rejected":  model.PaymentStatusFailed,
	"cancelled": model.PaymentStatusFailed,
	"refunded":  model.PaymentStatusFailed,
	"failure":   model.PaymentStatusFailed,
	"failed":    model.PaymentStatusFailed,
}

var providerStatusTables = map[model.PaymentGatewayProvider]map[string]model.PaymentStatus{
	model.GatewayProviderMidtrans: {
		"capture":    model.PaymentStatusPaid,
		"settlement": model.PaymentStatusPaid,
		"deny":       model.PaymentStatusFailed,
		"cancel":     model.PaymentStatusFailed,
		"expire":     model.PaymentStatusFailed,
		"refund":     model.PaymentStatusFailed,
		"authorize":  model.PaymentStatusPending,
	},
	model.GatewayProviderXendit: {
		"settled": model.PaymentStatusPaid,
		"expired": model.PaymentStatusFailed,
	},
	model.GatewayProviderTripay: {
		"unpaid":  model.PaymentStatusPending,
		"expired": model.PaymentStatusFailed,
		"refund":  model.PaymentStatusFailed,
	},
}

// Canonicalize maps a provider's raw status onto the canonical lifecycle.
// Pure function; input is lowercased before lookup.
func Canonicalize(provider model.PaymentGatewayProvider, raw string) model.PaymentStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return model.PaymentStatusUnknown
	}
	if tbl, ok := providerStatusTables[provider]; ok {
		if s, ok := tbl[key]; ok {
			return s
		}
	}
	if s, ok := commonStatusTable[key]; ok {
		return s
	}
	return model.PaymentStatusUnknown
}
