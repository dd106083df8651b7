package model

type PaymentStatus string
type PaymentGatewayProvider string
type GatewayEventStatus string

/* ===== canonical payment lifecycle (mirror DB varchar) ===== */

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"

	// PaymentStatusUnknown = no mapping for a raw provider status.
	// Never stored; the reconciler treats it as a no-op.
	PaymentStatusUnknown PaymentStatus = ""
)

const (
	GatewayProviderMidtrans PaymentGatewayProvider = "midtrans"
	GatewayProviderXendit   PaymentGatewayProvider = "xendit"
	GatewayProviderTripay   PaymentGatewayProvider = "tripay"
)

/* ===== gateway event (ledger) processing status ===== */

const (
	GatewayEventStatusReceived  GatewayEventStatus = "received"
	GatewayEventStatusProcessed GatewayEventStatus = "processed"
	GatewayEventStatusFailed    GatewayEventStatus = "failed"
)

func IsKnownProvider(p string) bool {
	switch PaymentGatewayProvider(p) {
	case GatewayProviderMidtrans, GatewayProviderXendit, GatewayProviderTripay:
		return true
	}
	return false
}
