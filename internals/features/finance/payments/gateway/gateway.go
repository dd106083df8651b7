// file: internals/features/finance/payments/gateway/gateway.go
package gateway

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"sekolahku_backend/internals/features/finance/payments/model"
)

/*
	One Gateway interface, three provider implementations, selected from the
	registry by the provider tag carried in the webhook path / payment row.
*/

// Identifiers is what an adapter can pull out of an inbound notification.
// Any field may be empty; the reconciler correlates with what it gets.
type Identifiers struct {
	ProviderPaymentID string // provider-assigned payment/transaction id
	CorrelationRef    string // our reference echoed back by the provider
	RawStatus         string // provider status vocabulary, untranslated
}

// VerifyResult classifies authenticity. Verification failure is an outcome,
// not an error: the caller still writes a ledger row and answers 401.
type VerifyResult struct {
	OK             bool
	TrustDowngrade bool // accepted without a secret configured — log loudly
	Reason         string
}

type CheckoutInput struct {
	OrderRef      string // our correlation reference, becomes the provider order id
	Amount        int
	Currency      string
	Description   string
	CustomerName  string
	CustomerEmail string
}

type CheckoutResult struct {
	ProviderPaymentID string // empty when the provider assigns it later
	CheckoutURL       string
	CheckoutToken     string
}

type Gateway interface {
	Provider() model.PaymentGatewayProvider

	// Verify proves an inbound notification genuine. Header keys are
	// lowercased by the caller.
	Verify(headers map[string]string, body map[string]any, rawBody []byte) VerifyResult

	// ExtractIdentifiers reads the fixed per-provider field table; payload
	// shapes vary between provider API versions.
	ExtractIdentifiers(body map[string]any) Identifiers

	CreateCheckout(ctx context.Context, in CheckoutInput) (CheckoutResult, error)
}

// ErrProviderUnavailable marks a timed-out / 5xx outbound call after retries.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

/* ===================== Registry ===================== */

type Registry struct {
	byName map[model.PaymentGatewayProvider]Gateway
}

func NewRegistry(gws ...Gateway) *Registry {
	r := &Registry{byName: make(map[model.PaymentGatewayProvider]Gateway, len(gws))}
	for _, g := range gws {
		r.byName[g.Provider()] = g
	}
	return r
}

func (r *Registry) ForProvider(name string) (Gateway, bool) {
	g, ok := r.byName[model.PaymentGatewayProvider(strings.ToLower(strings.TrimSpace(name)))]
	return g, ok
}

/* ===================== Payload field tables ===================== */

// digString walks a dotted path ("data.id") through nested maps. Numbers are
// formatted without an exponent — providers send ids as strings or numbers
// interchangeably.
func digString(body map[string]any, path string) string {
	cur := any(body)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = m[part]
		if !ok {
			return ""
		}
	}
	return stringify(cur)
}

func firstNonEmpty(body map[string]any, paths []string) string {
	for _, p := range paths {
		if v := digString(body, p); v != "" {
			return v
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; provider ids fit in int64
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}
