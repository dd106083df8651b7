// file: internals/features/finance/payments/gateway/xendit.go
package gateway

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"log"
	"strings"

	"sekolahku_backend/internals/features/finance/payments/model"
)

/*
	Xendit authenticates callbacks with a shared-secret x-callback-token
	header. Invoice callbacks arrive either flat or wrapped in "data"
	depending on API version; very old integrations wrapped in "collection".
*/

const xenditInvoiceURL = "https://api.xendit.co/v2/invoices"

var xenditIdentifierTable = struct {
	paymentID []string
	orderRef  []string
	status    []string
}{
	paymentID: []string{"id", "data.id", "collection.id"},
	orderRef:  []string{"external_id", "external_reference", "data.external_id"},
	status:    []string{"status", "data.status"},
}

type XenditGateway struct {
	callbackToken string
	apiKey        string
}

func NewXenditGateway(callbackToken, apiKey string) *XenditGateway {
	return &XenditGateway{callbackToken: callbackToken, apiKey: apiKey}
}

func (g *XenditGateway) Provider() model.PaymentGatewayProvider {
	return model.GatewayProviderXendit
}

func (g *XenditGateway) Verify(headers map[string]string, body map[string]any, rawBody []byte) VerifyResult {
	if g.callbackToken == "" {
		log.Println("[WARN] xendit: no callback token configured, accepting notification UNVERIFIED (trust downgrade)")
		return VerifyResult{OK: true, TrustDowngrade: true, Reason: "no callback token configured"}
	}

	got := strings.TrimSpace(headers["x-callback-token"])
	if got == "" {
		return VerifyResult{OK: false, Reason: "x-callback-token header missing"}
	}
	if subtle.ConstantTimeCompare([]byte(got), []byte(g.callbackToken)) != 1 {
		return VerifyResult{OK: false, Reason: "callback token mismatch"}
	}
	return VerifyResult{OK: true}
}

func (g *XenditGateway) ExtractIdentifiers(body map[string]any) Identifiers {
	return Identifiers{
		ProviderPaymentID: firstNonEmpty(body, xenditIdentifierTable.paymentID),
		CorrelationRef:    firstNonEmpty(body, xenditIdentifierTable.orderRef),
		RawStatus:         firstNonEmpty(body, xenditIdentifierTable.status),
	}
}

func (g *XenditGateway) CreateCheckout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	payload := map[string]any{
		"external_id": in.OrderRef,
		"amount":      in.Amount,
		"currency":    in.Currency,
		"description": in.Description,
		"payer_email": in.CustomerEmail,
	}
	auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(g.apiKey+":"))

	resp, err := postJSONWithRetry(ctx, xenditInvoiceURL, map[string]string{"Authorization": auth}, payload)
	if err != nil {
		return CheckoutResult{}, err
	}
	return CheckoutResult{
		ProviderPaymentID: digString(resp, "id"),
		CheckoutURL:       digString(resp, "invoice_url"),
	}, nil
}
