// file: internals/features/finance/payments/gateway/tripay.go
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strconv"
	"strings"

	"sekolahku_backend/internals/features/finance/payments/model"
)

/*
	Tripay signs callbacks with HMAC-SHA256 over the raw JSON body, hex in the
	X-Callback-Signature header. Outbound transaction-create requests carry
	their own HMAC(merchant_code + merchant_ref + amount) signature.
*/

const tripayTransactionURL = "https://tripay.co.id/api/transaction/create"

var tripayIdentifierTable = struct {
	paymentID []string
	orderRef  []string
	status    []string
}{
	paymentID: []string{"reference", "data.reference"},
	orderRef:  []string{"merchant_ref", "external_reference", "data.merchant_ref"},
	status:    []string{"status", "data.status"},
}

type TripayGateway struct {
	privateKey   string
	apiKey       string
	merchantCode string
}

func NewTripayGateway(privateKey, apiKey, merchantCode string) *TripayGateway {
	return &TripayGateway{privateKey: privateKey, apiKey: apiKey, merchantCode: merchantCode}
}

func (g *TripayGateway) Provider() model.PaymentGatewayProvider {
	return model.GatewayProviderTripay
}

func (g *TripayGateway) Verify(headers map[string]string, body map[string]any, rawBody []byte) VerifyResult {
	if g.privateKey == "" {
		log.Println("[WARN] tripay: no private key configured, accepting notification UNVERIFIED (trust downgrade)")
		return VerifyResult{OK: true, TrustDowngrade: true, Reason: "no private key configured"}
	}

	got := strings.TrimSpace(headers["x-callback-signature"])
	if got == "" {
		return VerifyResult{OK: false, Reason: "x-callback-signature header missing"}
	}

	m := hmac.New(sha256.New, []byte(g.privateKey))
	_, _ = m.Write(rawBody)
	expected := hex.EncodeToString(m.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(got)) {
		return VerifyResult{OK: false, Reason: "signature mismatch"}
	}
	return VerifyResult{OK: true}
}

func (g *TripayGateway) ExtractIdentifiers(body map[string]any) Identifiers {
	return Identifiers{
		ProviderPaymentID: firstNonEmpty(body, tripayIdentifierTable.paymentID),
		CorrelationRef:    firstNonEmpty(body, tripayIdentifierTable.orderRef),
		RawStatus:         firstNonEmpty(body, tripayIdentifierTable.status),
	}
}

func (g *TripayGateway) CreateCheckout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	sig := hmac.New(sha256.New, []byte(g.privateKey))
	_, _ = sig.Write([]byte(g.merchantCode + in.OrderRef + strconv.Itoa(in.Amount)))

	payload := map[string]any{
		"method":         "QRIS",
		"merchant_ref":   in.OrderRef,
		"amount":         in.Amount,
		"customer_name":  in.CustomerName,
		"customer_email": in.CustomerEmail,
		"order_items": []map[string]any{{
			"name":     in.Description,
			"price":    in.Amount,
			"quantity": 1,
		}},
		"signature": hex.EncodeToString(sig.Sum(nil)),
	}

	resp, err := postJSONWithRetry(ctx, tripayTransactionURL, map[string]string{
		"Authorization": "Bearer " + g.apiKey,
	}, payload)
	if err != nil {
		return CheckoutResult{}, err
	}
	return CheckoutResult{
		ProviderPaymentID: digString(resp, "data.reference"),
		CheckoutURL:       digString(resp, "data.checkout_url"),
	}, nil
}
