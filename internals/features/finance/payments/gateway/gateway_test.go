// file: internals/features/finance/payments/gateway/gateway_test.go
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func midtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestMidtransVerify(t *testing.T) {
	g := NewMidtransGateway("sk-test", false)

	body := map[string]any{
		"order_id":      "PAY-abc",
		"status_code":   "200",
		"gross_amount":  "50000.00",
		"signature_key": midtransSignature("PAY-abc", "200", "50000.00", "sk-test"),
	}
	res := g.Verify(nil, body, nil)
	assert.True(t, res.OK)
	assert.False(t, res.TrustDowngrade)

	body["signature_key"] = "deadbeef"
	res = g.Verify(nil, body, nil)
	assert.False(t, res.OK)
	assert.Equal(t, "signature mismatch", res.Reason)

	delete(body, "signature_key")
	res = g.Verify(nil, body, nil)
	assert.False(t, res.OK)
}

func TestMidtransVerifyTrustDowngrade(t *testing.T) {
	g := NewMidtransGateway("", false)
	res := g.Verify(nil, map[string]any{"order_id": "PAY-abc"}, nil)
	assert.True(t, res.OK)
	assert.True(t, res.TrustDowngrade)
}

func TestMidtransExtractIdentifiers(t *testing.T) {
	g := NewMidtransGateway("sk-test", false)
	ids := g.ExtractIdentifiers(map[string]any{
		"transaction_id":     "mt-123",
		"order_id":           "PAY-abc",
		"transaction_status": "settlement",
	})
	assert.Equal(t, "mt-123", ids.ProviderPaymentID)
	assert.Equal(t, "PAY-abc", ids.CorrelationRef)
	assert.Equal(t, "settlement", ids.RawStatus)
}

func TestXenditVerify(t *testing.T) {
	g := NewXenditGateway("cb-secret", "")

	res := g.Verify(map[string]string{"x-callback-token": "cb-secret"}, nil, nil)
	assert.True(t, res.OK)

	res = g.Verify(map[string]string{"x-callback-token": "wrong"}, nil, nil)
	assert.False(t, res.OK)

	res = g.Verify(map[string]string{}, nil, nil)
	assert.False(t, res.OK)
	assert.Equal(t, "x-callback-token header missing", res.Reason)
}

func TestXenditVerifyTrustDowngrade(t *testing.T) {
	g := NewXenditGateway("", "")
	res := g.Verify(map[string]string{}, nil, nil)
	assert.True(t, res.OK)
	assert.True(t, res.TrustDowngrade)
}

// Xendit payload shapes drifted across API versions; the field table must
// cover flat, data-wrapped and legacy collection-wrapped bodies.
func TestXenditExtractIdentifiersShapeVariants(t *testing.T) {
	g := NewXenditGateway("cb-secret", "")

	flat := g.ExtractIdentifiers(map[string]any{
		"id": "inv-1", "external_id": "PAY-abc", "status": "PAID",
	})
	assert.Equal(t, "inv-1", flat.ProviderPaymentID)
	assert.Equal(t, "PAY-abc", flat.CorrelationRef)
	assert.Equal(t, "PAID", flat.RawStatus)

	wrapped := g.ExtractIdentifiers(map[string]any{
		"data": map[string]any{"id": "inv-2", "external_id": "PAY-def", "status": "SETTLED"},
	})
	assert.Equal(t, "inv-2", wrapped.ProviderPaymentID)
	assert.Equal(t, "PAY-def", wrapped.CorrelationRef)
	assert.Equal(t, "SETTLED", wrapped.RawStatus)

	legacy := g.ExtractIdentifiers(map[string]any{
		"collection":         map[string]any{"id": "inv-3"},
		"external_reference": "PAY-ghi",
	})
	assert.Equal(t, "inv-3", legacy.ProviderPaymentID)
	assert.Equal(t, "PAY-ghi", legacy.CorrelationRef)
}

func TestTripayVerify(t *testing.T) {
	g := NewTripayGateway("pk-test", "", "T0001")

	rawBody := []byte(`{"reference":"T0001-1","merchant_ref":"PAY-abc","status":"PAID"}`)
	m := hmac.New(sha256.New, []byte("pk-test"))
	m.Write(rawBody)
	sig := hex.EncodeToString(m.Sum(nil))

	res := g.Verify(map[string]string{"x-callback-signature": sig}, nil, rawBody)
	assert.True(t, res.OK)

	// any body mutation invalidates the raw-body HMAC
	res = g.Verify(map[string]string{"x-callback-signature": sig}, nil, append(rawBody, ' '))
	assert.False(t, res.OK)

	res = g.Verify(map[string]string{}, nil, rawBody)
	assert.False(t, res.OK)
	assert.Equal(t, "x-callback-signature header missing", res.Reason)
}

func TestTripayVerifyTrustDowngrade(t *testing.T) {
	g := NewTripayGateway("", "", "T0001")
	res := g.Verify(map[string]string{}, nil, []byte("{}"))
	assert.True(t, res.OK)
	assert.True(t, res.TrustDowngrade)
}

func TestTripayExtractIdentifiers(t *testing.T) {
	g := NewTripayGateway("pk-test", "", "T0001")
	ids := g.ExtractIdentifiers(map[string]any{
		"reference":    "T0001-1",
		"merchant_ref": "PAY-abc",
		"status":       "UNPAID",
	})
	assert.Equal(t, "T0001-1", ids.ProviderPaymentID)
	assert.Equal(t, "PAY-abc", ids.CorrelationRef)
	assert.Equal(t, "UNPAID", ids.RawStatus)
}

// Providers send ids as strings or JSON numbers interchangeably.
func TestDigStringNumericIDs(t *testing.T) {
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"id":981234}}`), &body))
	assert.Equal(t, "981234", digString(body, "data.id"))
	assert.Equal(t, "", digString(body, "data.missing"))
	assert.Equal(t, "", digString(body, "data.id.deeper"))
}

func TestRegistryForProvider(t *testing.T) {
	reg := NewRegistry(
		NewMidtransGateway("sk", false),
		NewXenditGateway("cb", ""),
		NewTripayGateway("pk", "", "T0001"),
	)

	g, ok := reg.ForProvider("midtrans")
	require.True(t, ok)
	assert.Equal(t, "midtrans", string(g.Provider()))

	g, ok = reg.ForProvider("  XENDIT ")
	require.True(t, ok)
	assert.Equal(t, "xendit", string(g.Provider()))

	_, ok = reg.ForProvider("stripe")
	assert.False(t, ok)
}
