// file: internals/features/finance/payments/controller/webhook_controller_test.go
package controller

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sekolahku_backend/internals/features/finance/payments/gateway"
	"sekolahku_backend/internals/features/finance/payments/model"
	promiseModel "sekolahku_backend/internals/features/finance/promises/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
)

const testServerKey = "sk-webhook-test"

func newWebhookApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.PaymentModel{},
		&model.PaymentGatewayEventModel{},
		&promiseModel.PaymentPromiseModel{},
		&studentModel.StudentModel{},
		&studentModel.GuardianModel{},
	))

	reg := gateway.NewRegistry(gateway.NewMidtransGateway(testServerKey, false))
	wh := NewWebhookController(db, reg, nil)

	app := fiber.New()
	app.Post("/payments/webhooks/:provider", wh.HandleNotification)
	app.Get("/payments/webhooks/:provider", wh.Ping)
	return app, db
}

func signedMidtransBody(orderID, statusCode, grossAmount, status string) []byte {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return []byte(`{"order_id":"` + orderID + `","status_code":"` + statusCode +
		`","gross_amount":"` + grossAmount + `","transaction_status":"` + status +
		`","transaction_id":"mt-evt-1","signature_key":"` + hex.EncodeToString(sum[:]) + `"}`)
}

func postWebhook(t *testing.T, app *fiber.App, path string, body []byte) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestWebhookBadSignatureRejectedAndLedgered(t *testing.T) {
	app, db := newWebhookApp(t)

	body := []byte(`{"order_id":"PAY-x","status_code":"200","gross_amount":"50000.00","transaction_status":"settlement","signature_key":"bogus"}`)
	resp := postWebhook(t, app, "/payments/webhooks/midtrans", body)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// even a rejected notification leaves its ledger row, marked failed
	var row model.PaymentGatewayEventModel
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, model.GatewayEventStatusFailed, row.GatewayEventStatus)
	require.NotNil(t, row.GatewayEventError)
	assert.Contains(t, *row.GatewayEventError, "verification failed")

	// and nothing was mutated
	var n int64
	require.NoError(t, db.Model(&model.PaymentModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestWebhookApprovedNotificationMarksPaid(t *testing.T) {
	app, db := newWebhookApp(t)

	p := model.PaymentModel{
		PaymentSchoolID:  uuid.New(),
		PaymentStudentID: uuid.New(),
		PaymentTariffID:  uuid.New(),
		PaymentAmount:    50000,
		PaymentCurrency:  "CLP",
		PaymentStatus:    model.PaymentStatusPending,
		PaymentProvider:  model.GatewayProviderMidtrans,
		PaymentMeta:      datatypes.JSONMap{model.MetaKeyCorrelationRef: "PAY-wh-1"},
	}
	require.NoError(t, db.Create(&p).Error)

	resp := postWebhook(t, app, "/payments/webhooks/midtrans",
		signedMidtransBody("PAY-wh-1", "200", "50000.00", "settlement"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got model.PaymentModel
	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)

	var evt model.PaymentGatewayEventModel
	require.NoError(t, db.First(&evt).Error)
	assert.Equal(t, model.GatewayEventStatusProcessed, evt.GatewayEventStatus)
	assert.False(t, evt.GatewayEventOrphan)
	require.NotNil(t, evt.GatewayEventPaymentID)
	assert.Equal(t, p.PaymentID, *evt.GatewayEventPaymentID)
	require.NotNil(t, evt.GatewayEventSchoolID)
	assert.Equal(t, p.PaymentSchoolID, *evt.GatewayEventSchoolID)
}

func TestWebhookReplayKeepsPaymentPaid(t *testing.T) {
	app, db := newWebhookApp(t)

	p := model.PaymentModel{
		PaymentSchoolID:  uuid.New(),
		PaymentStudentID: uuid.New(),
		PaymentTariffID:  uuid.New(),
		PaymentAmount:    50000,
		PaymentCurrency:  "CLP",
		PaymentStatus:    model.PaymentStatusPending,
		PaymentProvider:  model.GatewayProviderMidtrans,
		PaymentMeta:      datatypes.JSONMap{model.MetaKeyCorrelationRef: "PAY-wh-2"},
	}
	require.NoError(t, db.Create(&p).Error)

	body := signedMidtransBody("PAY-wh-2", "200", "50000.00", "settlement")
	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, "/payments/webhooks/midtrans", body).StatusCode)
	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, "/payments/webhooks/midtrans", body).StatusCode)

	var got model.PaymentModel
	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)

	// duplicates are allowed in the ledger, one row per delivery
	var n int64
	require.NoError(t, db.Model(&model.PaymentGatewayEventModel{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestWebhookOrphanNotificationRetained(t *testing.T) {
	app, db := newWebhookApp(t)

	resp := postWebhook(t, app, "/payments/webhooks/midtrans",
		signedMidtransBody("PAY-ghost", "200", "10000.00", "settlement"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var evt model.PaymentGatewayEventModel
	require.NoError(t, db.First(&evt).Error)
	assert.Equal(t, model.GatewayEventStatusProcessed, evt.GatewayEventStatus)
	assert.True(t, evt.GatewayEventOrphan)
	assert.Nil(t, evt.GatewayEventPaymentID)
}

func TestWebhookUnknownProvider(t *testing.T) {
	app, _ := newWebhookApp(t)
	resp := postWebhook(t, app, "/payments/webhooks/stripe", []byte(`{}`))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWebhookPing(t *testing.T) {
	app, _ := newWebhookApp(t)
	req := httptest.NewRequest(http.MethodGet, "/payments/webhooks/tripay", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
