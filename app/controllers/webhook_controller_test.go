package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpulseapp/fitpulse/app/models"
	"github.com/fitpulseapp/fitpulse/internal/pkg/billing"
)

const testWebhookSecret = "whsec_test"

// webhookRepo is a billing.Repository double that records what the handler
// touched. Only the webhook paths are exercised here.
type webhookRepo struct {
	events        map[string]*models.WebhookEvent
	nextID        uint
	processedIDs  []uint
	processedErrs []string
}

func newWebhookRepo() *webhookRepo {
	return &webhookRepo{events: map[string]*models.WebhookEvent{}, nextID: 1}
}

func (r *webhookRepo) ListActivePlans(string) ([]models.SubscriptionPlan, error) { return nil, nil }
func (r *webhookRepo) GetPlanByID(string) (*models.SubscriptionPlan, error) {
	return nil, nil
}
func (r *webhookRepo) ListActiveEquivalentSubscriptions(uint) ([]models.Subscription, error) {
	return nil, nil
}
func (r *webhookRepo) CreateSubscription(*models.Subscription) error              { return nil }
func (r *webhookRepo) UpsertSubscriptionByProviderRef(*models.Subscription) error { return nil }
func (r *webhookRepo) GetSubscriptionByProviderRef(string) (*models.Subscription, error) {
	return nil, nil
}
func (r *webhookRepo) UpdateSubscription(string, map[string]interface{}) error { return nil }
func (r *webhookRepo) CreatePaymentRecord(*models.PaymentHistory) error        { return nil }
func (r *webhookRepo) ListPaymentHistoryByUser(uint) ([]models.PaymentHistory, error) {
	return nil, nil
}
func (r *webhookRepo) GetUserByID(uint) (*models.User, error) { return nil, nil }

func (r *webhookRepo) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	if existing, ok := r.events[event.ProviderEventID]; ok {
		return false, existing, nil
	}
	stored := *event
	stored.ID = r.nextID
	r.nextID++
	r.events[event.ProviderEventID] = &stored
	return true, &stored, nil
}

func (r *webhookRepo) MarkWebhookProcessed(id uint, processingError string) error {
	r.processedIDs = append(r.processedIDs, id)
	r.processedErrs = append(r.processedErrs, processingError)
	return nil
}

func newWebhookTestApp(repo *webhookRepo) *fiber.App {
	InitializeSubscriptionController(billing.NewService(repo, nil, nil))
	app := fiber.New()
	app.Post("/webhook/stripe", HandleStripeWebhook)
	return app
}

func signedWebhookRequest(t *testing.T, body, signature string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/stripe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	return req
}

func TestHandleStripeWebhook_InvalidSignatureRejectedWithoutWrites(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	repo := newWebhookRepo()
	app := newWebhookTestApp(repo)

	body := `{"id":"evt_1","type":"customer.subscription.updated","data":{"object":{}}}`
	req := signedWebhookRequest(t, body, "t=123,v1=deadbeef")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, repo.events)
	assert.Empty(t, repo.processedIDs)
}

func TestHandleStripeWebhook_MissingSignatureRejected(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	repo := newWebhookRepo()
	app := newWebhookTestApp(repo)

	req := signedWebhookRequest(t, `{"id":"evt_1","type":"x","data":{"object":{}}}`, "")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, repo.events)
}

func TestHandleStripeWebhook_ValidEventStoredAndAcknowledged(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	repo := newWebhookRepo()
	app := newWebhookTestApp(repo)

	body := `{"id":"evt_ok","type":"some.unhandled.event","data":{"object":{}}}`
	sig := billing.SignaturePayload([]byte(body), testWebhookSecret, time.Now())
	req := signedWebhookRequest(t, body, sig)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored, ok := repo.events["evt_ok"]
	require.True(t, ok)
	assert.Equal(t, "some.unhandled.event", stored.EventType)
	assert.True(t, stored.SignatureValid)
	require.Len(t, repo.processedIDs, 1)
	assert.Equal(t, stored.ID, repo.processedIDs[0])
	assert.Empty(t, repo.processedErrs[0])
}

func TestHandleStripeWebhook_DuplicateAcknowledgedWithoutReprocessing(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	repo := newWebhookRepo()
	app := newWebhookTestApp(repo)

	body := `{"id":"evt_dup","type":"some.unhandled.event","data":{"object":{}}}`
	sig := billing.SignaturePayload([]byte(body), testWebhookSecret, time.Now())

	resp, err := app.Test(signedWebhookRequest(t, body, sig), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(signedWebhookRequest(t, body, sig), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// One stored row, processed exactly once.
	assert.Len(t, repo.events, 1)
	assert.Len(t, repo.processedIDs, 1)
}

func TestHandleStripeWebhook_UnparseablePayloadStillAcknowledged(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	repo := newWebhookRepo()
	app := newWebhookTestApp(repo)

	body := `this is not json`
	sig := billing.SignaturePayload([]byte(body), testWebhookSecret, time.Now())
	req := signedWebhookRequest(t, body, sig)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, repo.processedErrs, 1)
	assert.NotEmpty(t, repo.processedErrs[0])
}
