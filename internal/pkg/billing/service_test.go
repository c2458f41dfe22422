package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitpulseapp/fitpulse/app/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	plans         map[string]*models.SubscriptionPlan
	subscriptions []*models.Subscription
	payments      []*models.PaymentHistory
	users         map[uint]*models.User
	events        map[string]*models.WebhookEvent

	failCreateSubscription bool
	failCreatePayment      bool
	failListSubscriptions  bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		plans:  make(map[string]*models.SubscriptionPlan),
		users:  make(map[uint]*models.User),
		events: make(map[string]*models.WebhookEvent),
	}
}

func (f *fakeRepository) ListActivePlans(interval string) ([]models.SubscriptionPlan, error) {
	var out []models.SubscriptionPlan
	for _, p := range f.plans {
		if p.IsActive && p.Interval == interval {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetPlanByID(id string) (*models.SubscriptionPlan, error) {
	if p, ok := f.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListActiveEquivalentSubscriptions(userID uint) ([]models.Subscription, error) {
	if f.failListSubscriptions {
		return nil, errors.New("store unreachable")
	}
	var out []models.Subscription
	for _, s := range f.subscriptions {
		if s.UserID == userID && s.IsActiveEquivalent() {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateSubscription(sub *models.Subscription) error {
	if f.failCreateSubscription {
		return errors.New("insert failed")
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub.CreatedAt = time.Now()
	f.subscriptions = append(f.subscriptions, sub)
	return nil
}

func (f *fakeRepository) UpsertSubscriptionByProviderRef(sub *models.Subscription) error {
	for _, existing := range f.subscriptions {
		if existing.StripeSubscriptionID == sub.StripeSubscriptionID {
			existing.UserID = sub.UserID
			existing.PlanID = sub.PlanID
			existing.Status = sub.Status
			existing.CurrentPeriodStart = sub.CurrentPeriodStart
			existing.CurrentPeriodEnd = sub.CurrentPeriodEnd
			existing.TrialStart = sub.TrialStart
			existing.TrialEnd = sub.TrialEnd
			existing.CancelAt = sub.CancelAt
			existing.CanceledAt = sub.CanceledAt
			*sub = *existing
			return nil
		}
	}
	return f.CreateSubscription(sub)
}

func (f *fakeRepository) GetSubscriptionByProviderRef(providerRef string) (*models.Subscription, error) {
	for _, s := range f.subscriptions {
		if s.StripeSubscriptionID == providerRef {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpdateSubscription(id string, updates map[string]interface{}) error {
	for _, s := range f.subscriptions {
		if s.ID != id {
			continue
		}
		if v, ok := updates["status"]; ok {
			s.Status = v.(string)
		}
		if v, ok := updates["current_period_start"]; ok {
			s.CurrentPeriodStart, _ = v.(*time.Time)
		}
		if v, ok := updates["current_period_end"]; ok {
			s.CurrentPeriodEnd, _ = v.(*time.Time)
		}
		if v, ok := updates["cancel_at"]; ok {
			s.CancelAt, _ = v.(*time.Time)
		}
		if v, ok := updates["canceled_at"]; ok {
			s.CanceledAt, _ = v.(*time.Time)
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepository) CreatePaymentRecord(record *models.PaymentHistory) error {
	if f.failCreatePayment {
		return errors.New("insert failed")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	f.payments = append(f.payments, record)
	return nil
}

func (f *fakeRepository) ListPaymentHistoryByUser(userID uint) ([]models.PaymentHistory, error) {
	var out []models.PaymentHistory
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetUserByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	key := event.Provider + ":" + event.ProviderEventID
	if stored, ok := f.events[key]; ok {
		return false, stored, nil
	}
	event.ID = uint(len(f.events) + 1)
	f.events[key] = event
	return true, event, nil
}

func (f *fakeRepository) MarkWebhookProcessed(id uint, processingError string) error {
	for _, e := range f.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.ProcessingError = processingError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// fakeProcessor records calls and returns canned responses.
type fakeProcessor struct {
	sessions      []CheckoutSessionParams
	session       *CheckoutSession
	sessionErr    error
	subscriptions map[string]*ProviderSubscription
}

func (f *fakeProcessor) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	f.sessions = append(f.sessions, params)
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	if f.session != nil {
		return f.session, nil
	}
	return &CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example.com/cs_test_1"}, nil
}

func (f *fakeProcessor) GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error) {
	if sub, ok := f.subscriptions[subscriptionID]; ok {
		return sub, nil
	}
	return nil, errors.New("no such subscription")
}

// captureEffects collects non-fatal side effect failures for assertions.
type captureEffects struct {
	ops []string
}

func (c *captureEffects) Record(op string, err error) {
	c.ops = append(c.ops, op)
}

func newTestService(repo *fakeRepository, proc *fakeProcessor) (*Service, *captureEffects) {
	effects := &captureEffects{}
	return NewService(repo, proc, effects), effects
}

func seedPlan(repo *fakeRepository, id string, price float64, interval string, trialDays int) *models.SubscriptionPlan {
	plan := &models.SubscriptionPlan{
		ID:        id,
		Name:      "Plan " + id,
		Price:     price,
		Interval:  interval,
		TrialDays: trialDays,
		IsActive:  true,
	}
	repo.plans[id] = plan
	return plan
}

func TestInitiateSubscription_TrialPath(t *testing.T) {
	repo := newFakeRepository()
	seedPlan(repo, "p1", 9.99, models.PlanIntervalMonthly, 7)
	repo.users[1] = &models.User{ID: 1, Email: "u1@example.com"}
	svc, effects := newTestService(repo, &fakeProcessor{})

	result, err := svc.InitiateSubscription(context.Background(), 1, "p1")
	require.NoError(t, err)
	assert.True(t, result.TrialActivated)
	assert.Equal(t, "/subscription/success", result.RedirectURL)

	require.Len(t, repo.subscriptions, 1)
	sub := repo.subscriptions[0]
	assert.Equal(t, models.SubscriptionStatusTrialing, sub.Status)
	require.NotNil(t, sub.TrialStart)
	require.NotNil(t, sub.TrialEnd)
	assert.Equal(t, 7*24*time.Hour, sub.TrialEnd.Sub(*sub.TrialStart))

	require.Len(t, repo.payments, 1)
	payment := repo.payments[0]
	assert.Equal(t, float64(0), payment.Amount)
	assert.Equal(t, models.PaymentStatusSucceeded, payment.Status)
	assert.Equal(t, models.PaymentMethodFreeTrial, payment.PaymentMethod)
	assert.Empty(t, effects.ops)
}

func TestInitiateSubscription_PaidPathDefersToProcessor(t *testing.T) {
	repo := newFakeRepository()
	seedPlan(repo, "p2", 19.99, models.PlanIntervalMonthly, 0)
	repo.users[1] = &models.User{ID: 1, Email: "u1@example.com"}
	proc := &fakeProcessor{}
	svc, _ := newTestService(repo, proc)

	result, err := svc.InitiateSubscription(context.Background(), 1, "p2")
	require.NoError(t, err)
	assert.False(t, result.TrialActivated)
	assert.Equal(t, "https://checkout.example.com/cs_test_1", result.RedirectURL)
	assert.Equal(t, "cs_test_1", result.SessionID)

	// Local record creation is deferred to the webhook path.
	assert.Empty(t, repo.subscriptions)
	assert.Empty(t, repo.payments)

	require.Len(t, proc.sessions, 1)
	params := proc.sessions[0]
	assert.Equal(t, uint(1), params.UserID)
	assert.Equal(t, "p2", params.PlanID)
	assert.Equal(t, int64(1999), params.PriceCents)
}

func TestInitiateSubscription_AlreadySubscribed(t *testing.T) {
	repo := newFakeRepository()
	seedPlan(repo, "p1", 9.99, models.PlanIntervalMonthly, 7)
	repo.users[1] = &models.User{ID: 1, Email: "u1@example.com"}
	svc, _ := newTestService(repo, &fakeProcessor{})

	_, err := svc.InitiateSubscription(context.Background(), 1, "p1")
	require.NoError(t, err)

	_, err = svc.InitiateSubscription(context.Background(), 1, "p1")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
	assert.Len(t, repo.subscriptions, 1)
	assert.Len(t, repo.payments, 1)
}

func TestInitiateSubscription_Errors(t *testing.T) {
	repo := newFakeRepository()
	repo.users[1] = &models.User{ID: 1, Email: "u1@example.com"}
	svc, _ := newTestService(repo, &fakeProcessor{})

	_, err := svc.InitiateSubscription(context.Background(), 0, "p1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.InitiateSubscription(context.Background(), 1, "missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	seedPlan(repo, "p1", 9.99, models.PlanIntervalMonthly, 7)
	repo.failListSubscriptions = true
	_, err = svc.InitiateSubscription(context.Background(), 1, "p1")
	assert.ErrorIs(t, err, ErrDataAccess)
	repo.failListSubscriptions = false

	repo.failCreateSubscription = true
	_, err = svc.InitiateSubscription(context.Background(), 1, "p1")
	assert.ErrorIs(t, err, ErrSubscriptionCreationFailed)
}

func TestInitiateSubscription_CheckoutSessionFailure(t *testing.T) {
	repo := newFakeRepository()
	seedPlan(repo, "p2", 19.99, models.PlanIntervalMonthly, 0)
	repo.users[1] = &models.User{ID: 1, Email: "u1@example.com"}
	proc := &fakeProcessor{sessionErr: errors.New("processor down")}
	svc, _ := newTestService(repo, proc)

	_, err := svc.InitiateSubscription(context.Background(), 1, "p2")
	assert.ErrorIs(t, err, ErrCheckoutSessionFailed)
	assert.Empty(t, repo.subscriptions)
}

func TestInitiateSubscription_PaymentHistoryFailureIsNonFatal(t *testing.T) {
	repo := newFakeRepository()
	seedPlan(repo, "p1", 9.99, models.PlanIntervalMonthly, 14)
	repo.users[1] = &models.User{ID: 1, Email: "u1@example.com"}
	repo.failCreatePayment = true
	svc, effects := newTestService(repo, &fakeProcessor{})

	result, err := svc.InitiateSubscription(context.Background(), 1, "p1")
	require.NoError(t, err)
	assert.True(t, result.TrialActivated)
	assert.Len(t, repo.subscriptions, 1)
	assert.Empty(t, repo.payments)
	assert.Equal(t, []string{"payment_history.create"}, effects.ops)
}

func TestActiveSubscription_NoneIsNotAnError(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := newTestService(repo, &fakeProcessor{})

	sub, err := svc.ActiveSubscription(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestActiveSubscription_MostRecentWins(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := newTestService(repo, &fakeProcessor{})

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	repo.subscriptions = []*models.Subscription{
		{ID: "s_old", UserID: 7, Status: models.SubscriptionStatusActive, CurrentPeriodStart: &older},
		{ID: "s_new", UserID: 7, Status: models.SubscriptionStatusTrialing, CurrentPeriodStart: &newer},
		{ID: "s_nil", UserID: 7, Status: models.SubscriptionStatusActive},
	}

	sub, err := svc.ActiveSubscription(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "s_new", sub.ID)
}

func TestRecordWebhookEvent_Deduplicates(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := newTestService(repo, &fakeProcessor{})

	created, stored, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		ProviderEventID: "evt_1",
		EventType:       EventSubscriptionDeleted,
		PayloadJSON:     "{}",
		SignatureValid:  true,
	})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, stored)

	created, _, err = svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		ProviderEventID: "evt_1",
		EventType:       EventSubscriptionDeleted,
		PayloadJSON:     "{}",
		SignatureValid:  true,
	})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRecordWebhookEvent_HashFallbackForMissingID(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := newTestService(repo, &fakeProcessor{})

	created, stored, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		EventType:   "ping",
		PayloadJSON: `{"n":1}`,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, stored.ProviderEventID, "hash:")
}
