package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fitpulseapp/fitpulse/app/models"
	"gorm.io/gorm"
)

// successRedirectPath is where trial activations land without visiting the
// processor.
const successRedirectPath = "/subscription/success"

// Service owns the subscription lifecycle: plan catalog reads, the checkout
// orchestration and the webhook-driven reconciliation.
type Service struct {
	repo      Repository
	processor ProcessorClient
	effects   SideEffectLog
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, processor ProcessorClient, effects SideEffectLog) *Service {
	if effects == nil {
		effects = NewLogSideEffects()
	}
	return &Service{repo: repo, processor: processor, effects: effects}
}

// NewServiceFromDB creates a billing service from a GORM DB handle with the
// env-configured processor client.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewStripeClientFromEnv(), NewLogSideEffects())
}

// ListActivePlans returns active catalog plans for an interval, cheapest
// first.
func (s *Service) ListActivePlans(ctx context.Context, interval string) ([]models.SubscriptionPlan, error) {
	_ = ctx
	plans, err := s.repo.ListActivePlans(NormalizeInterval(interval))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataAccess, err)
	}
	return plans, nil
}

// ActiveSubscription returns the user's subscription in an active-equivalent
// state, or nil when there is none. Multiple matches are a data anomaly from
// the unguarded checkout race; the most recent row wins and the rest are
// logged.
func (s *Service) ActiveSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	_ = ctx
	if userID == 0 {
		return nil, nil
	}

	subs, err := s.repo.ListActiveEquivalentSubscriptions(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataAccess, err)
	}
	if len(subs) == 0 {
		return nil, nil
	}
	if len(subs) > 1 {
		log.Printf("billing: user %d holds %d active-equivalent subscriptions, taking most recent", userID, len(subs))
	}
	return mostRecentSubscription(subs), nil
}

// mostRecentSubscription picks a deterministic winner: latest period start,
// rows without one last, creation time as tie-break.
func mostRecentSubscription(subs []models.Subscription) *models.Subscription {
	sort.SliceStable(subs, func(i, j int) bool {
		a, b := subs[i].CurrentPeriodStart, subs[j].CurrentPeriodStart
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
	return &subs[0]
}

// InitiateSubscription runs the checkout orchestration for one user and plan.
// Trial plans activate immediately; paid plans defer to the processor's
// hosted checkout, with local record creation left to the webhook.
func (s *Service) InitiateSubscription(ctx context.Context, userID uint, planID string) (*CheckoutResult, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	plan, err := s.repo.GetPlanByID(strings.TrimSpace(planID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDataAccess, err)
	}

	// Read-then-write check; concurrent double submission from the same user
	// is a known race (no transactional guard).
	existing, err := s.ActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySubscribed
	}

	if plan.HasTrial() {
		return s.activateTrial(plan, userID)
	}
	return s.startPaidCheckout(ctx, plan, userID)
}

func (s *Service) activateTrial(plan *models.SubscriptionPlan, userID uint) (*CheckoutResult, error) {
	now := time.Now()
	trialEnd := now.AddDate(0, 0, plan.TrialDays)

	sub := &models.Subscription{
		UserID:             userID,
		PlanID:             plan.ID,
		Status:             models.SubscriptionStatusTrialing,
		CurrentPeriodStart: &now,
		CurrentPeriodEnd:   &trialEnd,
		TrialStart:         &now,
		TrialEnd:           &trialEnd,
	}
	if err := s.repo.CreateSubscription(sub); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubscriptionCreationFailed, err)
	}

	// Best effort: a failed history insert must not undo the activation.
	record := &models.PaymentHistory{
		UserID:         userID,
		SubscriptionID: sub.ID,
		Amount:         0,
		Currency:       "usd",
		Status:         models.PaymentStatusSucceeded,
		Description:    "Free trial - " + plan.Name,
		PaymentMethod:  models.PaymentMethodFreeTrial,
	}
	if err := s.repo.CreatePaymentRecord(record); err != nil {
		s.effects.Record("payment_history.create", err)
	}

	return &CheckoutResult{
		RedirectURL:    successRedirectPath,
		SubscriptionID: sub.ID,
		TrialActivated: true,
	}, nil
}

func (s *Service) startPaidCheckout(ctx context.Context, plan *models.SubscriptionPlan, userID uint) (*CheckoutResult, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataAccess, err)
	}

	session, err := s.processor.CreateCheckoutSession(ctx, CheckoutSessionParams{
		UserID:        userID,
		UserEmail:     user.Email,
		PlanID:        plan.ID,
		PlanName:      plan.Name,
		PriceCents:    int64(math.Round(plan.Price * 100)),
		Currency:      "usd",
		Interval:      plan.Interval,
		StripePriceID: plan.StripePriceID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckoutSessionFailed, err)
	}

	return &CheckoutResult{
		RedirectURL: session.URL,
		SessionID:   session.ID,
	}, nil
}

// PaymentHistory lists a user's payment records, newest first.
func (s *Service) PaymentHistory(ctx context.Context, userID uint) ([]models.PaymentHistory, error) {
	_ = ctx
	records, err := s.repo.ListPaymentHistoryByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataAccess, err)
	}
	return records, nil
}

// RecordWebhookEvent persists webhook payloads idempotently. A repeated
// provider event id reports created=false so redeliveries are acknowledged
// without reprocessing.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.WebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        ProviderStripe,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional
// error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
