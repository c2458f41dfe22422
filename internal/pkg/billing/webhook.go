package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/fitpulseapp/fitpulse/app/models"
	"gorm.io/gorm"
)

// Webhook event types the reconciler acts on. Everything else is recorded and
// ignored.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventInvoicePaymentSucceeded  = "invoice.payment_succeeded"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
)

// Event is the processor's webhook envelope.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSessionObject struct {
	ID           string            `json:"id"`
	Customer     string            `json:"customer"`
	Subscription string            `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

type invoiceObject struct {
	ID               string `json:"id"`
	Subscription     string `json:"subscription"`
	PaymentIntent    string `json:"payment_intent"`
	AmountPaid       int64  `json:"amount_paid"`
	Currency         string `json:"currency"`
	HostedInvoiceURL string `json:"hosted_invoice_url"`
	CustomerEmail    string `json:"customer_email"`
}

// ParseEvent decodes a raw webhook body into the event envelope.
func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	if ev.Type == "" {
		return nil, errors.New("webhook payload has no event type")
	}
	return &ev, nil
}

// ProcessEvent reconciles local subscription and payment state with one
// verified processor event. Callers acknowledge the delivery regardless of
// the returned error; it is stored on the webhook event record only.
func (s *Service) ProcessEvent(ctx context.Context, ev *Event) error {
	switch ev.Type {
	case EventCheckoutSessionCompleted:
		return s.handleCheckoutSessionCompleted(ctx, ev)
	case EventInvoicePaymentSucceeded:
		return s.handleInvoicePaymentSucceeded(ctx, ev)
	case EventSubscriptionUpdated:
		return s.handleSubscriptionUpdated(ctx, ev)
	case EventSubscriptionDeleted:
		return s.handleSubscriptionDeleted(ctx, ev)
	default:
		log.Printf("billing: ignoring webhook event %s (%s)", ev.ID, ev.Type)
		return nil
	}
}

// handleCheckoutSessionCompleted creates the local subscription for a paid
// checkout. The insert is keyed on the processor subscription reference so a
// redelivered event updates instead of duplicating.
func (s *Service) handleCheckoutSessionCompleted(ctx context.Context, ev *Event) error {
	var session checkoutSessionObject
	if err := json.Unmarshal(ev.Data.Object, &session); err != nil {
		return fmt.Errorf("invalid checkout session object: %w", err)
	}
	if session.Subscription == "" {
		return errors.New("checkout session carries no subscription reference")
	}

	providerSub, err := s.processor.GetSubscription(ctx, session.Subscription)
	if err != nil {
		return fmt.Errorf("fetch processor subscription %s: %w", session.Subscription, err)
	}

	userID, planID, err := resolveCheckoutIdentity(session.Metadata, providerSub.Metadata)
	if err != nil {
		return err
	}

	sub := &models.Subscription{
		UserID:               userID,
		PlanID:               planID,
		StripeSubscriptionID: providerSub.ID,
		Status:               NormalizeSubscriptionStatus(providerSub.Status),
		CurrentPeriodStart:   unixTimePtr(providerSub.CurrentPeriodStart),
		CurrentPeriodEnd:     unixTimePtr(providerSub.CurrentPeriodEnd),
		TrialStart:           unixTimePtr(providerSub.TrialStart),
		TrialEnd:             unixTimePtr(providerSub.TrialEnd),
		CancelAt:             unixTimePtr(providerSub.CancelAt),
		CanceledAt:           unixTimePtr(providerSub.CanceledAt),
	}
	if err := s.repo.UpsertSubscriptionByProviderRef(sub); err != nil {
		return fmt.Errorf("upsert subscription %s: %w", providerSub.ID, err)
	}
	return nil
}

// handleInvoicePaymentSucceeded appends a payment record for subscription
// invoices. Invoices without a subscription reference are one-off charges and
// are skipped.
func (s *Service) handleInvoicePaymentSucceeded(ctx context.Context, ev *Event) error {
	_ = ctx
	var invoice invoiceObject
	if err := json.Unmarshal(ev.Data.Object, &invoice); err != nil {
		return fmt.Errorf("invalid invoice object: %w", err)
	}
	if invoice.Subscription == "" {
		log.Printf("billing: invoice %s has no subscription, skipping", invoice.ID)
		return nil
	}

	local, err := s.repo.GetSubscriptionByProviderRef(invoice.Subscription)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("billing: invoice %s references unknown subscription %s", invoice.ID, invoice.Subscription)
			return nil
		}
		return fmt.Errorf("lookup subscription %s: %w", invoice.Subscription, err)
	}

	record := &models.PaymentHistory{
		UserID:                local.UserID,
		SubscriptionID:        local.ID,
		StripePaymentIntentID: invoice.PaymentIntent,
		Amount:                MinorUnitsToAmount(invoice.AmountPaid),
		Currency:              strings.ToLower(invoice.Currency),
		Status:                models.PaymentStatusSucceeded,
		Description:           "Subscription payment",
		PaymentMethod:         "card",
		ReceiptURL:            invoice.HostedInvoiceURL,
	}
	if err := s.repo.CreatePaymentRecord(record); err != nil {
		return fmt.Errorf("create payment record for invoice %s: %w", invoice.ID, err)
	}
	return nil
}

// handleSubscriptionUpdated mirrors the processor's record onto the local
// row located by processor reference.
func (s *Service) handleSubscriptionUpdated(ctx context.Context, ev *Event) error {
	_ = ctx
	var providerSub ProviderSubscription
	if err := json.Unmarshal(ev.Data.Object, &providerSub); err != nil {
		return fmt.Errorf("invalid subscription object: %w", err)
	}

	local, err := s.repo.GetSubscriptionByProviderRef(providerSub.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("billing: update for unknown subscription %s", providerSub.ID)
			return nil
		}
		return fmt.Errorf("lookup subscription %s: %w", providerSub.ID, err)
	}

	updates := map[string]interface{}{
		"status":               NormalizeSubscriptionStatus(providerSub.Status),
		"current_period_start": unixTimePtr(providerSub.CurrentPeriodStart),
		"current_period_end":   unixTimePtr(providerSub.CurrentPeriodEnd),
		"cancel_at":            unixTimePtr(providerSub.CancelAt),
		"canceled_at":          unixTimePtr(providerSub.CanceledAt),
	}
	if err := s.repo.UpdateSubscription(local.ID, updates); err != nil {
		return fmt.Errorf("update subscription %s: %w", local.ID, err)
	}
	return nil
}

// handleSubscriptionDeleted cancels the local row. Running it twice leaves
// the same final state.
func (s *Service) handleSubscriptionDeleted(ctx context.Context, ev *Event) error {
	_ = ctx
	var providerSub ProviderSubscription
	if err := json.Unmarshal(ev.Data.Object, &providerSub); err != nil {
		return fmt.Errorf("invalid subscription object: %w", err)
	}

	local, err := s.repo.GetSubscriptionByProviderRef(providerSub.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("billing: delete for unknown subscription %s", providerSub.ID)
			return nil
		}
		return fmt.Errorf("lookup subscription %s: %w", providerSub.ID, err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.SubscriptionStatusCanceled,
		"canceled_at": &now,
	}
	if err := s.repo.UpdateSubscription(local.ID, updates); err != nil {
		return fmt.Errorf("cancel subscription %s: %w", local.ID, err)
	}
	return nil
}

// resolveCheckoutIdentity pulls the local user and plan ids out of session
// metadata, falling back to the subscription's own metadata.
func resolveCheckoutIdentity(sessionMeta, subscriptionMeta map[string]string) (uint, string, error) {
	rawUser := metadataValue(sessionMeta, subscriptionMeta, "user_id")
	planID := metadataValue(sessionMeta, subscriptionMeta, "plan_id")
	if rawUser == "" || planID == "" {
		return 0, "", errors.New("checkout metadata is missing user_id or plan_id")
	}

	userID, err := strconv.ParseUint(rawUser, 10, 64)
	if err != nil || userID == 0 {
		return 0, "", fmt.Errorf("invalid user_id in checkout metadata: %q", rawUser)
	}
	return uint(userID), planID, nil
}

func metadataValue(primary, fallback map[string]string, key string) string {
	if v := strings.TrimSpace(primary[key]); v != "" {
		return v
	}
	return strings.TrimSpace(fallback[key])
}

// MinorUnitsToAmount converts processor minor currency units to decimal
// currency units.
func MinorUnitsToAmount(minor int64) float64 {
	return float64(minor) / 100
}

func unixTimePtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0)
	return &t
}
