package billing

import (
	"context"
	"log"
)

// ProviderStripe is the only payment processor currently wired.
const ProviderStripe = "stripe"

// CheckoutResult reports the outcome of a subscription initiation. Trial
// activations carry the created subscription; paid checkouts only carry the
// processor redirect.
type CheckoutResult struct {
	RedirectURL    string
	SessionID      string
	SubscriptionID string
	TrialActivated bool
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// ProcessorClient is the payment processor surface the service depends on.
type ProcessorClient interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error)
}

// SideEffectLog receives failures of best-effort writes that intentionally do
// not fail their parent operation. Tests assert on degraded-but-successful
// outcomes through this.
type SideEffectLog interface {
	Record(op string, err error)
}

type stdSideEffectLog struct{}

func (stdSideEffectLog) Record(op string, err error) {
	log.Printf("billing: non-fatal side effect failed: %s: %v", op, err)
}

// NewLogSideEffects returns a SideEffectLog writing to the process log.
func NewLogSideEffects() SideEffectLog {
	return stdSideEffectLog{}
}
