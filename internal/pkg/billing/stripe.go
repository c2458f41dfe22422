package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fitpulseapp/fitpulse/internal/pkg/env"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com"

// StripeClient talks to the payment processor's REST API. Only the two calls
// the subscription flow needs are implemented.
type StripeClient struct {
	SecretKey  string
	APIBaseURL string
	SuccessURL string
	CancelURL  string

	HTTPClient *http.Client
}

// CheckoutSessionParams describes the hosted checkout page to create for a
// paid plan. When the catalog carries a processor price ID it is used
// directly; otherwise the price is described inline.
type CheckoutSessionParams struct {
	UserID        uint
	UserEmail     string
	PlanID        string
	PlanName      string
	PriceCents    int64
	Currency      string
	Interval      string
	StripePriceID string
}

// CheckoutSession is the processor's response to a session create call.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ProviderSubscription is the processor's subscription object, reduced to the
// fields the reconciler mirrors locally.
type ProviderSubscription struct {
	ID                 string            `json:"id"`
	Status             string            `json:"status"`
	CurrentPeriodStart int64             `json:"current_period_start"`
	CurrentPeriodEnd   int64             `json:"current_period_end"`
	TrialStart         int64             `json:"trial_start"`
	TrialEnd           int64             `json:"trial_end"`
	CancelAt           int64             `json:"cancel_at"`
	CanceledAt         int64             `json:"canceled_at"`
	Metadata           map[string]string `json:"metadata"`
}

type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewStripeClientFromEnv() *StripeClient {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	successURL := strings.TrimSpace(env.GetEnv("STRIPE_SUCCESS_URL", ""))
	if successURL == "" && base != "" {
		successURL = base + "/subscription/success"
	}
	cancelURL := strings.TrimSpace(env.GetEnv("STRIPE_CANCEL_URL", ""))
	if cancelURL == "" && base != "" {
		cancelURL = base + "/subscription"
	}

	return &StripeClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("STRIPE_API_BASE_URL", defaultStripeAPIBaseURL)),
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateCheckoutSession creates a hosted checkout page scoped to one plan and
// returns its redirect URL. The user and plan ids travel as session metadata
// so the webhook can correlate the completed payment back to local records.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is not configured")
	}
	if c.SuccessURL == "" || c.CancelURL == "" {
		return nil, errors.New("checkout redirect URLs are not configured")
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("success_url", c.SuccessURL)
	form.Set("cancel_url", c.CancelURL)
	if params.UserEmail != "" {
		form.Set("customer_email", params.UserEmail)
	}
	form.Set("metadata[user_id]", strconv.FormatUint(uint64(params.UserID), 10))
	form.Set("metadata[plan_id]", params.PlanID)
	form.Set("subscription_data[metadata][user_id]", strconv.FormatUint(uint64(params.UserID), 10))
	form.Set("subscription_data[metadata][plan_id]", params.PlanID)

	if params.StripePriceID != "" {
		form.Set("line_items[0][price]", params.StripePriceID)
	} else {
		currency := params.Currency
		if currency == "" {
			currency = "usd"
		}
		form.Set("line_items[0][price_data][currency]", currency)
		form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.PriceCents, 10))
		form.Set("line_items[0][price_data][recurring][interval]", processorInterval(params.Interval))
		form.Set("line_items[0][price_data][product_data][name]", params.PlanName)
	}
	form.Set("line_items[0][quantity]", "1")

	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	if session.ID == "" || session.URL == "" {
		return nil, errors.New("processor returned an incomplete checkout session")
	}
	return &session, nil
}

// GetSubscription fetches the authoritative subscription state by processor
// reference.
func (c *StripeClient) GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, errors.New("subscription id is required")
	}

	var sub ProviderSubscription
	if err := c.do(ctx, http.MethodGet, "/v1/subscriptions/"+url.PathEscape(subscriptionID), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.APIBaseURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr stripeErrorResponse
		if jsonErr := json.Unmarshal(data, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("processor request failed (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("processor request failed (%d)", resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}
