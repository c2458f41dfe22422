package billing

import "errors"

// Error taxonomy surfaced by the billing service. External failures are
// translated into these at the boundary where the call is made.
var (
	ErrNotAuthenticated           = errors.New("not authenticated")
	ErrPlanNotFound               = errors.New("subscription plan not found")
	ErrAlreadySubscribed          = errors.New("user already has an active subscription")
	ErrSubscriptionCreationFailed = errors.New("subscription creation failed")
	ErrCheckoutSessionFailed      = errors.New("checkout session creation failed")
	ErrDataAccess                 = errors.New("data store unavailable")
	ErrInvalidSignature           = errors.New("invalid webhook signature")
)
