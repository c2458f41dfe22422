package controllers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitpulseapp/fitpulse/internal/pkg/billing"
)

func TestCheckoutErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{billing.ErrNotAuthenticated, "Please log in to subscribe."},
		{billing.ErrPlanNotFound, "That plan is no longer available."},
		{billing.ErrAlreadySubscribed, "You already have an active subscription."},
		{fmt.Errorf("%w: insert failed", billing.ErrSubscriptionCreationFailed), "Your trial could not be activated. Please try again."},
		{fmt.Errorf("%w: stripe 500", billing.ErrCheckoutSessionFailed), "The payment page could not be opened. Please try again."},
		{errors.New("boom"), "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, checkoutErrorMessage(tt.err))
	}
}
