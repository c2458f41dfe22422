package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/fitpulseapp/fitpulse/internal/pkg/billing"
	"github.com/fitpulseapp/fitpulse/internal/pkg/database"
	"github.com/fitpulseapp/fitpulse/internal/pkg/usercontext"
)

var subscriptionService *billing.Service

// InitializeSubscriptionController injects the billing service used by the
// subscription and webhook handlers. Call this once during router setup.
func InitializeSubscriptionController(svc *billing.Service) {
	subscriptionService = svc
}

// billingService returns the injected service, falling back to a DB-backed
// one so handlers stay usable when the router skips initialization.
func billingService() *billing.Service {
	if subscriptionService != nil {
		return subscriptionService
	}
	return billing.NewServiceFromDB(database.GetDB())
}

// HandleSubscriptionPlans renders the plan catalog. An optional ?interval=
// query (monthly or yearly) narrows the list.
func HandleSubscriptionPlans(c *fiber.Ctx) error {
	svc := billingService()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	interval := strings.TrimSpace(c.Query("interval"))
	plans, err := svc.ListActivePlans(ctx, interval)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Plans could not be loaded. Please try again."}
		return flash.WithError(c, fm).Redirect("/")
	}

	var currentPlanID string
	userCtx := usercontext.GetUserContext(c)
	if userCtx.IsLoggedIn {
		if sub, err := svc.ActiveSubscription(ctx, userCtx.UserID); err == nil && sub != nil {
			currentPlanID = sub.PlanID
		}
	}

	return render(c, "pages/subscription", fiber.Map{
		"Page":          "subscription",
		"Plans":         plans,
		"Interval":      interval,
		"CurrentPlanID": currentPlanID,
	})
}

// HandleSubscriptionCheckout starts a checkout for the posted plan. Trial
// plans activate locally, paid plans redirect to the payment processor.
func HandleSubscriptionCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	planID := strings.TrimSpace(c.FormValue("plan_id"))
	if planID == "" {
		fm := fiber.Map{"type": "error", "message": "Please choose a plan."}
		return flash.WithError(c, fm).Redirect("/subscription")
	}

	svc := billingService()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	result, err := svc.InitiateSubscription(ctx, userCtx.UserID, planID)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": checkoutErrorMessage(err)}
		return flash.WithError(c, fm).Redirect("/subscription")
	}

	if result.TrialActivated {
		fm := fiber.Map{"type": "success", "message": "Your free trial is active. Welcome aboard!"}
		return flash.WithSuccess(c, fm).Redirect(result.RedirectURL)
	}

	return c.Redirect(result.RedirectURL, fiber.StatusSeeOther)
}

// HandleSubscriptionSuccess is the return URL after a completed checkout.
// The subscription row itself arrives via webhook, so this page only thanks
// the user.
func HandleSubscriptionSuccess(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	svc := billingService()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub, _ := svc.ActiveSubscription(ctx, userCtx.UserID)

	return render(c, "pages/subscription_success", fiber.Map{
		"Page":         "subscription-success",
		"Subscription": sub,
	})
}

// HandleSubscriptionCanceled is the return URL when the user abandons the
// processor checkout page.
func HandleSubscriptionCanceled(c *fiber.Ctx) error {
	fm := fiber.Map{"type": "error", "message": "Checkout canceled. You can pick a plan whenever you are ready."}
	return flash.WithError(c, fm).Redirect("/subscription")
}

func checkoutErrorMessage(err error) string {
	switch {
	case errors.Is(err, billing.ErrNotAuthenticated):
		return "Please log in to subscribe."
	case errors.Is(err, billing.ErrPlanNotFound):
		return "That plan is no longer available."
	case errors.Is(err, billing.ErrAlreadySubscribed):
		return "You already have an active subscription."
	case errors.Is(err, billing.ErrSubscriptionCreationFailed):
		return "Your trial could not be activated. Please try again."
	case errors.Is(err, billing.ErrCheckoutSessionFailed):
		return "The payment page could not be opened. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
