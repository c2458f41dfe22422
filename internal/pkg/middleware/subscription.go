package middleware

import (
	"log"

	"github.com/fitpulseapp/fitpulse/app/models"
	"github.com/fitpulseapp/fitpulse/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
)

var subscriptionLookup func(c *fiber.Ctx, userID uint) (*models.Subscription, error)

// SetSubscriptionLookup wires the billing service's subscription lookup into
// the access gate. Installed once during router setup.
func SetSubscriptionLookup(fn func(c *fiber.Ctx, userID uint) (*models.Subscription, error)) {
	subscriptionLookup = fn
}

// RequireActiveSubscription admits only users holding an active or trialing
// subscription. The check runs on every protected page load; there is
// deliberately no caching across navigations.
func RequireActiveSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	if subscriptionLookup == nil {
		log.Printf("middleware: subscription lookup not configured, denying access")
		return c.Redirect("/subscription", fiber.StatusSeeOther)
	}

	sub, err := subscriptionLookup(c, userCtx.UserID)
	if err != nil {
		log.Printf("middleware: subscription check failed for user %d: %v", userCtx.UserID, err)
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "We could not verify your subscription. Please try again.",
		}).Redirect("/subscription")
	}
	if sub == nil {
		return c.Redirect("/subscription", fiber.StatusSeeOther)
	}

	c.Locals("ACTIVE_SUBSCRIPTION", sub)
	return c.Next()
}
