package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/fitpulseapp/fitpulse/app/controllers"
	"github.com/fitpulseapp/fitpulse/internal/pkg/env"
	"github.com/fitpulseapp/fitpulse/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/") ||
				strings.HasPrefix(c.Path(), "/webhooks/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleStart)
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get("/forgot-password", loggedInMiddleware, controllers.HandleForgotPassword)
	group.Post("/forgot-password", loggedInMiddleware, controllers.HandleForgotPassword)
	group.Get("/reset-password", loggedInMiddleware, controllers.HandleResetPassword)
	group.Post("/reset-password", loggedInMiddleware, controllers.HandleResetPassword)

	// Plan catalog and checkout
	group.Get("/subscription", loggedInMiddleware, controllers.HandleSubscriptionPlans)
	group.Post("/subscription/checkout", middleware.RequireAuth, controllers.HandleSubscriptionCheckout)
	group.Get("/subscription/success", middleware.RequireAuth, controllers.HandleSubscriptionSuccess)
	group.Get("/subscription/canceled", middleware.RequireAuth, controllers.HandleSubscriptionCanceled)

	// Member area, gated on an active or trialing subscription
	group.Get("/dashboard", middleware.RequireAuth, middleware.RequireActiveSubscription, controllers.HandleDashboard)

	// Account
	group.Get("/user/profile", middleware.RequireAuth, controllers.HandleUserProfile)
	group.Post("/user/profile/edit", middleware.RequireAuth, controllers.HandleUserProfileEdit)
}
