package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fitpulseapp/fitpulse/app/controllers"
	"github.com/fitpulseapp/fitpulse/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Static pages
	app.Get("/about", loggedInMiddleware, controllers.HandleAbout)

	// Account lifecycle links from mail (token-authenticated, no CSRF form)
	app.Get("/activate", loggedInMiddleware, controllers.HandleUserActivate)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Billing provider webhooks (no CSRF, signature-verified in controller)
	app.Post("/webhooks/stripe", controllers.HandleStripeWebhook)
}
