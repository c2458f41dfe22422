package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitpulseapp/fitpulse/app/controllers"
	"github.com/fitpulseapp/fitpulse/app/models"
	"github.com/fitpulseapp/fitpulse/app/repository"
	"github.com/fitpulseapp/fitpulse/internal/pkg/billing"
	"github.com/fitpulseapp/fitpulse/internal/pkg/database"
	"github.com/fitpulseapp/fitpulse/internal/pkg/middleware"
	"github.com/fitpulseapp/fitpulse/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init repositories
	repository.InitializeFactory(database.GetDB())

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// One billing service instance for controllers and the access gate
	billingService := billing.NewServiceFromDB(database.GetDB())
	controllers.InitializeSubscriptionController(billingService)
	middleware.SetSubscriptionLookup(func(c *fiber.Ctx, userID uint) (*models.Subscription, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return billingService.ActiveSubscription(ctx, userID)
	})

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context; this middleware
	// just passes through so the route table reads uniformly.
	return c.Next()
}
