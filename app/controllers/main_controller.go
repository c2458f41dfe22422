package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleStart renders the landing page with the current plan catalog so the
// pricing section never goes stale.
func HandleStart(c *fiber.Ctx) error {
	svc := billingService()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	plans, err := svc.ListActivePlans(ctx, "")
	if err != nil {
		// The landing page still works without pricing.
		plans = nil
	}

	return render(c, "pages/home", fiber.Map{
		"Page":  "home",
		"Plans": plans,
	})
}

// HandleAbout renders the static about page
func HandleAbout(c *fiber.Ctx) error {
	return render(c, "pages/about", fiber.Map{
		"Page": "about",
	})
}
