package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fitpulseapp/fitpulse/app/models"
	"github.com/fitpulseapp/fitpulse/internal/pkg/content"
)

// HandleDashboard renders the member dashboard. The route sits behind the
// subscription gate, so the active subscription is available from Locals.
func HandleDashboard(c *fiber.Ctx) error {
	var sub *models.Subscription
	if v := c.Locals("ACTIVE_SUBSCRIPTION"); v != nil {
		sub = v.(*models.Subscription)
	}

	return render(c, "pages/dashboard", fiber.Map{
		"Page":            "dashboard",
		"Subscription":    sub,
		"MealPlans":       content.MealPlans(),
		"WorkoutPlans":    content.WorkoutPlans(),
		"WeightProgress":  content.WeightProgress(),
		"WorkoutProgress": content.WorkoutProgress(),
	})
}
