package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/fitpulseapp/fitpulse/internal/api/v1"
	"github.com/fitpulseapp/fitpulse/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer()
	v1.Get("/ping", apiServer.GetPing)
	v1.Get("/plans", apiServer.GetPlans)
	v1.Get("/subscription", middleware.RequireAPISessionAuth, apiServer.GetSubscription)
	v1.Get("/payments", middleware.RequireAPISessionAuth, apiServer.GetPaymentHistory)
	v1.Get("/workouts", middleware.RequireAPISessionAuth, apiServer.GetWorkouts)
	v1.Post("/workouts", middleware.RequireAPISessionAuth, apiServer.CreateWorkout)
	v1.Get("/workouts/:id", middleware.RequireAPISessionAuth, apiServer.GetWorkout)
	v1.Get("/exercises", middleware.RequireAPISessionAuth, apiServer.GetExercises)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
