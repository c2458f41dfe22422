package apiv1

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fitpulseapp/fitpulse/app/models"
	"github.com/fitpulseapp/fitpulse/app/repository"
	"github.com/fitpulseapp/fitpulse/internal/pkg/billing"
	"github.com/fitpulseapp/fitpulse/internal/pkg/database"
	"github.com/fitpulseapp/fitpulse/internal/pkg/usercontext"
)

// APIServer serves the JSON API for the web client.
type APIServer struct {
	billing  *billing.Service
	workouts repository.WorkoutRepository
}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{
		billing:  billing.NewServiceFromDB(database.GetDB()),
		workouts: repository.GetGlobalFactory().GetWorkoutRepository(),
	}
}

// Pong is the ping response body.
type Pong struct {
	Ping string `json:"ping"`
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetPlans returns the active plan catalog, optionally filtered by
// ?interval=monthly|yearly.
func (s *APIServer) GetPlans(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	plans, err := s.billing.ListActivePlans(ctx, c.Query("interval"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "plans_unavailable",
		})
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// GetSubscription returns the caller's active subscription, or null.
func (s *APIServer) GetSubscription(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := s.billing.ActiveSubscription(ctx, usercontext.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "subscription_unavailable",
		})
	}
	return c.JSON(fiber.Map{"subscription": sub})
}

// GetPaymentHistory returns the caller's payment records, newest first.
func (s *APIServer) GetPaymentHistory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records, err := s.billing.PaymentHistory(ctx, usercontext.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "payment_history_unavailable",
		})
	}
	return c.JSON(fiber.Map{"payments": records})
}

const workoutPageSize = 20

// GetWorkouts returns the caller's logged workouts, newest first, paginated
// via ?page=N.
func (s *APIServer) GetWorkouts(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * workoutPageSize

	workouts, err := s.workouts.ListWorkoutsByUser(userID, offset, workoutPageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "workouts_unavailable",
		})
	}
	total, err := s.workouts.CountWorkoutsByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "workouts_unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"workouts": workouts,
		"total":    total,
		"page":     page,
	})
}

// GetWorkout returns a single workout owned by the caller.
func (s *APIServer) GetWorkout(c *fiber.Ctx) error {
	workout, err := s.workouts.GetWorkoutByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "workout_not_found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "workout_unavailable",
		})
	}
	if workout.UserID != usercontext.GetUserID(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "workout_not_found",
		})
	}
	return c.JSON(fiber.Map{"workout": workout})
}

type createWorkoutRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	CaloriesBurned  int    `json:"calories_burned"`
	Completed       bool   `json:"completed"`
}

// CreateWorkout logs a workout for the caller.
func (s *APIServer) CreateWorkout(c *fiber.Ctx) error {
	var req createWorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_body",
		})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name_required",
		})
	}

	workout := &models.Workout{
		UserID:          usercontext.GetUserID(c),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Completed:       req.Completed,
	}
	if req.Completed {
		now := time.Now()
		workout.CompletedDate = &now
	}

	if err := s.workouts.CreateWorkout(workout); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "workout_not_saved",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"workout": workout})
}

// GetExercises returns the exercise catalog.
func (s *APIServer) GetExercises(c *fiber.Ctx) error {
	exercises, err := s.workouts.ListExercises()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "exercises_unavailable",
		})
	}
	return c.JSON(fiber.Map{"exercises": exercises})
}
