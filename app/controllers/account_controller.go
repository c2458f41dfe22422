package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/fitpulseapp/fitpulse/app/models"
	"github.com/fitpulseapp/fitpulse/app/repository"
	"github.com/fitpulseapp/fitpulse/internal/pkg/session"
	"github.com/fitpulseapp/fitpulse/internal/pkg/usercontext"
)

// HandleUserProfile renders the profile page with the user's fitness data,
// current subscription and payment history.
func HandleUserProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	user, err := repository.GetGlobalRepositories().User.GetByID(userCtx.UserID)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Profile could not be loaded."}
		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	svc := billingService()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, _ := svc.ActiveSubscription(ctx, userCtx.UserID)
	payments, _ := svc.PaymentHistory(ctx, userCtx.UserID)

	return render(c, "pages/profile", fiber.Map{
		"Page":         "profile",
		"User":         user,
		"Subscription": sub,
		"Payments":     payments,
	})
}

// HandleUserProfileEdit updates the profile fields from the edit form.
func HandleUserProfileEdit(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	userRepo := repository.GetGlobalRepositories().User
	user, err := userRepo.GetByID(userCtx.UserID)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Profile could not be loaded."}
		return flash.WithError(c, fm).Redirect("/user/profile")
	}

	if v := strings.TrimSpace(c.FormValue("first_name")); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(c.FormValue("last_name")); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(c.FormValue("height_cm")); v != "" {
		if height, err := strconv.ParseFloat(v, 64); err == nil && height > 0 {
			user.HeightCM = &height
		}
	}
	if v := strings.TrimSpace(c.FormValue("weight_kg")); v != "" {
		if weight, err := strconv.ParseFloat(v, 64); err == nil && weight > 0 {
			user.WeightKG = &weight
		}
	}
	switch level := c.FormValue("fitness_level"); level {
	case models.FitnessLevelBeginner, models.FitnessLevelIntermediate, models.FitnessLevelAdvanced:
		user.FitnessLevel = level
	}
	if goals := c.Request().PostArgs().PeekMulti("fitness_goals"); len(goals) > 0 {
		list := make([]string, 0, len(goals))
		for _, g := range goals {
			if s := strings.TrimSpace(string(g)); s != "" {
				list = append(list, s)
			}
		}
		if raw, err := json.Marshal(list); err == nil {
			user.FitnessGoals = raw
		}
	}

	if err := user.Validate(); err != nil {
		fm := fiber.Map{"type": "error", "message": fmt.Sprintf("invalid profile data: %s", err)}
		return flash.WithError(c, fm).Redirect("/user/profile")
	}

	if err := userRepo.Update(user); err != nil {
		fm := fiber.Map{"type": "error", "message": fmt.Sprintf("something went wrong: %s", err)}
		return flash.WithError(c, fm).Redirect("/user/profile")
	}

	_ = session.SetSessionValue(c, usercontext.KeyUserName, user.FullName())

	fm := fiber.Map{"type": "success", "message": "Profile updated."}
	return flash.WithSuccess(c, fm).Redirect("/user/profile")
}
