package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/fitpulseapp/fitpulse/app/models"
	"github.com/fitpulseapp/fitpulse/app/repository"
	"github.com/fitpulseapp/fitpulse/internal/pkg/mail"
	"github.com/fitpulseapp/fitpulse/internal/pkg/session"
	"github.com/fitpulseapp/fitpulse/internal/pkg/usercontext"
)

const passwordResetValidity = time.Hour

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		userRepo := repository.GetGlobalRepositories().User
		user, err := userRepo.GetByEmail(strings.TrimSpace(c.FormValue("email")))
		if err != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if user.Status != models.STATUS_ACTIVE {
			fm["message"] = "Please activate your account first. Check your inbox for the activation link."

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(usercontext.AuthKey, true)
		sess.Set(usercontext.KeyUserID, user.ID)
		sess.Set(usercontext.KeyUserName, user.FullName())
		sess.Set(usercontext.KeyUserEmail, user.Email)
		sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)

		err = sess.Save()
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		now := time.Now()
		user.LastLoginAt = &now
		_ = userRepo.Update(user)

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back! Let's get moving.",
		}

		return flash.WithSuccess(c, fm).Redirect("/dashboard")
	}

	return render(c, "pages/login", fiber.Map{
		"Page": "login",
	})
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	err = sess.Destroy()
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "See you next workout!",
	}

	c.Locals(usercontext.KeyFromProtected, false)

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		user, err := models.CreateUser(
			strings.TrimSpace(c.FormValue("first_name")),
			strings.TrimSpace(c.FormValue("last_name")),
			strings.TrimSpace(c.FormValue("email")),
			c.FormValue("password"),
		)
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		token, err := models.GenerateToken()
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}
		now := time.Now()
		user.ActivationToken = token
		user.ActivationSentAt = &now

		if err := repository.GetGlobalRepositories().User.Create(user); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		go func(email, name, token string) {
			_ = mail.SendActivationMail(email, name, token)
		}(user.Email, user.FirstName, token)

		fm := fiber.Map{
			"type":    "success",
			"message": "Registration successful! Check your inbox to activate your account.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return render(c, "pages/register", fiber.Map{
		"Page": "register",
	})
}

// HandleUserActivate consumes the activation token sent by mail and unlocks
// the account.
func HandleUserActivate(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		fm := fiber.Map{"type": "error", "message": "Activation link is invalid."}
		return flash.WithError(c, fm).Redirect("/login")
	}

	userRepo := repository.GetGlobalRepositories().User
	user, err := userRepo.GetByActivationToken(token)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Activation link is invalid or already used."}
		return flash.WithError(c, fm).Redirect("/login")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := userRepo.Update(user); err != nil {
		fm := fiber.Map{"type": "error", "message": fmt.Sprintf("something went wrong: %s", err)}
		return flash.WithError(c, fm).Redirect("/login")
	}

	fm := fiber.Map{"type": "success", "message": "Account activated! You can log in now."}
	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleForgotPassword(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		// Always report success so the form cannot be used to probe for
		// registered addresses.
		fm := fiber.Map{
			"type":    "success",
			"message": "If the address exists, a reset link is on its way.",
		}

		email := strings.TrimSpace(c.FormValue("email"))
		userRepo := repository.GetGlobalRepositories().User
		user, err := userRepo.GetByEmail(email)
		if err != nil {
			return flash.WithSuccess(c, fm).Redirect("/login")
		}

		token, err := models.GenerateToken()
		if err != nil {
			return flash.WithSuccess(c, fm).Redirect("/login")
		}
		now := time.Now()
		user.PasswordResetToken = token
		user.PasswordResetSentAt = &now
		if err := userRepo.Update(user); err != nil {
			return flash.WithSuccess(c, fm).Redirect("/login")
		}

		go func(email, name, token string) {
			_ = mail.SendPasswordResetMail(email, name, token)
		}(user.Email, user.FirstName, token)

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return render(c, "pages/forgot_password", fiber.Map{
		"Page": "forgot-password",
	})
}

func HandleResetPassword(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		token = strings.TrimSpace(c.FormValue("token"))
	}
	if token == "" {
		fm := fiber.Map{"type": "error", "message": "Reset link is invalid."}
		return flash.WithError(c, fm).Redirect("/login")
	}

	userRepo := repository.GetGlobalRepositories().User
	user, err := userRepo.GetByPasswordResetToken(token)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Reset link is invalid or already used."}
		return flash.WithError(c, fm).Redirect("/login")
	}
	if user.PasswordResetSentAt == nil || time.Since(*user.PasswordResetSentAt) > passwordResetValidity {
		fm := fiber.Map{"type": "error", "message": "Reset link has expired. Please request a new one."}
		return flash.WithError(c, fm).Redirect("/forgot-password")
	}

	if c.Method() == fiber.MethodPost {
		password := c.FormValue("password")
		if len(password) < 6 {
			fm := fiber.Map{"type": "error", "message": "Password must be at least 6 characters."}
			return flash.WithError(c, fm).Redirect("/reset-password?token=" + token)
		}
		if password != c.FormValue("password_confirm") {
			fm := fiber.Map{"type": "error", "message": "Passwords do not match."}
			return flash.WithError(c, fm).Redirect("/reset-password?token=" + token)
		}

		hashed, err := models.HashPassword(password)
		if err != nil {
			fm := fiber.Map{"type": "error", "message": fmt.Sprintf("something went wrong: %s", err)}
			return flash.WithError(c, fm).Redirect("/login")
		}

		user.Password = hashed
		user.PasswordResetToken = ""
		user.PasswordResetSentAt = nil
		if err := userRepo.Update(user); err != nil {
			fm := fiber.Map{"type": "error", "message": fmt.Sprintf("something went wrong: %s", err)}
			return flash.WithError(c, fm).Redirect("/login")
		}

		fm := fiber.Map{"type": "success", "message": "Password updated. You can log in now."}
		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return render(c, "pages/reset_password", fiber.Map{
		"Page":  "reset-password",
		"Token": token,
	})
}
