package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/fitpulseapp/fitpulse/internal/pkg/usercontext"
)

// render wraps c.Render and binds the values every page template expects:
// the user context, flash messages and the CSRF token.
func render(c *fiber.Ctx, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}

	userCtx := usercontext.GetUserContext(c)
	bind["UserContext"] = userCtx
	bind["IsLoggedIn"] = userCtx.IsLoggedIn
	bind["Flash"] = flash.Get(c)

	if token := c.Locals("csrf"); token != nil {
		if s, ok := token.(string); ok {
			bind["CSRFToken"] = s
		}
	}

	return c.Render(name, bind, "layouts/main")
}
