package middleware

import (
	"github.com/fitpulseapp/fitpulse/internal/pkg/session"
	"github.com/fitpulseapp/fitpulse/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware resolves the session into a UserContext for every
// request so controllers never touch the session store directly.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	name := session.GetSessionValue(c, usercontext.KeyUserName)
	email := session.GetSessionValue(c, usercontext.KeyUserEmail)
	isAdmin := sess.Get(usercontext.KeyIsAdmin)

	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Name:       name,
		Email:      email,
		IsLoggedIn: true,
		IsAdmin:    isAdmin != nil && isAdmin.(bool),
	}
	c.Locals("USER_CONTEXT", userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userCtx.UserID)
	c.Locals(usercontext.KeyUserName, name)
	c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)

	return c.Next()
}
