package auth

import (
	"context"

	authsvc "tessera-backend/internal/application/auth"
	"tessera-backend/internal/middleware"
	"tessera-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	UserFinder authsvc.UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var input authsvc.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	if h.UserFinder == nil {
		return response.Error(c, "Auth not configured", fiber.StatusInternalServerError)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(input.Email, input.Password)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusUnauthorized)
	}

	newID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		Fullname: user.Fullname,
		Email:    user.Email,
	})

	cookie := middleware.SessionCookie(h.Config)
	cookie.Value = newID
	c.Cookie(&cookie)

	return response.Success(c, "Logged in", fiber.Map{
		"user_id":      user.UserID,
		"display_code": user.DisplayCode,
		"fullname":     user.Fullname,
		"email":        user.Email,
	}, nil)
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	shape, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, err.Error())
	}
	return response.Success(c, "Authenticated", shape, nil)
}

// Logout DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if sid := middleware.GetSessionID(c); sid != "" && h.Rdb != nil {
		h.Rdb.Del(context.Background(), middleware.SessionRedisPrefix+sid)
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookie(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out", nil, nil)
}
