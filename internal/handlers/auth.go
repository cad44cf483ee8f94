package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printhub/internal/services/auth"
	"printhub/internal/utils"
	"printhub/internal/utils/response"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a customer or shop-owner account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	user, err := h.authService.Register(req)
	if err != nil {
		return response.Domain(c, err)
	}
	user.Password = ""
	return response.Success(c, "account created", user)
}

// Login authenticates by email or phone plus password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if (req.Email == "" && req.Phone == "") || req.Password == "" {
		return response.BadRequest(c, "email or phone plus password are required")
	}

	user, tokens, err := h.authService.Login(req.Email, req.Phone, req.Password, c.IP())
	if err != nil {
		return response.Domain(c, err)
	}
	user.Password = ""
	return response.Success(c, "login successful", fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return response.BadRequest(c, "refresh_token is required")
	}

	tokens, err := h.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "tokens refreshed", tokens)
}

// Logout invalidates every outstanding token for the user.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if err := h.authService.Logout(claims.UserID); err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "logged out", nil)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.authService.ChangePassword(claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "password changed", nil)
}
