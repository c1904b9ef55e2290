package handlers

import (
	"agrismart-api/internal/adapters/http/middleware"
	"agrismart-api/internal/config"
	"agrismart-api/internal/core/services"
	"agrismart-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// SyncRequest represents an identity provider sync. clerkId and externalId
// are accepted interchangeably.
type SyncRequest struct {
	ClerkID    string `json:"clerkId"`
	ExternalID string `json:"externalId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClerkSync handles identity provider sync
// @Summary Sync identity provider account
// @Description Create, link or update the account behind an identity provider id
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SyncRequest true "Identity data"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/auth/clerk-sync [post]
func (h *AuthHandler) ClerkSync(c *fiber.Ctx) error {
	var req SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	clerkID := req.ClerkID
	if clerkID == "" {
		clerkID = req.ExternalID
	}

	result, created, err := h.authService.SyncExternalIdentity(c.UserContext(), &services.SyncInput{
		ClerkID:  clerkID,
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to sync user")
	}

	payload := fiber.Map{
		"user":  result.User.ToResponse(),
		"token": result.Token,
	}
	if created {
		return response.Created(c, "User created successfully", payload)
	}
	return response.Success(c, "User synced successfully", payload)
}

// ClerkUser handles lookup by identity provider id
// @Summary Get user by identity provider id
// @Tags Auth
// @Produce json
// @Param externalId path string true "Identity provider id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/auth/clerk-user/{externalId} [get]
func (h *AuthHandler) ClerkUser(c *fiber.Ctx) error {
	user, err := h.authService.GetByClerkID(c.UserContext(), c.Params("externalId"))
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to get user")
	}
	return c.JSON(fiber.Map{"user": user.ToResponse()})
}

// Register handles user registration
// @Summary Register new user
// @Description Register a password account. Role is farmer or buyer (default buyer).
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Register(c.UserContext(), &services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to register user")
	}

	return response.Created(c, "User registered successfully", fiber.Map{
		"user":  result.User.ToResponse(),
		"token": result.Token,
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate a password account and return a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.UserContext(), &services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to login")
	}

	return response.Success(c, "Login successful", fiber.Map{
		"user":  result.User.ToResponse(),
		"token": result.Token,
	})
}

// Me returns current user info
// @Summary Get current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	return c.JSON(user.ToResponse())
}
