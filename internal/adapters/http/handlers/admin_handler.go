package handlers

import (
	"agrismart-api/internal/adapters/http/middleware"
	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/config"
	"agrismart-api/internal/core/services"
	"agrismart-api/internal/pkg/pagination"
	"agrismart-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles moderation endpoints
type AdminHandler struct {
	adminService *services.AdminService
	cfg          *config.Config
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		cfg:          cfg,
	}
}

// ListUsers lists all accounts
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number; omit page and limit for every row"
// @Param limit query int false "Items per page"
// @Success 200 {array} models.UserResponse
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.adminService.ListUsers(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to get users")
	}

	out := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}

	pagination.SetHeaders(c, pagination.GetMeta(params, total))
	return response.List(c, out)
}

// ListProducts lists every product including unapproved ones
// @Summary List all products
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number; omit page and limit for every row"
// @Param limit query int false "Items per page"
// @Success 200 {array} models.ProductListing
// @Router /api/admin/products [get]
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	products, total, err := h.adminService.ListProducts(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to get products")
	}

	pagination.SetHeaders(c, pagination.GetMeta(params, total))
	return response.List(c, models.ProductsToListing(products))
}

// ApproveUser approves an account
// @Summary Approve user
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/users/{id}/approve [patch]
func (h *AdminHandler) ApproveUser(c *fiber.Ctx) error {
	user, err := h.adminService.ApproveUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to approve user")
	}
	return response.Success(c, "User approved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// DeleteUser removes an account
// @Summary Delete user
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.adminService.DeleteUser(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, h.cfg, err, "Failed to delete user")
	}
	return response.Message(c, "User deleted successfully")
}

// ApproveProduct approves a product
// @Summary Approve product
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/products/{id}/approve [patch]
func (h *AdminHandler) ApproveProduct(c *fiber.Ctx) error {
	product, err := h.adminService.ApproveProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to approve product")
	}
	return response.Success(c, "Product approved successfully", fiber.Map{
		"product": product.ToResponse(),
	})
}

// DeleteProduct removes any product
// @Summary Delete product (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/products/{id} [delete]
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.adminService.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.cfg, err, "Failed to delete product")
	}
	return response.Message(c, "Product deleted successfully")
}

// Stats returns moderation counters
// @Summary Marketplace stats
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Stats
// @Router /api/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to get stats")
	}
	return c.JSON(stats)
}
