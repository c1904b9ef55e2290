package handlers

import (
	"agrismart-api/internal/adapters/http/middleware"
	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/config"
	"agrismart-api/internal/core/services"
	"agrismart-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	productService *services.ProductService
	cfg            *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		cfg:            cfg,
	}
}

// CreateProductRequest represents a new listing
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *float64 `json:"quantity"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
}

// UpdateProductRequest represents a partial update; omitted fields are unchanged
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

// List handles the public catalog
// @Summary List approved products
// @Tags Products
// @Produce json
// @Param category query string false "Vegetables, Fruits, Dairy, Cereals or All"
// @Param search query string false "Case-insensitive match on name or description"
// @Success 200 {array} models.ProductListing
// @Router /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.productService.ListCatalog(c.UserContext(), c.Query("category"), c.Query("search"))
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to get products")
	}
	return response.List(c, models.ProductsToListing(products))
}

// MyProducts lists the caller's own products
// @Summary List my products
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ProductResponse
// @Router /api/products/my-products [get]
func (h *ProductHandler) MyProducts(c *fiber.Ctx) error {
	farmer := middleware.CurrentUser(c)
	products, err := h.productService.ListByFarmer(c.UserContext(), farmer.ID)
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to get products")
	}
	return response.List(c, models.ProductsToResponse(products))
}

// Create handles a new listing
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateProductRequest true "Product"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	product, err := h.productService.Create(c.UserContext(), middleware.CurrentUser(c), &services.CreateProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to create product")
	}

	return response.Created(c, "Product created successfully", fiber.Map{
		"product": product.ToResponse(),
	})
}

// Update handles a partial update by the owner
// @Summary Update product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param body body UpdateProductRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	product, err := h.productService.Update(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), &services.UpdateProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to update product")
	}

	return response.Success(c, "Product updated successfully", fiber.Map{
		"product": product.ToResponse(),
	})
}

// Delete handles removal by the owner
// @Summary Delete product
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.productService.Delete(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, h.cfg, err, "Failed to delete product")
	}
	return response.Message(c, "Product deleted successfully")
}
