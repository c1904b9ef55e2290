package handlers

import (
	"agrismart-api/internal/adapters/http/middleware"
	"agrismart-api/internal/config"
	"agrismart-api/internal/core/services"
	"agrismart-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MessageHandler handles buyer inquiries
type MessageHandler struct {
	messageService *services.MessageService
	cfg            *config.Config
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService, cfg *config.Config) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		cfg:            cfg,
	}
}

// SendMessageRequest represents a buyer inquiry
type SendMessageRequest struct {
	FarmerID  string `json:"farmerId"`
	ProductID string `json:"productId"`
	Message   string `json:"message"`
}

// Send handles a new inquiry
// @Summary Send inquiry to a farmer
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendMessageRequest true "Inquiry"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/messages [post]
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	msg, err := h.messageService.Send(c.UserContext(), middleware.CurrentUser(c), &services.SendMessageInput{
		FarmerID:  req.FarmerID,
		ProductID: req.ProductID,
		Message:   req.Message,
	})
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to send message")
	}

	return response.Created(c, "Message sent successfully", fiber.Map{
		"data": msg.ToResponse(),
	})
}

// FarmerInbox lists inquiries addressed to the caller
// @Summary Farmer inbox
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.InboxItem
// @Router /api/messages/farmer [get]
func (h *MessageHandler) FarmerInbox(c *fiber.Ctx) error {
	items, err := h.messageService.FarmerInbox(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to get messages")
	}
	return response.List(c, items)
}

// BuyerOutbox lists inquiries sent by the caller
// @Summary Buyer sent messages
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MessageResponse
// @Router /api/messages/buyer [get]
func (h *MessageHandler) BuyerOutbox(c *fiber.Ctx) error {
	items, err := h.messageService.BuyerOutbox(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, h.cfg, err, "Failed to get messages")
	}
	return response.List(c, items)
}

// MarkRead flags an inquiry as read
// @Summary Mark message read
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/messages/{id}/read [patch]
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.messageService.MarkRead(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, h.cfg, err, "Failed to update message")
	}
	return response.Message(c, "Message marked as read")
}
