package handlers

import (
	"log"

	"shoemart/internal/models"
	"shoemart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles HTTP requests for contact messages.
type ContactHandler struct {
	service   *services.ContactService
	submitMws []fiber.Handler
}

// NewContactHandler creates a new ContactHandler. submitMiddleware runs in
// front of the contact form submission only, e.g. a rate limiter.
func NewContactHandler(service *services.ContactService, submitMiddleware ...fiber.Handler) *ContactHandler {
	return &ContactHandler{
		service:   service,
		submitMws: submitMiddleware,
	}
}

// RegisterRoutes registers the contact routes with the Fiber router.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	submit := append(append([]fiber.Handler{}, h.submitMws...), h.HandleSubmit)
	router.Post("/contact", submit...)

	messageRoutes := router.Group("/messages")
	messageRoutes.Get("/", h.HandleGetMessages)
	messageRoutes.Get("/recent", h.HandleGetRecentMessages)
	messageRoutes.Get("/:id", h.HandleGetMessageByID)
	messageRoutes.Delete("/:id", h.HandleDeleteMessage)
	messageRoutes.Patch("/:id/read", h.handleSetStatus(models.StatusRead))
	messageRoutes.Patch("/:id/replied", h.handleSetStatus(models.StatusReplied))
	messageRoutes.Patch("/:id/archived", h.handleSetStatus(models.StatusArchived))
}

// HandleSubmit accepts a contact form submission as JSON or form data.
func (h *ContactHandler) HandleSubmit(c *fiber.Ctx) error {
	var input models.MessageInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("[http] Error parsing contact body: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	message, err := h.service.Submit(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Thank you for your message! We will get back to you soon.",
		"data":    message,
	})
}

// HandleGetMessages lists messages, optionally filtered by ?topic= or ?status=
// (not both).
func (h *ContactHandler) HandleGetMessages(c *fiber.Ctx) error {
	messages, err := h.service.ListMessages(c.UserContext(), c.Query("topic"), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

// HandleGetRecentMessages returns the newest messages, ?limit= at most.
func (h *ContactHandler) HandleGetRecentMessages(c *fiber.Ctx) error {
	messages, err := h.service.RecentMessages(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

// HandleGetMessageByID returns a single message.
func (h *ContactHandler) HandleGetMessageByID(c *fiber.Ctx) error {
	message, err := h.service.GetMessage(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(message)
}

// HandleDeleteMessage deletes a message.
func (h *ContactHandler) HandleDeleteMessage(c *fiber.Ctx) error {
	if err := h.service.DeleteMessage(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContactHandler) handleSetStatus(status models.MessageStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		message, err := h.service.SetStatus(c.UserContext(), c.Params("id"), status)
		if err != nil {
			return err
		}
		return c.JSON(message)
	}
}
