package handler

import (
	"go-medspa-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// GetNotifications lists low-stock notifications
// GET /api/v1/notifications?unread=true
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	notifications, err := h.service.List(c.QueryBool("unread"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(notifications)
}

// MarkRead is idempotent
// PATCH /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrNotificationNotFound)
	}

	notification, err := h.service.MarkRead(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read", "data": notification})
}
