package handler

import (
	"go-medspa-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ClientHandler struct {
	service service.ClientService
}

func NewClientHandler(s service.ClientService) *ClientHandler {
	return &ClientHandler{service: s}
}

func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var req service.ClientInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	client, err := h.service.Create(&req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Client created", "data": client})
}

func (h *ClientHandler) GetClients(c *fiber.Ctx) error {
	clients, err := h.service.List()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(clients)
}

func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrClientNotFound)
	}

	client, err := h.service.Get(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(client)
}
