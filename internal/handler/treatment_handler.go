package handler

import (
	"go-medspa-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TreatmentHandler struct {
	service service.TreatmentService
}

func NewTreatmentHandler(s service.TreatmentService) *TreatmentHandler {
	return &TreatmentHandler{service: s}
}

func (h *TreatmentHandler) CreateTreatment(c *fiber.Ctx) error {
	var req service.TreatmentInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	treatment, err := h.service.Create(&req, actorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Treatment created", "data": treatment})
}

// GetTreatments lists treatments, optionally for one client
// GET /api/v1/treatments?client_id=
func (h *TreatmentHandler) GetTreatments(c *fiber.Ctx) error {
	var clientID *uuid.UUID
	if raw := c.Query("client_id"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			return writeError(c, service.FieldError("client_id", "uuid", ""))
		}
		clientID = &id
	}

	treatments, err := h.service.List(clientID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(treatments)
}

func (h *TreatmentHandler) GetTreatment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrTreatmentNotFound)
	}

	treatment, err := h.service.Get(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(treatment)
}

func (h *TreatmentHandler) UpdateTreatment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrTreatmentNotFound)
	}

	var req service.UpdateTreatmentInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	treatment, err := h.service.Update(id, &req, actorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Treatment updated", "data": treatment})
}

func (h *TreatmentHandler) DeleteTreatment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrTreatmentNotFound)
	}

	if err := h.service.Delete(id, actorID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Treatment deleted"})
}
