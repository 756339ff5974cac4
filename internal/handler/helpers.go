package handler

import (
	"encoding/json"
	"errors"

	"go-medspa-inventory/internal/service"
	"go-medspa-inventory/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// actorID returns the authenticated caller, or nil for unauthenticated calls.
func actorID(c *fiber.Ctx) *uuid.UUID {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// parseBody decodes the JSON body. Type mismatches such as a fractional
// quantity become field validation errors instead of a bare 400.
func parseBody(c *fiber.Ctx, out interface{}) error {
	err := c.BodyParser(out)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return service.FieldError(field, "type", typeErr.Type.String())
	}
	return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
}

// writeError maps service errors to HTTP responses. Unexpected errors are
// logged and reported without detail.
func writeError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		fields := verr.Fields
		if fields == nil {
			fields = []*validator.ErrorResponse{}
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": capitalize(err.Error())})
	case errors.Is(err, service.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &ferr) && ferr.Code < 500:
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	zap.L().Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Any("request_id", c.Locals("requestid")),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
