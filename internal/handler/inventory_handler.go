package handler

import (
	"go-medspa-inventory/internal/repository"
	"go-medspa-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// CreateProduct handles product creation
// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	product, err := h.service.CreateProduct(&req, actorID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// GetProducts lists products
// GET /api/v1/products?low_stock=true&category=&active=true
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(repository.ProductFilter{
		LowStock:   c.QueryBool("low_stock"),
		ActiveOnly: c.QueryBool("active"),
		Category:   c.Query("category"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrProductNotFound)
	}

	product, err := h.service.GetProduct(productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// UpdateProduct applies a partial update; stock is read-only here
// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrProductNotFound)
	}

	var req service.UpdateProductInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	updated, err := h.service.UpdateProduct(productID, &req, actorID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrProductNotFound)
	}

	if err := h.service.DeleteProduct(productID, actorID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// AdjustStock applies a signed stock change
// POST /api/v1/products/:id/adjust {"quantity": -3, "reason": "used in treatment"}
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrProductNotFound)
	}

	var req service.AdjustStockInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	result, err := h.service.AdjustStock(productID, &req, actorID(c))
	if err != nil {
		return writeError(c, err)
	}

	resp := fiber.Map{
		"message":    "Stock adjusted successfully",
		"adjustment": result.Adjustment,
		"product":    result.Product,
	}
	if result.Notification != nil {
		resp["notification"] = result.Notification
	}
	return c.JSON(resp)
}

// GetAdjustments lists the stock history of one product, newest first
// GET /api/v1/products/:id/adjustments
func (h *InventoryHandler) GetAdjustments(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return writeError(c, service.ErrProductNotFound)
	}

	adjustments, err := h.service.ListAdjustments(productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(adjustments)
}
