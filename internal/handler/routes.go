package handler

import (
	"go-medspa-inventory/internal/middleware"
	"go-medspa-inventory/internal/model"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Inventory     *InventoryHandler
	Notifications *NotificationHandler
	Audit         *AuditHandler
	Treatments    *TreatmentHandler
	Clients       *ClientHandler
	Dashboard     *DashboardHandler
}

// Register mounts the authenticated API under /api/v1.
func (h *Handlers) Register(app *fiber.App) {
	api := app.Group("/api/v1", middleware.RequireAuth())

	// Dashboard Routes (authenticated users can view)
	api.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	api.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)

	// Product Routes
	api.Get("/products", h.Inventory.GetProducts)
	api.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), h.Inventory.CreateProduct)
	api.Get("/products/:id", h.Inventory.GetProduct)
	api.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), h.Inventory.UpdateProduct)
	api.Delete("/products/:id", middleware.RequirePrivilege(model.PrivProductDelete), h.Inventory.DeleteProduct)
	api.Post("/products/:id/adjust", middleware.RequirePrivilege(model.PrivStockAdjust), h.Inventory.AdjustStock)
	api.Get("/products/:id/adjustments", h.Inventory.GetAdjustments)

	// Notification Routes
	api.Get("/notifications", h.Notifications.GetNotifications)
	api.Patch("/notifications/:id/read", middleware.RequirePrivilege(model.PrivNotificationUpdate), h.Notifications.MarkRead)

	// Audit Routes
	api.Get("/audit-logs", middleware.RequirePrivilege(model.PrivAuditView), h.Audit.GetAuditLogs)
	api.Get("/audit-logs/export", middleware.RequirePrivilege(model.PrivAuditView), h.Audit.ExportAuditLogs)

	// Treatment Routes
	api.Get("/treatments", h.Treatments.GetTreatments)
	api.Post("/treatments", middleware.RequirePrivilege(model.PrivTreatmentCreate), h.Treatments.CreateTreatment)
	api.Get("/treatments/:id", h.Treatments.GetTreatment)
	api.Put("/treatments/:id", middleware.RequirePrivilege(model.PrivTreatmentUpdate), h.Treatments.UpdateTreatment)
	api.Delete("/treatments/:id", middleware.RequirePrivilege(model.PrivTreatmentDelete), h.Treatments.DeleteTreatment)

	// Client Routes (medical data: view privilege required for reads; providers
	// recording a treatment may open a single client)
	api.Get("/clients", middleware.RequirePrivilege(model.PrivClientView), h.Clients.GetClients)
	api.Post("/clients", middleware.RequirePrivilege(model.PrivClientCreate), h.Clients.CreateClient)
	api.Get("/clients/:id", middleware.RequireAnyPrivilege(model.PrivClientView, model.PrivTreatmentCreate), h.Clients.GetClient)
}
