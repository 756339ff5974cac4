package model

// Privilege codes carried in the access token's privileges claim.
const (
	PrivProductCreate      = "product:create"
	PrivProductUpdate      = "product:update"
	PrivProductDelete      = "product:delete"
	PrivStockAdjust        = "stock:adjust"
	PrivNotificationUpdate = "notification:update"
	PrivAuditView          = "audit:view"
	PrivTreatmentCreate    = "treatment:create"
	PrivTreatmentUpdate    = "treatment:update"
	PrivTreatmentDelete    = "treatment:delete"
	PrivClientCreate       = "client:create"
	PrivClientView         = "client:view"
)

// AllPrivileges lists every code; the admin role holds all of them.
var AllPrivileges = []string{
	PrivProductCreate,
	PrivProductUpdate,
	PrivProductDelete,
	PrivStockAdjust,
	PrivNotificationUpdate,
	PrivAuditView,
	PrivTreatmentCreate,
	PrivTreatmentUpdate,
	PrivTreatmentDelete,
	PrivClientCreate,
	PrivClientView,
}

// Tables is the migration list, in dependency order.
var Tables = []interface{}{
	&Product{},
	&StockAdjustment{},
	&StockNotification{},
	&AuditLog{},
	&Client{},
	&Treatment{},
}
