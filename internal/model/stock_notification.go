package model

import (
	"time"

	"github.com/google/uuid"
)

type StockNotification struct {
	BaseModel
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_stock_notifications_product_read" json:"product_id"`
	Message      string     `gorm:"type:text;not null" json:"message"`
	CurrentStock int        `gorm:"not null" json:"current_stock"`
	IsRead       bool       `gorm:"not null;index:idx_stock_notifications_product_read" json:"is_read"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
}
