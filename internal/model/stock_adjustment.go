package model

import "github.com/google/uuid"

// StockAdjustment is the append-only record of one stock change.
// NewStock always equals PreviousStock + Quantity.
type StockAdjustment struct {
	BaseModel
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	PreviousStock int        `gorm:"not null" json:"previous_stock"`
	NewStock      int        `gorm:"not null" json:"new_stock"`
	Reason        string     `gorm:"type:text" json:"reason"`
	UserID        *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
}
