package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when a product is created without one.
const DefaultLowStockThreshold = 5

type Product struct {
	BaseModel
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU               string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	UnitPrice         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	CurrentStock      int             `gorm:"not null;default:0" json:"current_stock"`
	MinimumStock      int             `gorm:"not null" json:"minimum_stock"`
	LowStockThreshold int             `gorm:"not null" json:"low_stock_threshold"`
	Category          string          `gorm:"type:varchar(100);index" json:"category"`
	ExpiryDate        *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
	LotNumber         *string         `gorm:"type:varchar(100)" json:"lot_number,omitempty"`
	Location          *string         `gorm:"type:varchar(100)" json:"location,omitempty"`
	IsActive          bool            `gorm:"not null;index" json:"is_active"`
}

// IsLowStock reports whether stock sits at or below the alert threshold.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.LowStockThreshold
}
