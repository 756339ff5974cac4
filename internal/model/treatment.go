package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Treatment is a service performed for a client.
type Treatment struct {
	BaseModel
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	ProviderID      *uuid.UUID      `gorm:"type:uuid;index" json:"provider_id,omitempty"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	PerformedAt     *time.Time      `json:"performed_at,omitempty"`
}
