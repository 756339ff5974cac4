package model

import (
	"time"

	"go-medspa-inventory/pkg/crypt"
)

type Client struct {
	BaseModel
	FirstName      string              `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string              `gorm:"type:varchar(100);not null" json:"last_name"`
	Email          string              `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone          string              `gorm:"type:varchar(30)" json:"phone"`
	DateOfBirth    *time.Time          `gorm:"type:date" json:"date_of_birth,omitempty"`
	MedicalHistory crypt.EncryptedJSON `json:"medical_history"` // encrypted at rest
}
