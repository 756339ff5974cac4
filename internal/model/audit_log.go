package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditCreated AuditAction = "created"
	AuditUpdated AuditAction = "updated"
	AuditDeleted AuditAction = "deleted"
)

// AuditLog is append-only: rows are never updated or deleted by the service.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index" json:"user_id"` // nil for system actions
	Action    AuditAction    `gorm:"type:varchar(20);not null;index" json:"action"`
	Table     string         `gorm:"column:table_name;type:varchar(64);not null;index:idx_audit_logs_record" json:"table_name"`
	RecordID  string         `gorm:"type:varchar(64);not null;index:idx_audit_logs_record" json:"record_id"`
	OldData   datatypes.JSON `json:"old_data"`
	NewData   datatypes.JSON `json:"new_data"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
