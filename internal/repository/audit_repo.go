package repository

import (
	"go-medspa-inventory/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows an audit listing. AfterID and BeforeID are keyset
// cursors on the audit id; Newest lists rows newest first.
type AuditFilter struct {
	Table    string
	RecordID string
	Action   string
	Limit    int
	AfterID  uint
	BeforeID uint
	Newest   bool
}

type AuditRepository interface {
	Append(tx *gorm.DB, logs []model.AuditLog) error
	FindAll(filter AuditFilter) ([]model.AuditLog, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

func (r *auditRepo) Append(tx *gorm.DB, logs []model.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	return tx.Create(&logs).Error
}

// FindAll returns matching rows oldest first unless filter.Newest is set.
func (r *auditRepo) FindAll(filter AuditFilter) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	q := r.db.Model(&model.AuditLog{})
	if filter.Table != "" {
		q = q.Where("table_name = ?", filter.Table)
	}
	if filter.RecordID != "" {
		q = q.Where("record_id = ?", filter.RecordID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.AfterID > 0 {
		q = q.Where("id > ?", filter.AfterID)
	}
	if filter.BeforeID > 0 {
		q = q.Where("id < ?", filter.BeforeID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	order := "id ASC"
	if filter.Newest {
		order = "id DESC"
	}
	err := q.Order(order).Find(&logs).Error
	return logs, err
}
