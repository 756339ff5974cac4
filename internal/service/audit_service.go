package service

import (
	"fmt"
	"io"
	"time"

	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/internal/repository"

	"github.com/gocarina/gocsv"
)

// MaxAuditPage bounds a single audit listing.
const MaxAuditPage = 1000

type AuditService interface {
	List(filter repository.AuditFilter) ([]model.AuditLog, error)
	ExportCSV(w io.Writer, filter repository.AuditFilter) (int, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

type auditCSVRow struct {
	ID        uint   `csv:"id"`
	CreatedAt string `csv:"created_at"`
	UserID    string `csv:"user_id"`
	Action    string `csv:"action"`
	Table     string `csv:"table_name"`
	RecordID  string `csv:"record_id"`
	OldData   string `csv:"old_data"`
	NewData   string `csv:"new_data"`
}

func (s *auditService) List(filter repository.AuditFilter) ([]model.AuditLog, error) {
	if filter.Limit <= 0 || filter.Limit > MaxAuditPage {
		filter.Limit = MaxAuditPage
	}
	return s.repo.FindAll(filter)
}

// ExportCSV writes every matching row, ignoring the page limit.
func (s *auditService) ExportCSV(w io.Writer, filter repository.AuditFilter) (int, error) {
	filter.Limit = 0
	logs, err := s.repo.FindAll(filter)
	if err != nil {
		return 0, fmt.Errorf("list audit logs: %w", err)
	}

	rows := make([]*auditCSVRow, 0, len(logs))
	for _, l := range logs {
		row := &auditCSVRow{
			ID:        l.ID,
			CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
			Action:    string(l.Action),
			Table:     l.Table,
			RecordID:  l.RecordID,
			OldData:   string(l.OldData),
			NewData:   string(l.NewData),
		}
		if l.UserID != nil {
			row.UserID = l.UserID.String()
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return 0, fmt.Errorf("encode audit csv: %w", err)
	}
	return len(rows), nil
}
