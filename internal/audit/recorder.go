package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/internal/repository"
	"go-medspa-inventory/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Recorder struct {
	repo repository.AuditRepository
}

func NewRecorder(repo repository.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record appends one row per event using tx. actor is nil for system jobs.
func (r *Recorder) Record(tx *gorm.DB, actor *uuid.UUID, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	now := time.Now()
	logs := make([]model.AuditLog, 0, len(events))
	for _, ev := range events {
		oldData, err := toJSON(ev.Old)
		if err != nil {
			return err
		}
		newData, err := toJSON(ev.New)
		if err != nil {
			return err
		}
		logs = append(logs, model.AuditLog{
			UserID:    actor,
			Action:    ev.Action,
			Table:     ev.Table,
			RecordID:  ev.RecordID,
			OldData:   oldData,
			NewData:   newData,
			CreatedAt: now,
		})
	}

	if err := r.repo.Append(tx, logs); err != nil {
		return fmt.Errorf("append audit logs: %w", err)
	}
	return nil
}

// Observe counts events once their transaction has committed.
func Observe(events []Event) {
	for _, ev := range events {
		metrics.AuditEvents.WithLabelValues(ev.Table, string(ev.Action)).Inc()
	}
}

// toJSON stores a missing side as the JSON literal null.
func toJSON(m map[string]interface{}) (datatypes.JSON, error) {
	if m == nil {
		return datatypes.JSON("null"), nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode audit data: %w", err)
	}
	return datatypes.JSON(raw), nil
}
