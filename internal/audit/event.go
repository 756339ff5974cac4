// Package audit turns domain changes into append-only audit log rows.
//
// Write operations build Events and hand them to a Recorder inside the same
// transaction that changed the data, so a rolled back change leaves no trace.
package audit

import (
	"encoding/json"
	"fmt"
	"reflect"

	"go-medspa-inventory/internal/model"
)

const (
	TableProducts         = "products"
	TableStockAdjustments = "stock_adjustments"
	TableTreatments       = "treatments"
)

// ignoredFields never count as a change on their own.
var ignoredFields = map[string]bool{
	"updated_at": true,
}

type Event struct {
	Action   model.AuditAction
	Table    string
	RecordID string
	Old      map[string]interface{}
	New      map[string]interface{}
}

// Snapshot renders v through its JSON form so audit rows use API field names.
func Snapshot(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("audit snapshot: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("audit snapshot: %w", err)
	}
	return out, nil
}

// Diff returns the entries of after that differ from before.
func Diff(before, after map[string]interface{}) map[string]interface{} {
	changed := map[string]interface{}{}
	for k, v := range after {
		if ignoredFields[k] {
			continue
		}
		if old, ok := before[k]; !ok || !reflect.DeepEqual(old, v) {
			changed[k] = v
		}
	}
	return changed
}

// Created records the full state of a new row.
func Created(table, recordID string, record interface{}) (Event, error) {
	snap, err := Snapshot(record)
	if err != nil {
		return Event{}, err
	}
	return Event{Action: model.AuditCreated, Table: table, RecordID: recordID, New: snap}, nil
}

// Updated records the previous state and the changed fields. ok is false
// when nothing besides ignored fields changed.
func Updated(table, recordID string, before, after interface{}) (ev Event, ok bool, err error) {
	oldSnap, err := Snapshot(before)
	if err != nil {
		return Event{}, false, err
	}
	newSnap, err := Snapshot(after)
	if err != nil {
		return Event{}, false, err
	}
	changed := Diff(oldSnap, newSnap)
	if len(changed) == 0 {
		return Event{}, false, nil
	}
	return Event{
		Action:   model.AuditUpdated,
		Table:    table,
		RecordID: recordID,
		Old:      oldSnap,
		New:      changed,
	}, true, nil
}

// Deleted records the last known state of a removed row.
func Deleted(table, recordID string, record interface{}) (Event, error) {
	snap, err := Snapshot(record)
	if err != nil {
		return Event{}, err
	}
	return Event{Action: model.AuditDeleted, Table: table, RecordID: recordID, Old: snap}, nil
}
