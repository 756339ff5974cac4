package service

import (
	"sync"
	"testing"

	"go-medspa-inventory/internal/audit"
	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/internal/repository"
	"go-medspa-inventory/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHub) Publish(event string, _ interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) count(event string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e == event {
			n++
		}
	}
	return n
}

type fixture struct {
	db            *gorm.DB
	hub           *recordingHub
	inventory     InventoryService
	notifications NotificationService
	audits        AuditService
	treatments    TreatmentService
	clients       ClientService
	dashboard     DashboardService
	auditRepo     repository.AuditRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	hub := &recordingHub{}
	log := zap.NewNop()

	productRepo := repository.NewProductRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	clientRepo := repository.NewClientRepo(db)
	recorder := audit.NewRecorder(auditRepo)
	notifications := NewNotificationService(repository.NewNotificationRepo(db), productRepo, db, hub, log)

	return &fixture{
		db:            db,
		hub:           hub,
		inventory:     NewInventoryService(productRepo, repository.NewAdjustmentRepo(db), notifications, recorder, db, hub, log),
		notifications: notifications,
		audits:        NewAuditService(auditRepo),
		treatments:    NewTreatmentService(repository.NewTreatmentRepo(db), clientRepo, recorder, db),
		clients:       NewClientService(clientRepo),
		dashboard:     NewDashboardService(repository.NewDashboardRepo(db)),
		auditRepo:     auditRepo,
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// newProduct creates a product with stock 10, minimum 5 and threshold 5.
func (f *fixture) newProduct(t *testing.T, sku string) *model.Product {
	t.Helper()
	p, err := f.inventory.CreateProduct(&CreateProductInput{
		Name:              "Hyaluronic Filler",
		SKU:               sku,
		UnitPrice:         decimal.RequireFromString("120.50"),
		CurrentStock:      10,
		MinimumStock:      5,
		LowStockThreshold: intPtr(5),
		Category:          "injectables",
	}, nil)
	require.NoError(t, err)
	return p
}

func (f *fixture) adjust(t *testing.T, id uuid.UUID, qty int, actor *uuid.UUID) *AdjustmentResult {
	t.Helper()
	res, err := f.inventory.AdjustStock(id, &AdjustStockInput{Quantity: intPtr(qty), Reason: "test"}, actor)
	require.NoError(t, err)
	return res
}

func (f *fixture) auditRows(t *testing.T, table, recordID string) []model.AuditLog {
	t.Helper()
	logs, err := f.auditRepo.FindAll(repository.AuditFilter{Table: table, RecordID: recordID})
	require.NoError(t, err)
	return logs
}
