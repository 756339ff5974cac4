package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-medspa-inventory/internal/audit"
	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/internal/repository"
	"go-medspa-inventory/internal/service"
	"go-medspa-inventory/internal/testutil"
	"go-medspa-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	app   *fiber.App
	db    *gorm.DB
	token string
	actor uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)

	productRepo := repository.NewProductRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	clientRepo := repository.NewClientRepo(db)
	recorder := audit.NewRecorder(auditRepo)
	notifications := service.NewNotificationService(repository.NewNotificationRepo(db), productRepo, db, nil, nil)

	h := &Handlers{
		Inventory:     NewInventoryHandler(service.NewInventoryService(productRepo, repository.NewAdjustmentRepo(db), notifications, recorder, db, nil, nil)),
		Notifications: NewNotificationHandler(notifications),
		Audit:         NewAuditHandler(service.NewAuditService(auditRepo)),
		Treatments:    NewTreatmentHandler(service.NewTreatmentService(repository.NewTreatmentRepo(db), clientRepo, recorder, db)),
		Clients:       NewClientHandler(service.NewClientService(clientRepo)),
		Dashboard:     NewDashboardHandler(service.NewDashboardService(repository.NewDashboardRepo(db))),
	}
	app := fiber.New()
	h.Register(app)

	actor := uuid.New()
	token, err := jwt.GenerateToken(actor, "admin@example.com", "Admin", "admin", model.AllPrivileges, time.Hour)
	require.NoError(t, err)

	return &testServer{app: app, db: db, token: token, actor: actor}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, raw := s.doRaw(t, method, path, body, s.token)
	out := map[string]interface{}{}
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func (s *testServer) doRaw(t *testing.T, method, path, body, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (s *testServer) createProduct(t *testing.T, sku string) string {
	t.Helper()
	resp, body := s.do(t, "POST", "/api/v1/products", `{
		"name": "Botox 100U",
		"sku": "`+sku+`",
		"unit_price": "410.00",
		"current_stock": 10,
		"minimum_stock": 5,
		"low_stock_threshold": 5
	}`)
	require.Equal(t, 201, resp.StatusCode, body)
	return body["data"].(map[string]interface{})["id"].(string)
}

func firstField(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	fields, ok := body["fields"].([]interface{})
	require.True(t, ok, body)
	require.NotEmpty(t, fields)
	return fields[0].(map[string]interface{})
}

func TestAdjustStockEndToEnd(t *testing.T) {
	s := newTestServer(t)
	id := s.createProduct(t, "BTX-1")

	resp, body := s.do(t, "POST", "/api/v1/products/"+id+"/adjust", `{"quantity": -6, "reason": "used"}`)
	require.Equal(t, 200, resp.StatusCode, body)
	assert.Equal(t, "Stock adjusted successfully", body["message"])

	product := body["product"].(map[string]interface{})
	assert.EqualValues(t, 4, product["current_stock"])
	adjustment := body["adjustment"].(map[string]interface{})
	assert.EqualValues(t, 10, adjustment["previous_stock"])
	assert.EqualValues(t, 4, adjustment["new_stock"])
	assert.Equal(t, s.actor.String(), adjustment["user_id"])

	notification, ok := body["notification"].(map[string]interface{})
	require.True(t, ok, "first low-stock adjustment returns the notification")
	assert.Contains(t, notification["message"], "Botox 100U")
	assert.Contains(t, notification["message"], "4 units")

	resp, body = s.do(t, "POST", "/api/v1/products/"+id+"/adjust", `{"quantity": 10}`)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 14, body["product"].(map[string]interface{})["current_stock"])
	assert.NotContains(t, body, "notification")

	resp, raw := s.doRaw(t, "GET", "/api/v1/notifications?unread=true", "", s.token)
	require.Equal(t, 200, resp.StatusCode)
	var unread []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &unread))
	require.Len(t, unread, 1)

	nid := unread[0]["id"].(string)
	for i := 0; i < 2; i++ {
		resp, body = s.do(t, "PATCH", "/api/v1/notifications/"+nid+"/read", "")
		require.Equal(t, 200, resp.StatusCode, body)
		assert.Equal(t, true, body["data"].(map[string]interface{})["is_read"])
	}

	resp, raw = s.doRaw(t, "GET", "/api/v1/products/"+id+"/adjustments", "", s.token)
	require.Equal(t, 200, resp.StatusCode)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &history))
	assert.Len(t, history, 3)
}

func TestAdjustStockValidation(t *testing.T) {
	s := newTestServer(t)
	id := s.createProduct(t, "BTX-2")

	cases := []struct {
		name string
		body string
		tag  string
	}{
		{"zero", `{"quantity": 0}`, "ne"},
		{"missing", `{"reason": "count"}`, "required"},
		{"fraction", `{"quantity": 1.5}`, "type"},
		{"string", `{"quantity": "five"}`, "type"},
		{"below zero", `{"quantity": -11}`, "min_stock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := s.do(t, "POST", "/api/v1/products/"+id+"/adjust", tc.body)
			require.Equal(t, 422, resp.StatusCode, body)
			field := firstField(t, body)
			assert.Equal(t, "quantity", field["field"])
			assert.Equal(t, tc.tag, field["tag"])
		})
	}

	resp, body := s.do(t, "GET", "/api/v1/products/"+id, "")
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 10, body["current_stock"])
}

func TestAdjustStockNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		resp, body := s.do(t, "POST", "/api/v1/products/"+id+"/adjust", `{"quantity": 1}`)
		assert.Equal(t, 404, resp.StatusCode)
		assert.Equal(t, "Product not found", body["error"])
	}
}

func TestAdjustStockMalformedJSON(t *testing.T) {
	s := newTestServer(t)
	id := s.createProduct(t, "BTX-3")

	resp, body := s.do(t, "POST", "/api/v1/products/"+id+"/adjust", `{"quantity":`)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Invalid JSON", body["error"])
}

func TestAuthAndPrivileges(t *testing.T) {
	s := newTestServer(t)
	id := s.createProduct(t, "BTX-4")

	resp, _ := s.doRaw(t, "POST", "/api/v1/products/"+id+"/adjust", `{"quantity": 1}`, "")
	assert.Equal(t, 401, resp.StatusCode)

	viewer, err := jwt.GenerateToken(uuid.New(), "front@example.com", "Front Desk", "reception", []string{model.PrivClientView}, time.Hour)
	require.NoError(t, err)
	resp, _ = s.doRaw(t, "POST", "/api/v1/products/"+id+"/adjust", `{"quantity": 1}`, viewer)
	assert.Equal(t, 403, resp.StatusCode)

	resp, _ = s.doRaw(t, "GET", "/api/v1/products", "", viewer)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestProductCRUD(t *testing.T) {
	s := newTestServer(t)
	id := s.createProduct(t, "BTX-5")

	resp, body := s.do(t, "POST", "/api/v1/products", `{"name": "Dup", "sku": "BTX-5"}`)
	assert.Equal(t, 409, resp.StatusCode, body)

	resp, body = s.do(t, "PUT", "/api/v1/products/"+id, `{"location": "Cabinet 2", "current_stock": 999}`)
	require.Equal(t, 200, resp.StatusCode, body)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Cabinet 2", data["location"])
	assert.EqualValues(t, 10, data["current_stock"], "stock only changes through adjust")

	resp, _ = s.do(t, "DELETE", "/api/v1/products/"+id, "")
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = s.do(t, "GET", "/api/v1/products/"+id, "")
	assert.Equal(t, 404, resp.StatusCode)

	resp, raw := s.doRaw(t, "GET", "/api/v1/audit-logs?table=products&record_id="+id, "", s.token)
	require.Equal(t, 200, resp.StatusCode)
	var logs []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &logs))
	require.Len(t, logs, 3)
	assert.Equal(t, "created", logs[0]["action"])
	assert.Equal(t, "updated", logs[1]["action"])
	assert.Equal(t, map[string]interface{}{"location": "Cabinet 2"}, logs[1]["new_data"])
	assert.Equal(t, "deleted", logs[2]["action"])
	assert.Nil(t, logs[2]["new_data"])
	assert.Equal(t, s.actor.String(), logs[2]["user_id"])
}

func TestAuditExport(t *testing.T) {
	s := newTestServer(t)
	s.createProduct(t, "BTX-6")

	resp, raw := s.doRaw(t, "GET", "/api/v1/audit-logs/export?table=products", "", s.token)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(string(raw), "id,created_at,user_id,action,table_name,record_id"))
}

func TestTreatmentAndClientRoutes(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "POST", "/api/v1/clients", `{"first_name": "Lea", "last_name": "Kim", "email": "lea@example.com"}`)
	require.Equal(t, 201, resp.StatusCode, body)
	clientID := body["data"].(map[string]interface{})["id"].(string)

	resp, body = s.do(t, "POST", "/api/v1/treatments", `{"client_id": "`+clientID+`", "name": "Microneedling", "price": "250", "duration_minutes": 60}`)
	require.Equal(t, 201, resp.StatusCode, body)
	treatmentID := body["data"].(map[string]interface{})["id"].(string)

	resp, raw := s.doRaw(t, "GET", "/api/v1/treatments?client_id="+clientID, "", s.token)
	require.Equal(t, 200, resp.StatusCode)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)

	resp, _ = s.do(t, "PUT", "/api/v1/treatments/"+treatmentID, `{"name": "Microneedling + PRP"}`)
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = s.do(t, "DELETE", "/api/v1/treatments/"+treatmentID, "")
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = s.do(t, "GET", "/api/v1/treatments/"+treatmentID, "")
	assert.Equal(t, 404, resp.StatusCode)

	resp, _ = s.do(t, "GET", "/api/v1/clients/"+clientID, "")
	assert.Equal(t, 200, resp.StatusCode)
}

func TestProviderCanOpenSingleClient(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(t, "POST", "/api/v1/clients", `{"first_name": "Ava", "last_name": "Ng", "email": "ava@example.com"}`)
	require.Equal(t, 201, resp.StatusCode, body)
	clientID := body["data"].(map[string]interface{})["id"].(string)

	provider, err := jwt.GenerateToken(uuid.New(), "dr@example.com", "Dr Ng", "provider", []string{model.PrivTreatmentCreate}, time.Hour)
	require.NoError(t, err)
	resp, _ = s.doRaw(t, "GET", "/api/v1/clients/"+clientID, "", provider)
	assert.Equal(t, 200, resp.StatusCode)
	resp, _ = s.doRaw(t, "GET", "/api/v1/clients", "", provider)
	assert.Equal(t, 403, resp.StatusCode)

	stock, err := jwt.GenerateToken(uuid.New(), "stock@example.com", "Stock", "inventory", []string{model.PrivStockAdjust}, time.Hour)
	require.NoError(t, err)
	resp, _ = s.doRaw(t, "GET", "/api/v1/clients/"+clientID, "", stock)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestAuditLogsNewestFirst(t *testing.T) {
	s := newTestServer(t)
	for _, sku := range []string{"BTX-A", "BTX-B", "BTX-C"} {
		s.createProduct(t, sku)
	}

	resp, raw := s.doRaw(t, "GET", "/api/v1/audit-logs?order=desc&limit=2", "", s.token)
	require.Equal(t, 200, resp.StatusCode)
	var page []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page, 2)
	assert.Equal(t, float64(6), page[0]["id"])
	assert.Equal(t, float64(5), page[1]["id"])

	resp, raw = s.doRaw(t, "GET", "/api/v1/audit-logs?after_id=4", "", s.token)
	require.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page, 2)
	assert.Equal(t, float64(5), page[0]["id"])
}

func TestDashboardRoutes(t *testing.T) {
	s := newTestServer(t)
	id := s.createProduct(t, "BTX-7")
	s.do(t, "POST", "/api/v1/products/"+id+"/adjust", `{"quantity": -2}`)

	resp, body := s.do(t, "GET", "/api/v1/dashboard/stats", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 1, body["total_products"])

	resp, body = s.do(t, "GET", "/api/v1/dashboard/stock-movement?days=3", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 3, body["period"])
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	s := newTestServer(t)
	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, body := s.do(t, "GET", "/api/v1/notifications", "")
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"error": "Internal Server Error"}, body)
}
