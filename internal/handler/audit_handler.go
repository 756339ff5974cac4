package handler

import (
	"bytes"
	"fmt"
	"time"

	"go-medspa-inventory/internal/repository"
	"go-medspa-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	service service.AuditService
}

func NewAuditHandler(s service.AuditService) *AuditHandler {
	return &AuditHandler{service: s}
}

func auditFilter(c *fiber.Ctx) repository.AuditFilter {
	return repository.AuditFilter{
		Table:    c.Query("table"),
		RecordID: c.Query("record_id"),
		Action:   c.Query("action"),
		Limit:    c.QueryInt("limit", 100),
		AfterID:  uint(max(c.QueryInt("after_id"), 0)),
		BeforeID: uint(max(c.QueryInt("before_id"), 0)),
		Newest:   c.Query("order") == "desc",
	}
}

// GetAuditLogs
// GET /api/v1/audit-logs?table=products&record_id=&action=updated&limit=100&after_id=&before_id=&order=desc
// Page forward with after_id=<last id>, or backward from the newest with order=desc&before_id=<last id>.
func (h *AuditHandler) GetAuditLogs(c *fiber.Ctx) error {
	logs, err := h.service.List(auditFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(logs)
}

// ExportAuditLogs streams matching rows as CSV
// GET /api/v1/audit-logs/export
func (h *AuditHandler) ExportAuditLogs(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if _, err := h.service.ExportCSV(&buf, auditFilter(c)); err != nil {
		return writeError(c, err)
	}

	filename := fmt.Sprintf("audit-logs-%s.csv", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
