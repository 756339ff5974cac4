package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-medspa-inventory/internal/audit"
	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/internal/repository"
	"go-medspa-inventory/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name              string          `json:"name" validate:"required,max=255"`
	SKU               string          `json:"sku" validate:"required,max=50"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	CurrentStock      int             `json:"current_stock" validate:"min=0"`
	MinimumStock      int             `json:"minimum_stock" validate:"min=0"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Category          string          `json:"category" validate:"max=100"`
	ExpiryDate        *time.Time      `json:"expiry_date"`
	LotNumber         *string         `json:"lot_number" validate:"omitempty,max=100"`
	Location          *string         `json:"location" validate:"omitempty,max=100"`
	IsActive          *bool           `json:"is_active"`
}

// UpdateProductInput is a partial update; nil fields are left alone.
// Stock is only changed through AdjustStock.
type UpdateProductInput struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=255"`
	SKU               *string          `json:"sku" validate:"omitempty,min=1,max=50"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
	MinimumStock      *int             `json:"minimum_stock" validate:"omitempty,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Category          *string          `json:"category" validate:"omitempty,max=100"`
	ExpiryDate        *time.Time       `json:"expiry_date"`
	LotNumber         *string          `json:"lot_number" validate:"omitempty,max=100"`
	Location          *string          `json:"location" validate:"omitempty,max=100"`
	IsActive          *bool            `json:"is_active"`
}

type AdjustStockInput struct {
	Quantity *int   `json:"quantity" validate:"required,ne=0"`
	Reason   string `json:"reason" validate:"max=500"`
}

type AdjustmentResult struct {
	Adjustment   *model.StockAdjustment   `json:"adjustment"`
	Product      *model.Product           `json:"product"`
	Notification *model.StockNotification `json:"notification,omitempty"`
	Events       []audit.Event            `json:"-"`
}

type InventoryService interface {
	CreateProduct(req *CreateProductInput, actor *uuid.UUID) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *UpdateProductInput, actor *uuid.UUID) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor *uuid.UUID) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	AdjustStock(productID uuid.UUID, req *AdjustStockInput, actor *uuid.UUID) (*AdjustmentResult, error)
	ListAdjustments(productID uuid.UUID) ([]model.StockAdjustment, error)
}

type inventoryService struct {
	productRepo    repository.ProductRepository
	adjustmentRepo repository.AdjustmentRepository
	notifier       NotificationService
	recorder       *audit.Recorder
	db             *gorm.DB
	hub            Broadcaster
	log            *zap.Logger
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	aRepo repository.AdjustmentRepository,
	notifier NotificationService,
	recorder *audit.Recorder,
	db *gorm.DB,
	hub Broadcaster,
	log *zap.Logger,
) InventoryService {
	return &inventoryService{
		productRepo:    pRepo,
		adjustmentRepo: aRepo,
		notifier:       notifier,
		recorder:       recorder,
		db:             db,
		hub:            orNop(hub),
		log:            orNopLogger(log),
	}
}

func (s *inventoryService) CreateProduct(req *CreateProductInput, actor *uuid.UUID) (*model.Product, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.UnitPrice.IsNegative() {
		return nil, FieldError("unit_price", "gte", "0")
	}
	if err := s.ensureSKUFree(req.SKU, uuid.Nil); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:              strings.TrimSpace(req.Name),
		SKU:               strings.TrimSpace(req.SKU),
		UnitPrice:         req.UnitPrice,
		MinimumStock:      req.MinimumStock,
		LowStockThreshold: model.DefaultLowStockThreshold,
		Category:          req.Category,
		ExpiryDate:        req.ExpiryDate,
		LotNumber:         req.LotNumber,
		Location:          req.Location,
		IsActive:          true,
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	var (
		events       []audit.Event
		adjustment   *model.StockAdjustment
		notification *model.StockNotification
		notified     bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		// Opening stock goes through an adjustment like any other change.
		if req.CurrentStock != 0 {
			stock, err := s.productRepo.IncrementStock(tx, product.ID, req.CurrentStock)
			if err != nil {
				return fmt.Errorf("set initial stock: %w", err)
			}
			product.CurrentStock = stock
			adjustment = &model.StockAdjustment{
				ProductID:     product.ID,
				Quantity:      req.CurrentStock,
				PreviousStock: 0,
				NewStock:      stock,
				Reason:        "Initial stock",
				UserID:        actor,
			}
			if err := s.adjustmentRepo.Create(tx, adjustment); err != nil {
				return fmt.Errorf("create initial adjustment: %w", err)
			}
		}

		ev, err := audit.Created(audit.TableProducts, product.ID.String(), product)
		if err != nil {
			return err
		}
		events = append(events, ev)
		if adjustment != nil {
			ev, err := audit.Created(audit.TableStockAdjustments, adjustment.ID.String(), adjustment)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}

		notification, notified, err = s.notifier.EnsureLowStockNotification(tx, product)
		if err != nil {
			return err
		}
		return s.recorder.Record(tx, actor, events...)
	})
	if err != nil {
		if isSKUConflict(err) {
			return nil, ErrSKUExists
		}
		return nil, err
	}

	audit.Observe(events)
	if adjustment != nil {
		metrics.StockAdjustments.WithLabelValues(direction(adjustment.Quantity)).Inc()
	}
	s.publishProduct("product_created", product, nil)
	if notified {
		metrics.LowStockNotifications.WithLabelValues("product").Inc()
		s.hub.Publish(EventLowStock, lowStockPayload(product, notification))
	}
	return product, nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *UpdateProductInput, actor *uuid.UUID) (*model.Product, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, FieldError("unit_price", "gte", "0")
	}
	if req.SKU != nil {
		if err := s.ensureSKUFree(strings.TrimSpace(*req.SKU), id); err != nil {
			return nil, err
		}
	}

	var (
		updated      *model.Product
		events       []audit.Event
		notification *model.StockNotification
		notified     bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("lock product: %w", err)
		}
		before := *existing
		applyProductUpdate(existing, req)

		ev, changed, err := audit.Updated(audit.TableProducts, existing.ID.String(), before, existing)
		if err != nil {
			return err
		}
		updated = existing
		if !changed {
			return nil
		}

		if err := s.productRepo.Save(tx, existing); err != nil {
			return fmt.Errorf("save product: %w", err)
		}
		events = append(events, ev)

		if before.LowStockThreshold != existing.LowStockThreshold {
			notification, notified, err = s.notifier.EnsureLowStockNotification(tx, existing)
			if err != nil {
				return err
			}
		}
		return s.recorder.Record(tx, actor, events...)
	})
	if err != nil {
		if isSKUConflict(err) {
			return nil, ErrSKUExists
		}
		return nil, err
	}

	if len(events) > 0 {
		audit.Observe(events)
		s.publishProduct("product_updated", updated, nil)
	}
	if notified {
		metrics.LowStockNotifications.WithLabelValues("product").Inc()
		s.hub.Publish(EventLowStock, lowStockPayload(updated, notification))
	}
	return updated, nil
}

func applyProductUpdate(p *model.Product, req *UpdateProductInput) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		p.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.UnitPrice != nil {
		p.UnitPrice = *req.UnitPrice
	}
	if req.MinimumStock != nil {
		p.MinimumStock = *req.MinimumStock
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.ExpiryDate != nil {
		p.ExpiryDate = req.ExpiryDate
	}
	if req.LotNumber != nil {
		p.LotNumber = req.LotNumber
	}
	if req.Location != nil {
		p.Location = req.Location
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}

func (s *inventoryService) DeleteProduct(id uuid.UUID, actor *uuid.UUID) error {
	var events []audit.Event
	var deleted *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("lock product: %w", err)
		}

		// Snapshot before the row disappears.
		ev, err := audit.Deleted(audit.TableProducts, existing.ID.String(), existing)
		if err != nil {
			return err
		}
		events = append(events, ev)

		if err := s.productRepo.Delete(tx, existing.ID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		deleted = existing
		return s.recorder.Record(tx, actor, events...)
	})
	if err != nil {
		return err
	}

	audit.Observe(events)
	s.publishProduct("product_deleted", deleted, nil)
	return nil
}

func (s *inventoryService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *inventoryService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *inventoryService) ListAdjustments(productID uuid.UUID) ([]model.StockAdjustment, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}
	return s.adjustmentRepo.FindByProduct(productID)
}

// AdjustStock applies a signed quantity to the product's stock. The row lock,
// stock update, adjustment row, low-stock notification and audit rows commit
// or roll back together.
func (s *inventoryService) AdjustStock(productID uuid.UUID, req *AdjustStockInput, actor *uuid.UUID) (*AdjustmentResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	qty := *req.Quantity

	result := &AdjustmentResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		before, err := s.productRepo.LockByID(tx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("lock product: %w", err)
		}
		if qty > 0 && before.CurrentStock > math.MaxInt-qty {
			return FieldError("quantity", "max", strconv.Itoa(math.MaxInt-before.CurrentStock))
		}
		if qty < 0 && before.CurrentStock+qty < 0 {
			return FieldError("quantity", "min_stock", strconv.Itoa(-before.CurrentStock))
		}

		newStock, err := s.productRepo.IncrementStock(tx, productID, qty)
		if err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if newStock < 0 {
			return FieldError("quantity", "min_stock", strconv.Itoa(qty-newStock))
		}

		after, err := s.productRepo.LockByID(tx, productID)
		if err != nil {
			return fmt.Errorf("reload product: %w", err)
		}

		adjustment := &model.StockAdjustment{
			ProductID:     productID,
			Quantity:      qty,
			PreviousStock: newStock - qty,
			NewStock:      newStock,
			Reason:        strings.TrimSpace(req.Reason),
			UserID:        actor,
		}
		if err := s.adjustmentRepo.Create(tx, adjustment); err != nil {
			return fmt.Errorf("create adjustment: %w", err)
		}

		notification, created, err := s.notifier.EnsureLowStockNotification(tx, after)
		if err != nil {
			return err
		}
		if created {
			result.Notification = notification
		}

		adjEvent, err := audit.Created(audit.TableStockAdjustments, adjustment.ID.String(), adjustment)
		if err != nil {
			return err
		}
		result.Events = append(result.Events, adjEvent)

		productEvent, changed, err := audit.Updated(audit.TableProducts, after.ID.String(), before, after)
		if err != nil {
			return err
		}
		if changed {
			result.Events = append(result.Events, productEvent)
		}

		result.Adjustment = adjustment
		result.Product = after
		return s.recorder.Record(tx, actor, result.Events...)
	})
	if err != nil {
		return nil, err
	}

	audit.Observe(result.Events)
	metrics.StockAdjustments.WithLabelValues(direction(qty)).Inc()
	s.publishProduct("stock_adjusted", result.Product, result.Adjustment)
	if result.Notification != nil {
		s.log.Info("low stock notification raised",
			zap.String("product_id", productID.String()),
			zap.Int("stock", result.Product.CurrentStock),
			zap.Int("threshold", result.Product.LowStockThreshold),
		)
		metrics.LowStockNotifications.WithLabelValues("adjustment").Inc()
		s.hub.Publish(EventLowStock, lowStockPayload(result.Product, result.Notification))
	}
	return result, nil
}

func (s *inventoryService) ensureSKUFree(sku string, self uuid.UUID) error {
	existing, err := s.productRepo.FindBySKU(sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find product by sku: %w", err)
	}
	if existing.ID != self {
		return ErrSKUExists
	}
	return nil
}

// isSKUConflict catches a concurrent insert that slipped past ensureSKUFree.
func isSKUConflict(err error) bool {
	return errors.Is(err, ErrSKUExists) || errors.Is(err, gorm.ErrDuplicatedKey)
}

func (s *inventoryService) publishProduct(action string, p *model.Product, adj *model.StockAdjustment) {
	payload := map[string]interface{}{
		"action": action,
		"product": map[string]interface{}{
			"id":    p.ID,
			"sku":   p.SKU,
			"name":  p.Name,
			"stock": p.CurrentStock,
			"price": p.UnitPrice,
		},
	}
	if adj != nil {
		payload["adjustment"] = map[string]interface{}{
			"id":             adj.ID,
			"quantity":       adj.Quantity,
			"previous_stock": adj.PreviousStock,
			"new_stock":      adj.NewStock,
			"user_id":        adj.UserID,
		}
	}
	s.hub.Publish(EventStockUpdate, payload)
}

func direction(qty int) string {
	if qty < 0 {
		return "out"
	}
	return "in"
}
