package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/internal/repository"
	"go-medspa-inventory/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EventStockUpdate = "stock_update"
	EventLowStock    = "low_stock"
)

type NotificationService interface {
	EnsureLowStockNotification(tx *gorm.DB, product *model.Product) (*model.StockNotification, bool, error)
	List(unreadOnly bool) ([]model.StockNotification, error)
	MarkRead(id uuid.UUID) (*model.StockNotification, error)
	SweepLowStock(ctx context.Context) (int, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
	hub         Broadcaster
	log         *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, pRepo repository.ProductRepository, db *gorm.DB, hub Broadcaster, log *zap.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		productRepo: pRepo,
		db:          db,
		hub:         orNop(hub),
		log:         orNopLogger(log),
	}
}

func LowStockMessage(p *model.Product) string {
	return fmt.Sprintf("Low stock alert: %s (SKU %s) has %d units left (threshold %d)",
		p.Name, p.SKU, p.CurrentStock, p.LowStockThreshold)
}

// EnsureLowStockNotification is the only place low-stock notifications are
// created. A product at or below its threshold gets a new notification unless
// an unread one already exists. created reports whether a row was inserted;
// the returned notification is the new or the existing unread one.
func (s *notificationService) EnsureLowStockNotification(tx *gorm.DB, product *model.Product) (*model.StockNotification, bool, error) {
	if !product.IsLowStock() {
		return nil, false, nil
	}

	existing, err := s.repo.FindUnreadByProduct(tx, product.ID)
	if err != nil {
		return nil, false, fmt.Errorf("find unread notification: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	notification := &model.StockNotification{
		ProductID:    product.ID,
		Message:      LowStockMessage(product),
		CurrentStock: product.CurrentStock,
	}
	if err := s.repo.Create(tx, notification); err != nil {
		return nil, false, fmt.Errorf("create notification: %w", err)
	}
	return notification, true, nil
}

func (s *notificationService) List(unreadOnly bool) ([]model.StockNotification, error) {
	return s.repo.FindAll(unreadOnly)
}

func (s *notificationService) MarkRead(id uuid.UUID) (*model.StockNotification, error) {
	notification, err := s.repo.MarkRead(id, time.Now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	return notification, err
}

// SweepLowStock raises notifications for active products that sit at or below
// their threshold without one, e.g. after a threshold was lowered offline.
// It returns the number of notifications created.
func (s *notificationService) SweepLowStock(ctx context.Context) (int, error) {
	products, err := s.productRepo.FindAll(repository.ProductFilter{LowStock: true, ActiveOnly: true})
	if err != nil {
		return 0, fmt.Errorf("list low stock products: %w", err)
	}

	created := 0
	for i := range products {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		var (
			notification *model.StockNotification
			isNew        bool
			product      *model.Product
		)
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			product, err = s.productRepo.LockByID(tx, products[i].ID)
			if err != nil {
				return err
			}
			notification, isNew, err = s.EnsureLowStockNotification(tx, product)
			return err
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue // deleted since the listing
		}
		if err != nil {
			return created, err
		}
		if !isNew {
			continue
		}

		created++
		metrics.LowStockNotifications.WithLabelValues("sweep").Inc()
		s.hub.Publish(EventLowStock, lowStockPayload(product, notification))
	}

	if created > 0 {
		s.log.Info("low stock sweep raised notifications", zap.Int("created", created))
	}
	return created, nil
}

func lowStockPayload(p *model.Product, n *model.StockNotification) map[string]interface{} {
	return map[string]interface{}{
		"notification_id": n.ID,
		"product": map[string]interface{}{
			"id":    p.ID,
			"sku":   p.SKU,
			"name":  p.Name,
			"stock": p.CurrentStock,
		},
		"message": n.Message,
	}
}
