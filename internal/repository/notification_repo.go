package repository

import (
	"errors"
	"time"

	"go-medspa-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(tx *gorm.DB, notification *model.StockNotification) error
	FindUnreadByProduct(tx *gorm.DB, productID uuid.UUID) (*model.StockNotification, error)
	FindByID(id uuid.UUID) (*model.StockNotification, error)
	FindAll(unreadOnly bool) ([]model.StockNotification, error)
	MarkRead(id uuid.UUID, at time.Time) (*model.StockNotification, error)
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db}
}

func (r *notificationRepo) Create(tx *gorm.DB, notification *model.StockNotification) error {
	return tx.Create(notification).Error
}

// FindUnreadByProduct returns nil, nil when the product has no unread notification.
func (r *notificationRepo) FindUnreadByProduct(tx *gorm.DB, productID uuid.UUID) (*model.StockNotification, error) {
	var notification model.StockNotification
	err := tx.Where("product_id = ? AND is_read = ?", productID, false).
		Order("created_at ASC").
		First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) FindByID(id uuid.UUID) (*model.StockNotification, error) {
	var notification model.StockNotification
	if err := r.db.First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) FindAll(unreadOnly bool) ([]model.StockNotification, error) {
	var notifications []model.StockNotification
	q := r.db.Order("created_at DESC")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.Find(&notifications).Error
	return notifications, err
}

// MarkRead flips is_read once; repeated calls leave read_at untouched.
func (r *notificationRepo) MarkRead(id uuid.UUID, at time.Time) (*model.StockNotification, error) {
	var notification model.StockNotification
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&notification, "id = ?", id).Error; err != nil {
			return err
		}
		if notification.IsRead {
			return nil
		}
		notification.IsRead = true
		notification.ReadAt = &at
		return tx.Model(&notification).Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &notification, nil
}
