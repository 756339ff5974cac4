package repository

import (
	"go-medspa-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdjustmentRepository interface {
	Create(tx *gorm.DB, adjustment *model.StockAdjustment) error
	FindByProduct(productID uuid.UUID) ([]model.StockAdjustment, error)
}

type adjustmentRepo struct {
	db *gorm.DB
}

func NewAdjustmentRepo(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepo{db}
}

func (r *adjustmentRepo) Create(tx *gorm.DB, adjustment *model.StockAdjustment) error {
	return tx.Create(adjustment).Error
}

func (r *adjustmentRepo) FindByProduct(productID uuid.UUID) ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&adjustments).Error
	return adjustments, err
}
