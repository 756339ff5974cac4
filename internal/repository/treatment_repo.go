package repository

import (
	"go-medspa-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TreatmentRepository interface {
	Create(tx *gorm.DB, treatment *model.Treatment) error
	FindAll(clientID *uuid.UUID) ([]model.Treatment, error)
	FindByID(id uuid.UUID) (*model.Treatment, error)
	Save(tx *gorm.DB, treatment *model.Treatment) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type treatmentRepo struct {
	db *gorm.DB
}

func NewTreatmentRepo(db *gorm.DB) TreatmentRepository {
	return &treatmentRepo{db}
}

func (r *treatmentRepo) Create(tx *gorm.DB, treatment *model.Treatment) error {
	return tx.Create(treatment).Error
}

func (r *treatmentRepo) FindAll(clientID *uuid.UUID) ([]model.Treatment, error) {
	var treatments []model.Treatment
	q := r.db.Order("created_at DESC")
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}
	err := q.Find(&treatments).Error
	return treatments, err
}

func (r *treatmentRepo) FindByID(id uuid.UUID) (*model.Treatment, error) {
	var treatment model.Treatment
	if err := r.db.First(&treatment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &treatment, nil
}

func (r *treatmentRepo) Save(tx *gorm.DB, treatment *model.Treatment) error {
	return tx.Save(treatment).Error
}

func (r *treatmentRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.Treatment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
