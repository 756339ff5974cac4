package service

import (
	"errors"
	"fmt"
	"time"

	"go-medspa-inventory/internal/audit"
	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TreatmentInput struct {
	ClientID        uuid.UUID       `json:"client_id" validate:"uuid_required"`
	ProviderID      *uuid.UUID      `json:"provider_id"`
	Name            string          `json:"name" validate:"required,max=255"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes" validate:"min=0,max=1440"`
	PerformedAt     *time.Time      `json:"performed_at"`
}

type UpdateTreatmentInput struct {
	ProviderID      *uuid.UUID       `json:"provider_id"`
	Name            *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DurationMinutes *int             `json:"duration_minutes" validate:"omitempty,min=0,max=1440"`
	PerformedAt     *time.Time       `json:"performed_at"`
}

type TreatmentService interface {
	Create(req *TreatmentInput, actor *uuid.UUID) (*model.Treatment, error)
	Update(id uuid.UUID, req *UpdateTreatmentInput, actor *uuid.UUID) (*model.Treatment, error)
	Delete(id uuid.UUID, actor *uuid.UUID) error
	Get(id uuid.UUID) (*model.Treatment, error)
	List(clientID *uuid.UUID) ([]model.Treatment, error)
}

type treatmentService struct {
	repo       repository.TreatmentRepository
	clientRepo repository.ClientRepository
	recorder   *audit.Recorder
	db         *gorm.DB
}

func NewTreatmentService(repo repository.TreatmentRepository, cRepo repository.ClientRepository, recorder *audit.Recorder, db *gorm.DB) TreatmentService {
	return &treatmentService{repo: repo, clientRepo: cRepo, recorder: recorder, db: db}
}

func (s *treatmentService) Create(req *TreatmentInput, actor *uuid.UUID) (*model.Treatment, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, FieldError("price", "gte", "0")
	}
	if _, err := s.clientRepo.FindByID(req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}

	treatment := &model.Treatment{
		ClientID:        req.ClientID,
		ProviderID:      req.ProviderID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		PerformedAt:     req.PerformedAt,
	}

	var events []audit.Event
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(tx, treatment); err != nil {
			return fmt.Errorf("create treatment: %w", err)
		}
		ev, err := audit.Created(audit.TableTreatments, treatment.ID.String(), treatment)
		if err != nil {
			return err
		}
		events = append(events, ev)
		return s.recorder.Record(tx, actor, events...)
	})
	if err != nil {
		return nil, err
	}
	audit.Observe(events)
	return treatment, nil
}

func (s *treatmentService) Update(id uuid.UUID, req *UpdateTreatmentInput, actor *uuid.UUID) (*model.Treatment, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, FieldError("price", "gte", "0")
	}

	var events []audit.Event
	var updated *model.Treatment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Treatment
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTreatmentNotFound
			}
			return fmt.Errorf("find treatment: %w", err)
		}
		before := existing

		if req.ProviderID != nil {
			existing.ProviderID = req.ProviderID
		}
		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.Description != nil {
			existing.Description = *req.Description
		}
		if req.Price != nil {
			existing.Price = *req.Price
		}
		if req.DurationMinutes != nil {
			existing.DurationMinutes = *req.DurationMinutes
		}
		if req.PerformedAt != nil {
			existing.PerformedAt = req.PerformedAt
		}
		updated = &existing

		ev, changed, err := audit.Updated(audit.TableTreatments, existing.ID.String(), before, existing)
		if err != nil || !changed {
			return err
		}
		if err := s.repo.Save(tx, &existing); err != nil {
			return fmt.Errorf("save treatment: %w", err)
		}
		events = append(events, ev)
		return s.recorder.Record(tx, actor, events...)
	})
	if err != nil {
		return nil, err
	}
	audit.Observe(events)
	return updated, nil
}

func (s *treatmentService) Delete(id uuid.UUID, actor *uuid.UUID) error {
	var events []audit.Event
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Treatment
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTreatmentNotFound
			}
			return fmt.Errorf("find treatment: %w", err)
		}
		ev, err := audit.Deleted(audit.TableTreatments, existing.ID.String(), existing)
		if err != nil {
			return err
		}
		events = append(events, ev)
		if err := s.repo.Delete(tx, existing.ID); err != nil {
			return fmt.Errorf("delete treatment: %w", err)
		}
		return s.recorder.Record(tx, actor, events...)
	})
	if err != nil {
		return err
	}
	audit.Observe(events)
	return nil
}

func (s *treatmentService) Get(id uuid.UUID) (*model.Treatment, error) {
	treatment, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTreatmentNotFound
	}
	return treatment, err
}

func (s *treatmentService) List(clientID *uuid.UUID) ([]model.Treatment, error) {
	return s.repo.FindAll(clientID)
}
