package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/internal/repository"
	"go-medspa-inventory/pkg/crypt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientInput struct {
	FirstName      string                 `json:"first_name" validate:"required,max=100"`
	LastName       string                 `json:"last_name" validate:"required,max=100"`
	Email          string                 `json:"email" validate:"required,email,max=255"`
	Phone          string                 `json:"phone" validate:"max=30"`
	DateOfBirth    *time.Time             `json:"date_of_birth"`
	MedicalHistory map[string]interface{} `json:"medical_history"`
}

type ClientService interface {
	Create(req *ClientInput) (*model.Client, error)
	Get(id uuid.UUID) (*model.Client, error)
	List() ([]model.Client, error)
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) Create(req *ClientInput) (*model.Client, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := Validate(req); err != nil {
		return nil, err
	}
	email := req.Email

	if _, err := s.repo.FindByEmail(email); err == nil {
		return nil, ErrClientEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find client by email: %w", err)
	}

	client := &model.Client{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          email,
		Phone:          req.Phone,
		DateOfBirth:    req.DateOfBirth,
		MedicalHistory: crypt.EncryptedJSON(req.MedicalHistory),
	}
	if err := s.repo.Create(client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClientEmailExists
		}
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (s *clientService) Get(id uuid.UUID) (*model.Client, error) {
	client, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	return client, err
}

func (s *clientService) List() ([]model.Client, error) {
	return s.repo.FindAll()
}
