package service

import (
	"context"

	repository "equiplend/internal/database/postgres"
	"equiplend/internal/entity"

	"github.com/sirupsen/logrus"
)

type CreateEquipmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Model       string `json:"model" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	CategoryID  *int64 `json:"category_id"`
	ImageURL    string `json:"image_url"`
}

type UpdateEquipmentRequest struct {
	Name        *string                 `json:"name"`
	Model       *string                 `json:"model"`
	Description *string                 `json:"description"`
	Category    *string                 `json:"category"`
	CategoryID  *int64                  `json:"category_id"`
	Status      *entity.EquipmentStatus `json:"status"`
	ImageURL    *string                 `json:"image_url"`
}

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
	bookingRepo   repository.BookingRepository
}

func NewEquipmentService(
	equipmentRepo repository.EquipmentRepository,
	bookingRepo repository.BookingRepository,
) EquipmentService {
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		bookingRepo:   bookingRepo,
	}
}

func (s *equipmentService) CreateEquipment(ctx context.Context, req *CreateEquipmentRequest) (*entity.Equipment, error) {
	equipment := &entity.Equipment{
		Name:        req.Name,
		Model:       req.Model,
		Description: req.Description,
		Category:    req.Category,
		CategoryID:  req.CategoryID,
		Status:      entity.EquipmentStatusAvailable,
		ImageURL:    req.ImageURL,
	}

	if err := s.equipmentRepo.Create(ctx, equipment); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"equipment_id": equipment.ID,
		"name":         equipment.Name,
	}).Info("Equipment created")
	return equipment, nil
}

func (s *equipmentService) GetEquipment(ctx context.Context, id int64) (*entity.Equipment, error) {
	return s.equipmentRepo.GetByID(ctx, id)
}

func (s *equipmentService) GetAllEquipment(ctx context.Context, filter *entity.EquipmentFilter) ([]*entity.Equipment, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, entity.ErrInvalidEquipmentStatus
	}
	return s.equipmentRepo.GetAll(ctx, filter)
}

func (s *equipmentService) UpdateEquipment(ctx context.Context, id int64, req *UpdateEquipmentRequest) (*entity.Equipment, error) {
	equipment, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Status-only overrides touch just the status column.
	if req.Status != nil && req.Name == nil && req.Model == nil && req.Description == nil &&
		req.Category == nil && req.CategoryID == nil && req.ImageURL == nil {
		if !req.Status.Valid() {
			return nil, entity.ErrInvalidEquipmentStatus
		}
		if err := s.equipmentRepo.SetStatus(ctx, id, *req.Status); err != nil {
			return nil, err
		}
		equipment.Status = *req.Status
		return equipment, nil
	}
	// GetByID reports the derived status; keep the stored column as the
	// base for the update unless the request overrides it.
	stored, err := s.equipmentRepo.GetStoredStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	equipment.Status = stored

	if req.Name != nil {
		equipment.Name = *req.Name
	}
	if req.Model != nil {
		equipment.Model = *req.Model
	}
	if req.Description != nil {
		equipment.Description = *req.Description
	}
	if req.Category != nil {
		equipment.Category = *req.Category
	}
	if req.CategoryID != nil {
		equipment.CategoryID = req.CategoryID
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, entity.ErrInvalidEquipmentStatus
		}
		equipment.Status = *req.Status
	}
	if req.ImageURL != nil {
		equipment.ImageURL = *req.ImageURL
	}

	if err := s.equipmentRepo.Update(ctx, equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

func (s *equipmentService) DeleteEquipment(ctx context.Context, id int64) error {
	if _, err := s.equipmentRepo.GetByID(ctx, id); err != nil {
		return err
	}

	open, err := s.bookingRepo.CountOpenByEquipment(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return entity.ErrEquipmentHasBookings
	}

	if err := s.equipmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	logrus.WithField("equipment_id", id).Info("Equipment deleted")
	return nil
}
