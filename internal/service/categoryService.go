package service

import (
	"context"
	"errors"

	repository "equiplend/internal/database/postgres"
	rediscache "equiplend/internal/database/redis"
	"equiplend/internal/entity"

	"github.com/sirupsen/logrus"
)

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type categoryService struct {
	categoryRepo  repository.CategoryRepository
	equipmentRepo repository.EquipmentRepository
	cache         *rediscache.CacheRepository
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	equipmentRepo repository.EquipmentRepository,
	cache *rediscache.CacheRepository,
) CategoryService {
	return &categoryService{
		categoryRepo:  categoryRepo,
		equipmentRepo: equipmentRepo,
		cache:         cache,
	}
}

func (s *categoryService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCategories(ctx); err != nil {
		logrus.Warnf("Failed to invalidate category cache: %v", err)
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*entity.Category, error) {
	existing, err := s.categoryRepo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, entity.ErrCategoryNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, entity.ErrCategoryExists
	}

	category := &entity.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	logrus.WithField("category", category.Name).Info("Category created")
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// GetAllCategories serves from the Redis cache when possible; a miss falls
// through to Postgres and repopulates the cache.
func (s *categoryService) GetAllCategories(ctx context.Context) ([]*entity.Category, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCategories(ctx); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories); err != nil {
			logrus.Warnf("Failed to cache categories: %v", err)
		}
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req *UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldName := category.Name
	if req.Name != nil && *req.Name != oldName {
		existing, err := s.categoryRepo.GetByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, entity.ErrCategoryNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, entity.ErrCategoryExists
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	// Keep the denormalized equipment.category column in step with renames.
	if category.Name != oldName {
		if err := s.equipmentRepo.RenameCategory(ctx, id, category.Name); err != nil {
			return nil, err
		}
	}

	s.invalidateCache(ctx)

	count, err := s.equipmentRepo.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.EquipmentCount = count
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.equipmentRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return entity.ErrCategoryHasEquipment
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	logrus.WithField("category_id", id).Info("Category deleted")
	return nil
}
