// internal/services/material_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/models"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

var (
	ErrCategoryNotFound = errors.New("material category not found")
	ErrMaterialInUse    = errors.New("material is referenced by existing items")
	ErrMaterialExists   = errors.New("material with this name already exists")
)

type MaterialService struct {
	db *gorm.DB
}

func NewMaterialService(db *gorm.DB) *MaterialService {
	return &MaterialService{db: db}
}

type CreateMaterialRequest struct {
	Name       string     `json:"name" validate:"required,min=2,max=100"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

type UpdateMaterialRequest struct {
	Name       string     `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ListMaterials returns the active catalog grouped flat; inactive
// entries are included only when requested by an admin view.
func (s *MaterialService) ListMaterials(includeInactive bool) ([]models.Material, error) {
	query := s.db.Model(&models.Material{}).Preload("Category").Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var materials []models.Material
	if err := query.Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch materials: %w", err)
	}
	return materials, nil
}

func (s *MaterialService) GetMaterial(id uuid.UUID) (*models.Material, error) {
	var material models.Material
	if err := s.db.Preload("Category").First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &material, nil
}

func (s *MaterialService) CreateMaterial(req *CreateMaterialRequest) (*models.Material, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.CategoryID != nil {
		var category models.MaterialCategory
		if err := s.db.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	var existing models.Material
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, ErrMaterialExists
	}

	material := &models.Material{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		IsActive:   true,
	}
	if err := s.db.Create(material).Error; err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	s.db.Preload("Category").First(material, "id = ?", material.ID)
	return material, nil
}

func (s *MaterialService) UpdateMaterial(id uuid.UUID, req *UpdateMaterialRequest) (*models.Material, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	material, err := s.GetMaterial(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.CategoryID != nil {
		var category models.MaterialCategory
		if err := s.db.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(material).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update material: %w", err)
		}
	}

	return s.GetMaterial(id)
}

// DeleteMaterial refuses when items still reference the material; the
// admin path is to deactivate instead.
func (s *MaterialService) DeleteMaterial(id uuid.UUID) error {
	material, err := s.GetMaterial(id)
	if err != nil {
		return err
	}

	var itemCount int64
	if err := s.db.Model(&models.Item{}).Where("material_id = ?", id).Count(&itemCount).Error; err != nil {
		return fmt.Errorf("failed to check material references: %w", err)
	}
	if itemCount > 0 {
		return ErrMaterialInUse
	}

	if err := s.db.Delete(material).Error; err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	return nil
}

func (s *MaterialService) ListCategories() ([]models.MaterialCategory, error) {
	var categories []models.MaterialCategory
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *MaterialService) CreateCategory(req *CreateCategoryRequest) (*models.MaterialCategory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category := &models.MaterialCategory{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}
