// internal/services/organization_service.go
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
	ErrOrganizationExists = errors.New("organization with this domain already exists")
	ErrOrganizationInUse  = errors.New("organization is referenced by existing items")
)

type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

type CreateOrganizationRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=255"`
	Domain string `json:"domain" validate:"required,fqdn"`
}

type UpdateOrganizationRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Verified *bool  `json:"verified,omitempty"`
}

func (s *OrganizationService) ListOrganizations(params utils.PaginationParams) ([]models.Organization, int64, error) {
	query := s.db.Model(&models.Organization{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	allowedSortFields := []string{"created_at", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orgs []models.Organization
	if err := query.Find(&orgs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch organizations: %w", err)
	}
	return orgs, total, nil
}

func (s *OrganizationService) GetOrganization(id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &org, nil
}

func (s *OrganizationService) CreateOrganization(req *CreateOrganizationRequest) (*models.Organization, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Organization
	if err := s.db.Where("domain = ?", req.Domain).First(&existing).Error; err == nil {
		return nil, ErrOrganizationExists
	}

	org := &models.Organization{
		Name:   req.Name,
		Domain: req.Domain,
	}
	if err := s.db.Create(org).Error; err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

func (s *OrganizationService) UpdateOrganization(id uuid.UUID, req *UpdateOrganizationRequest) (*models.Organization, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	org, err := s.GetOrganization(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Verified != nil {
		updates["verified"] = *req.Verified
	}

	if len(updates) > 0 {
		if err := s.db.Model(org).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update organization: %w", err)
		}
	}

	return s.GetOrganization(id)
}

func (s *OrganizationService) DeleteOrganization(id uuid.UUID) error {
	org, err := s.GetOrganization(id)
	if err != nil {
		return err
	}

	var itemCount int64
	if err := s.db.Model(&models.Item{}).Where("organization_id = ?", id).Count(&itemCount).Error; err != nil {
		return fmt.Errorf("failed to check organization references: %w", err)
	}
	if itemCount > 0 {
		return ErrOrganizationInUse
	}

	if err := s.db.Delete(org).Error; err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}
