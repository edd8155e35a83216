// internal/services/item_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/config"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/models"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

var (
	ErrItemNotFound         = errors.New("item not found")
	ErrItemForbidden        = errors.New("not allowed to modify this item")
	ErrItemHasSales         = errors.New("cannot delete item with completed transactions")
	ErrPriceRequired        = errors.New("price is required for sale items")
	ErrPriceNotAllowed      = errors.New("price is only allowed for sale items")
	ErrMaterialNotFound     = errors.New("material not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrImageNotFound        = errors.New("image not found")
)

type ItemService struct {
	db     *gorm.DB
	geoCfg config.GeoConfig
}

func NewItemService(db *gorm.DB, geoCfg config.GeoConfig) *ItemService {
	return &ItemService{
		db:     db,
		geoCfg: geoCfg,
	}
}

func (s *ItemService) queryTimeout() time.Duration {
	return time.Duration(s.geoCfg.QueryTimeoutSec) * time.Second
}

type ItemLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude_range"`
	Longitude float64 `json:"longitude" validate:"longitude_range"`
}

type CreateItemRequest struct {
	Title           string                 `json:"title" validate:"required,min=3,max=255"`
	Description     string                 `json:"description" validate:"required,min=10"`
	TransactionKind models.TransactionKind `json:"transaction_kind" validate:"required"`
	Price           *float64               `json:"price,omitempty" validate:"omitempty,gte=0"`
	Quantity        int                    `json:"quantity" validate:"omitempty,min=1"`
	MaterialID      *uuid.UUID             `json:"material_id,omitempty"`
	OrganizationID  *uuid.UUID             `json:"organization_id,omitempty"`
	Tags            []string               `json:"tags,omitempty"`
	Location        *ItemLocationRequest   `json:"location,omitempty"`
}

type UpdateItemRequest struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description string     `json:"description,omitempty" validate:"omitempty,min=10"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,gte=0"`
	Quantity    *int       `json:"quantity,omitempty" validate:"omitempty,min=1"`
	MaterialID  *uuid.UUID `json:"material_id,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// CreateItem writes the listing in two phases: the row itself first,
// then the coordinates when the request carries them. A listing only
// becomes proximity-eligible once phase two completes.
func (s *ItemService) CreateItem(creatorID uuid.UUID, req *CreateItemRequest) (*models.Item, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.TransactionKind.Valid() {
		return nil, errors.New("transaction kind must be one of SALE, DONATION, COLLECTION")
	}

	if err := validatePriceForKind(req.TransactionKind, req.Price); err != nil {
		return nil, err
	}

	if req.MaterialID != nil {
		var material models.Material
		if err := s.db.First(&material, "id = ?", *req.MaterialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMaterialNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	if req.OrganizationID != nil {
		var org models.Organization
		if err := s.db.First(&org, "id = ?", *req.OrganizationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrganizationNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item := &models.Item{
		CreatorID:       creatorID,
		MaterialID:      req.MaterialID,
		OrganizationID:  req.OrganizationID,
		Title:           req.Title,
		Description:     req.Description,
		Status:          models.ItemStatusActive,
		TransactionKind: req.TransactionKind,
		Price:           req.Price,
		Quantity:        quantity,
		Tags:            pq.StringArray(req.Tags),
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if req.Location != nil {
		if err := s.attachLocation(item, req.Location); err != nil {
			return nil, err
		}
	}

	s.db.Preload("Creator").Preload("Material").Preload("Material.Category").
		Preload("Organization").Preload("Images").First(item, "id = ?", item.ID)

	return item, nil
}

// SetItemLocation is the second write phase: it attaches or moves the
// listing's coordinates.
func (s *ItemService) SetItemLocation(id, userID uuid.UUID, req *ItemLocationRequest) (*models.Item, error) {
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		return nil, fmt.Errorf("validation failed: %s", validationErrors[0].Message)
	}

	item, err := s.ownedItem(id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.attachLocation(item, req); err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveItemLocation clears the coordinates, taking the listing off
// the map without touching its status.
func (s *ItemService) RemoveItemLocation(id, userID uuid.UUID) (*models.Item, error) {
	item, err := s.ownedItem(id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(item).Updates(map[string]interface{}{
		"latitude":  nil,
		"longitude": nil,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear item location: %w", err)
	}

	item.Latitude = nil
	item.Longitude = nil
	return item, nil
}

func (s *ItemService) attachLocation(item *models.Item, loc *ItemLocationRequest) error {
	if err := s.db.Model(item).Updates(map[string]interface{}{
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
	}).Error; err != nil {
		return fmt.Errorf("failed to set item location: %w", err)
	}

	item.Latitude = &loc.Latitude
	item.Longitude = &loc.Longitude
	return nil
}

func (s *ItemService) GetItem(id uuid.UUID, userID *uuid.UUID, isAdmin bool) (*models.Item, error) {
	var item models.Item
	err := s.db.Preload("Creator").Preload("Material").Preload("Material.Category").
		Preload("Organization").Preload("Images").
		First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Non-active listings are visible only to their creator and admins.
	if item.Status != models.ItemStatusActive && !isAdmin {
		if userID == nil || *userID != item.CreatorID {
			return nil, ErrItemNotFound
		}
	}

	return &item, nil
}

func (s *ItemService) UpdateItem(id, userID uuid.UUID, req *UpdateItemRequest) (*models.Item, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	item, err := s.ownedItem(id, userID)
	if err != nil {
		return nil, err
	}

	if req.Price != nil {
		if err := validatePriceForKind(item.TransactionKind, req.Price); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.MaterialID != nil {
		var material models.Material
		if err := s.db.First(&material, "id = ?", *req.MaterialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMaterialNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		updates["material_id"] = *req.MaterialID
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}

	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update item: %w", err)
		}
	}

	s.db.Preload("Creator").Preload("Material").Preload("Material.Category").
		Preload("Organization").Preload("Images").First(item, "id = ?", id)

	return item, nil
}

// UpdateItemStatus moves a listing between lifecycle states. Any state
// may follow any other; INACTIVE, SOLD, DONATED and COLLECTED all take
// the listing off the proximity paths.
func (s *ItemService) UpdateItemStatus(id, userID uuid.UUID, status models.ItemStatus, isAdmin bool) (*models.Item, error) {
	if !status.Valid() {
		return nil, errors.New("status must be one of ACTIVE, INACTIVE, SOLD, DONATED, COLLECTED")
	}

	var item models.Item
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if item.CreatorID != userID && !isAdmin {
		return nil, ErrItemForbidden
	}

	if err := s.db.Model(&item).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update item status: %w", err)
	}

	item.Status = status
	return &item, nil
}

func (s *ItemService) DeleteItem(id, userID uuid.UUID, isAdmin bool) error {
	var item models.Item
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if item.CreatorID != userID && !isAdmin {
		return ErrItemForbidden
	}

	var salesCount int64
	if err := s.db.Model(&models.Transaction{}).
		Where("item_id = ? AND status = ?", id, models.CheckoutStatusCompleted).
		Count(&salesCount).Error; err != nil {
		return fmt.Errorf("failed to check transactions: %w", err)
	}

	if salesCount > 0 {
		return ErrItemHasSales
	}

	// Soft delete
	if err := s.db.Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

func (s *ItemService) GetUserItems(creatorID uuid.UUID, params utils.PaginationParams) ([]models.Item, int64, error) {
	query := s.db.Model(&models.Item{}).Where("creator_id = ?", creatorID).
		Preload("Material").Preload("Material.Category").Preload("Organization").Preload("Images")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count user items: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "status", "price"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var items []models.Item
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch user items: %w", err)
	}

	return items, total, nil
}

type AttachImageRequest struct {
	URL       string `json:"url,omitempty"`
	Data      string `json:"data,omitempty"`
	AltText   string `json:"alt_text,omitempty" validate:"omitempty,max=255"`
	IsPrimary bool   `json:"is_primary"`
}

// AttachImage links an uploaded image to a listing. Marking an image
// primary demotes any previous primary in the same transaction.
func (s *ItemService) AttachImage(itemID, userID uuid.UUID, req *AttachImageRequest) (*models.Image, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.URL == "" && req.Data == "" {
		return nil, errors.New("image url or data is required")
	}

	if _, err := s.ownedItem(itemID, userID); err != nil {
		return nil, err
	}

	image := &models.Image{
		ItemID:    itemID,
		URL:       req.URL,
		Data:      req.Data,
		AltText:   req.AltText,
		IsPrimary: req.IsPrimary,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsPrimary {
			if err := tx.Model(&models.Image{}).
				Where("item_id = ? AND is_primary = ?", itemID, true).
				Update("is_primary", false).Error; err != nil {
				return fmt.Errorf("failed to demote primary image: %w", err)
			}
		}
		if err := tx.Create(image).Error; err != nil {
			return fmt.Errorf("failed to create image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return image, nil
}

func (s *ItemService) SetPrimaryImage(itemID, imageID, userID uuid.UUID) error {
	if _, err := s.ownedItem(itemID, userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var image models.Image
		if err := tx.First(&image, "id = ? AND item_id = ?", imageID, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrImageNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Model(&models.Image{}).
			Where("item_id = ? AND is_primary = ?", itemID, true).
			Update("is_primary", false).Error; err != nil {
			return fmt.Errorf("failed to demote primary image: %w", err)
		}

		if err := tx.Model(&image).Update("is_primary", true).Error; err != nil {
			return fmt.Errorf("failed to promote image: %w", err)
		}
		return nil
	})
}

func (s *ItemService) DeleteImage(itemID, imageID, userID uuid.UUID) error {
	if _, err := s.ownedItem(itemID, userID); err != nil {
		return err
	}

	result := s.db.Where("id = ? AND item_id = ?", imageID, itemID).Delete(&models.Image{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (s *ItemService) ownedItem(id, userID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if item.CreatorID != userID {
		return nil, ErrItemForbidden
	}

	return &item, nil
}

// validatePriceForKind enforces that only sale listings carry a price.
func validatePriceForKind(kind models.TransactionKind, price *float64) error {
	switch kind {
	case models.TransactionKindSale:
		if price == nil {
			return ErrPriceRequired
		}
		if *price < 0 {
			return errors.New("price must not be negative")
		}
	default:
		if price != nil {
			return ErrPriceNotAllowed
		}
	}
	return nil
}
