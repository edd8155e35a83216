// internal/handlers/item.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/config"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/i18n"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/models"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/services"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

type ItemHandler struct {
	itemService    *services.ItemService
	storageService *services.StorageService
	geoCfg         config.GeoConfig
}

func NewItemHandler(itemService *services.ItemService, storageService *services.StorageService, geoCfg config.GeoConfig) *ItemHandler {
	return &ItemHandler{
		itemService:    itemService,
		storageService: storageService,
		geoCfg:         geoCfg,
	}
}

// GET /items/map
//
// Map pins around a center point. Invalid coordinates or radius fail
// with field details before any query runs; absent coordinates fall
// back to (0, 0) and still answer 200.
func (h *ItemHandler) GetMapItems(c *gin.Context) {
	params, validationErrors := services.ParseMapQuery(c.Request.URL.Query(), h.geoCfg)
	if len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	items, err := h.itemService.FindNearby(c.Request.Context(), params)
	if err != nil {
		logrus.WithError(err).Error("map query failed")
		utils.InternalErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items":  items,
		"center": params.Center(),
		"radius": params.RadiusKm,
		"total":  len(items),
	})
}

// GET /items
func (h *ItemHandler) GetItems(c *gin.Context) {
	pagination := utils.GetPaginationParams(c)

	params, validationErrors := services.ParseSearchQuery(c.Request.URL.Query(), h.geoCfg, pagination)
	if len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	items, total, err := h.itemService.SearchItems(c.Request.Context(), params)
	if err != nil {
		logrus.WithError(err).Error("item search failed")
		utils.InternalErrorResponse(c)
		return
	}

	page := utils.NewPagination(total, pagination)
	utils.SetPaginationHeaders(c, page)
	utils.SuccessResponse(c, gin.H{
		"items":      items,
		"pagination": page,
	})
}

// GET /items/:id
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	var userID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			userID = &parsed
		}
	}

	item, err := h.itemService.GetItem(id, userID, isAdminRequest(c))
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"item": item})
}

// POST /items
func (h *ItemHandler) CreateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	creatorID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	item, err := h.itemService.CreateItem(creatorID, &req)
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemCreated),
		"item":    item,
	})
}

// PUT /items/:id
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	var req services.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	item, err := h.itemService.UpdateItem(id, userID, &req)
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemUpdated),
		"item":    item,
	})
}

// PATCH /items/:id/status
func (h *ItemHandler) UpdateItemStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	var req struct {
		Status models.ItemStatus `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	item, err := h.itemService.UpdateItemStatus(id, userID, req.Status, isAdminRequest(c))
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemUpdated),
		"item":    item,
	})
}

// PUT /items/:id/location
func (h *ItemHandler) SetItemLocation(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	var req services.ItemLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	item, err := h.itemService.SetItemLocation(id, userID, &req)
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemLocationSet),
		"item":    item,
	})
}

// DELETE /items/:id/location
func (h *ItemHandler) RemoveItemLocation(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	item, err := h.itemService.RemoveItemLocation(id, userID)
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"item": item})
}

// DELETE /items/:id
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	if err := h.itemService.DeleteItem(id, userID, isAdminRequest(c)); err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyItemDeleted)})
}

// GET /items/mine
func (h *ItemHandler) GetMyItems(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	items, total, err := h.itemService.GetUserItems(userID, params)
	if err != nil {
		logrus.WithError(err).Error("failed to list user items")
		utils.InternalErrorResponse(c)
		return
	}

	page := utils.NewPagination(total, params)
	utils.SetPaginationHeaders(c, page)
	utils.SuccessResponse(c, gin.H{
		"items":      items,
		"pagination": page,
	})
}

// POST /items/:id/images
func (h *ItemHandler) UploadItemImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "image", Message: "image file is required"}})
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadItemImage(file, header)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	isPrimary := c.PostForm("is_primary") == "true"
	image, err := h.itemService.AttachImage(id, userID, &services.AttachImageRequest{
		URL:       result.URL,
		AltText:   c.PostForm("alt_text"),
		IsPrimary: isPrimary,
	})
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemImagesUploaded),
		"image":   image,
	})
}

// PATCH /items/:id/images/:imageId/primary
func (h *ItemHandler) SetPrimaryImage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "imageId", Message: "imageId must be a valid id"}})
		return
	}

	if err := h.itemService.SetPrimaryImage(id, imageID, userID); err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"updated": true})
}

// DELETE /items/:id/images/:imageId
func (h *ItemHandler) DeleteItemImage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "imageId", Message: "imageId must be a valid id"}})
		return
	}

	if err := h.itemService.DeleteImage(id, imageID, userID); err != nil {
		h.respondItemError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

func (h *ItemHandler) respondItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		utils.NotFoundResponse(c, i18n.KeyItemNotFound)
	case errors.Is(err, services.ErrImageNotFound):
		utils.NotFoundResponse(c, i18n.KeyItemNotFound)
	case errors.Is(err, services.ErrMaterialNotFound):
		utils.NotFoundResponse(c, i18n.KeyMaterialNotFound)
	case errors.Is(err, services.ErrOrganizationNotFound):
		utils.NotFoundResponse(c, i18n.KeyOrganizationNotFound)
	case errors.Is(err, services.ErrItemForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrItemHasSales),
		errors.Is(err, services.ErrPriceRequired),
		errors.Is(err, services.ErrPriceNotAllowed):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		logrus.WithError(err).Error("item operation failed")
		utils.InternalErrorResponse(c)
	}
}

func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	return userID, true
}

func isAdminRequest(c *gin.Context) bool {
	role, _ := utils.GetUserRoleFromContext(c)
	return role == string(models.UserRoleAdmin)
}
