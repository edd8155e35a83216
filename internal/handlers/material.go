// internal/handlers/material.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/i18n"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/services"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

type MaterialHandler struct {
	materialService *services.MaterialService
}

func NewMaterialHandler(materialService *services.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// GET /materials
func (h *MaterialHandler) GetMaterials(c *gin.Context) {
	includeInactive := isAdminRequest(c) && c.Query("include_inactive") == "true"

	materials, err := h.materialService.ListMaterials(includeInactive)
	if err != nil {
		logrus.WithError(err).Error("failed to list materials")
		utils.InternalErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, gin.H{"materials": materials})
}

// GET /materials/categories
func (h *MaterialHandler) GetCategories(c *gin.Context) {
	categories, err := h.materialService.ListCategories()
	if err != nil {
		logrus.WithError(err).Error("failed to list categories")
		utils.InternalErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, gin.H{"categories": categories})
}

// POST /admin/materials
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	material, err := h.materialService.CreateMaterial(&req)
	if err != nil {
		h.respondMaterialError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyMaterialCreated),
		"material": material,
	})
}

// PUT /admin/materials/:id
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	var req services.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	material, err := h.materialService.UpdateMaterial(id, &req)
	if err != nil {
		h.respondMaterialError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyMaterialUpdated),
		"material": material,
	})
}

// DELETE /admin/materials/:id
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	if err := h.materialService.DeleteMaterial(id); err != nil {
		h.respondMaterialError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /admin/materials/categories
func (h *MaterialHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	category, err := h.materialService.CreateCategory(&req)
	if err != nil {
		logrus.WithError(err).Error("failed to create category")
		utils.InternalErrorResponse(c)
		return
	}

	utils.CreatedResponse(c, gin.H{"category": category})
}

func (h *MaterialHandler) respondMaterialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMaterialNotFound):
		utils.NotFoundResponse(c, i18n.KeyMaterialNotFound)
	case errors.Is(err, services.ErrCategoryNotFound):
		utils.NotFoundResponse(c, i18n.KeyMaterialNotFound)
	case errors.Is(err, services.ErrMaterialExists):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrMaterialInUse):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		logrus.WithError(err).Error("material operation failed")
		utils.InternalErrorResponse(c)
	}
}
