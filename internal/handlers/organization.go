// internal/handlers/organization.go
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

type OrganizationHandler struct {
	organizationService *services.OrganizationService
}

func NewOrganizationHandler(organizationService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizationService: organizationService}
}

// GET /organizations
func (h *OrganizationHandler) GetOrganizations(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orgs, total, err := h.organizationService.ListOrganizations(params)
	if err != nil {
		logrus.WithError(err).Error("failed to list organizations")
		utils.InternalErrorResponse(c)
		return
	}

	page := utils.NewPagination(total, params)
	utils.SetPaginationHeaders(c, page)
	utils.SuccessResponse(c, gin.H{
		"organizations": orgs,
		"pagination":    page,
	})
}

// GET /organizations/:id
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	org, err := h.organizationService.GetOrganization(id)
	if err != nil {
		h.respondOrganizationError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"organization": org})
}

// POST /admin/organizations
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	org, err := h.organizationService.CreateOrganization(&req)
	if err != nil {
		h.respondOrganizationError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyOrganizationCreated),
		"organization": org,
	})
}

// PUT /admin/organizations/:id
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	var req services.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	org, err := h.organizationService.UpdateOrganization(id, &req)
	if err != nil {
		h.respondOrganizationError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyOrganizationUpdated),
		"organization": org,
	})
}

// DELETE /admin/organizations/:id
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	if err := h.organizationService.DeleteOrganization(id); err != nil {
		h.respondOrganizationError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

func (h *OrganizationHandler) respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound):
		utils.NotFoundResponse(c, i18n.KeyOrganizationNotFound)
	case errors.Is(err, services.ErrOrganizationExists):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrOrganizationInUse):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		logrus.WithError(err).Error("organization operation failed")
		utils.InternalErrorResponse(c)
	}
}
