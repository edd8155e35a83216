// internal/handlers/admin.go
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/i18n"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/models"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/services"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		logrus.WithError(err).Error("failed to build dashboard stats")
		utils.InternalErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if role := c.Query("role"); role != "" {
		userRole := models.UserRole(role)
		filter.Role = &userRole
	}
	if status := c.Query("status"); status != "" {
		userStatus := models.UserStatus(status)
		filter.Status = &userStatus
	}
	if after := c.Query("created_after"); after != "" {
		if t, err := time.Parse(time.RFC3339, after); err == nil {
			filter.CreatedAfter = &t
		}
	}
	if before := c.Query("created_before"); before != "" {
		if t, err := time.Parse(time.RFC3339, before); err == nil {
			filter.CreatedBefore = &t
		}
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		utils.InternalErrorResponse(c)
		return
	}

	page := utils.NewPagination(total, filter.PaginationParams)
	utils.SetPaginationHeaders(c, page)
	utils.SuccessResponse(c, gin.H{
		"users":      users,
		"pagination": page,
	})
}

// PATCH /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "id", Message: "id must be a valid id"}})
		return
	}

	var req struct {
		Status models.UserStatus `json:"status" validate:"required"`
		Reason string            `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if req.Status != models.UserStatusActive && req.Status != models.UserStatusSuspended {
		utils.BadRequestResponse(c, "", []utils.ValidationError{{Field: "status", Message: "status must be one of active, suspended"}})
		return
	}

	if err := h.adminService.UpdateUserStatus(userID, req.Status, adminID, req.Reason); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, i18n.KeyUserNotFound)
		case errors.Is(err, services.ErrCannotModifyAdmin):
			utils.ForbiddenResponse(c, err.Error())
		default:
			logrus.WithError(err).Error("failed to update user status")
			utils.InternalErrorResponse(c)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyUserStatusUpdated)})
}

// GET /admin/items
func (h *AdminHandler) GetItems(c *gin.Context) {
	filter := services.AdminItemFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if creatorIDStr := c.Query("creator_id"); creatorIDStr != "" {
		if creatorID, err := uuid.Parse(creatorIDStr); err == nil {
			filter.CreatorID = &creatorID
		}
	}
	if status := c.Query("status"); status != "" {
		itemStatus := models.ItemStatus(status)
		filter.Status = &itemStatus
	}
	if located := c.Query("has_location"); located != "" {
		hasLocation := located == "true"
		filter.HasLocated = &hasLocation
	}

	items, total, err := h.adminService.GetItems(filter)
	if err != nil {
		logrus.WithError(err).Error("failed to list items")
		utils.InternalErrorResponse(c)
		return
	}

	page := utils.NewPagination(total, filter.PaginationParams)
	utils.SetPaginationHeaders(c, page)
	utils.SuccessResponse(c, gin.H{
		"items":      items,
		"pagination": page,
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.adminService.GetAuditLogs(params)
	if err != nil {
		logrus.WithError(err).Error("failed to list audit logs")
		utils.InternalErrorResponse(c)
		return
	}

	page := utils.NewPagination(total, params)
	utils.SetPaginationHeaders(c, page)
	utils.SuccessResponse(c, gin.H{
		"logs":       logs,
		"pagination": page,
	})
}
