// internal/handlers/checkout.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/i18n"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/services"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

type CheckoutHandler struct {
	checkoutService *services.CheckoutService
}

func NewCheckoutHandler(checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// POST /checkout
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	checkout, err := h.checkoutService.CreateCheckout(buyerID, &req)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCheckoutCreated),
		"checkout": checkout,
	})
}

// POST /checkout/confirm
func (h *CheckoutHandler) ConfirmCheckout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.ConfirmCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	transaction, err := h.checkoutService.ConfirmCheckout(buyerID, &req)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyCheckoutConfirmed),
		"transaction": transaction,
	})
}

// GET /checkout/history
func (h *CheckoutHandler) GetTransactionHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	transactions, total, err := h.checkoutService.GetUserTransactions(userID, params)
	if err != nil {
		logrus.WithError(err).Error("failed to list transactions")
		utils.InternalErrorResponse(c)
		return
	}

	page := utils.NewPagination(total, params)
	utils.SetPaginationHeaders(c, page)
	utils.SuccessResponse(c, gin.H{
		"transactions": transactions,
		"pagination":   page,
	})
}

func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		utils.NotFoundResponse(c, i18n.KeyItemNotFound)
	case errors.Is(err, services.ErrTransactionNotFound):
		utils.NotFoundResponse(c, i18n.KeyCheckoutNotFound)
	case errors.Is(err, services.ErrItemNotForSale),
		errors.Is(err, services.ErrItemNotAvailable),
		errors.Is(err, services.ErrOwnCheckout):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		logrus.WithError(err).Error("checkout failed")
		utils.InternalErrorResponse(c)
	}
}
