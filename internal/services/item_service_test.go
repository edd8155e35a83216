// internal/services/item_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/models"
)

func TestValidatePriceForKind(t *testing.T) {
	price := 10.0
	negative := -1.0
	zero := 0.0

	// Sale listings must carry a non-negative price.
	assert.NoError(t, validatePriceForKind(models.TransactionKindSale, &price))
	assert.NoError(t, validatePriceForKind(models.TransactionKindSale, &zero))
	assert.ErrorIs(t, validatePriceForKind(models.TransactionKindSale, nil), ErrPriceRequired)
	assert.Error(t, validatePriceForKind(models.TransactionKindSale, &negative))

	// Donations and collections never carry one.
	assert.NoError(t, validatePriceForKind(models.TransactionKindDonation, nil))
	assert.NoError(t, validatePriceForKind(models.TransactionKindCollection, nil))
	assert.ErrorIs(t, validatePriceForKind(models.TransactionKindDonation, &price), ErrPriceNotAllowed)
	assert.ErrorIs(t, validatePriceForKind(models.TransactionKindCollection, &zero), ErrPriceNotAllowed)
}
