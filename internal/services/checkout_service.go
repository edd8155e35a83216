// internal/services/checkout_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/config"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/database"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/models"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

var (
	ErrItemNotForSale      = errors.New("item is not for sale")
	ErrItemNotAvailable    = errors.New("item is not available for purchase")
	ErrOwnCheckout         = errors.New("cannot buy your own item")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// CheckoutService runs the purchase flow for SALE listings: a Stripe
// payment intent first, then on confirmation the listing flips to SOLD
// and leaves the proximity paths.
type CheckoutService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewCheckoutService(db *gorm.DB, cfg *config.Config) *CheckoutService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &CheckoutService{
		db:  db,
		cfg: cfg,
	}
}

type CreateCheckoutRequest struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
}

type CheckoutResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	ClientSecret  string    `json:"client_secret"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
}

type ConfirmCheckoutRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" validate:"required"`
}

// CreateCheckout reserves nothing: it only records the pending
// transaction and opens the payment intent. The listing stays ACTIVE
// until the payment is confirmed.
func (s *CheckoutService) CreateCheckout(buyerID uuid.UUID, req *CreateCheckoutRequest) (*CheckoutResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var item models.Item
	if err := s.db.Preload("Creator").First(&item, "id = ?", req.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if item.TransactionKind != models.TransactionKindSale || item.Price == nil {
		return nil, ErrItemNotForSale
	}
	if item.Status != models.ItemStatusActive {
		return nil, ErrItemNotAvailable
	}
	if item.CreatorID == buyerID {
		return nil, ErrOwnCheckout
	}

	currency := s.cfg.Payment.Currency
	if currency == "" {
		currency = "brl"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(*item.Price * 100)),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("item_id", item.ID.String())
	params.AddMetadata("buyer_id", buyerID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	transaction := &models.Transaction{
		ItemID:          item.ID,
		BuyerID:         buyerID,
		SellerID:        item.CreatorID,
		Amount:          *item.Price,
		Currency:        currency,
		PaymentIntentID: pi.ID,
		Status:          models.CheckoutStatusPending,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &CheckoutResponse{
		TransactionID: transaction.ID,
		ClientSecret:  pi.ClientSecret,
		Amount:        transaction.Amount,
		Currency:      currency,
		Status:        string(pi.Status),
	}, nil
}

// ConfirmCheckout checks the payment intent with Stripe and, on
// success, marks the transaction completed and the item SOLD in one
// database transaction.
func (s *CheckoutService) ConfirmCheckout(buyerID uuid.UUID, req *ConfirmCheckoutRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var transaction models.Transaction
	if err := s.db.First(&transaction, "id = ?", req.TransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if transaction.BuyerID != buyerID {
		return nil, ErrTransactionNotFound
	}
	if transaction.Status == models.CheckoutStatusCompleted {
		return &transaction, nil
	}

	pi, err := paymentintent.Get(transaction.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
			now := time.Now()
			if err := tx.Model(&transaction).Updates(map[string]interface{}{
				"status":       models.CheckoutStatusCompleted,
				"processed_at": now,
			}).Error; err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}
			transaction.Status = models.CheckoutStatusCompleted
			transaction.ProcessedAt = &now

			if err := tx.Model(&models.Item{}).Where("id = ?", transaction.ItemID).
				Update("status", models.ItemStatusSold).Error; err != nil {
				return fmt.Errorf("failed to mark item sold: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod, stripe.PaymentIntentStatusProcessing:
		// Still in flight, leave the transaction pending.

	default:
		if err := s.db.Model(&transaction).Update("status", models.CheckoutStatusFailed).Error; err != nil {
			return nil, fmt.Errorf("failed to update transaction: %w", err)
		}
		transaction.Status = models.CheckoutStatusFailed
	}

	s.db.Preload("Item").Preload("Buyer").Preload("Seller").First(&transaction, "id = ?", transaction.ID)
	return &transaction, nil
}

func (s *CheckoutService) GetUserTransactions(userID uuid.UUID, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Preload("Item")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}
