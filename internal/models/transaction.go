// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction records a checkout of a SALE item.
type Transaction struct {
	BaseModel
	ItemID          uuid.UUID      `json:"item_id" gorm:"type:uuid;not null;index"`
	BuyerID         uuid.UUID      `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	Amount          float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency        string         `json:"currency" gorm:"size:3;default:'brl'"`
	PaymentIntentID string         `json:"payment_intent_id" gorm:"size:255;index"`
	Status          CheckoutStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProcessedAt     *time.Time     `json:"processed_at"`

	// Relationships
	Item   Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Buyer  User `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
