// internal/models/item.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Item is one offer of recyclable material. Latitude and longitude are
// attached in a second write after creation and stay null until then;
// only ACTIVE items with a non-null location show up on the map.
type Item struct {
	BaseModel
	CreatorID       uuid.UUID       `json:"creator_id" gorm:"type:uuid;not null;index"`
	MaterialID      *uuid.UUID      `json:"material_id" gorm:"type:uuid;index"`
	OrganizationID  *uuid.UUID      `json:"organization_id" gorm:"type:uuid;index"`
	Title           string          `json:"title" gorm:"size:255;not null"`
	Description     string          `json:"description" gorm:"type:text"`
	Status          ItemStatus      `json:"status" gorm:"type:varchar(20);default:'ACTIVE';index"`
	TransactionKind TransactionKind `json:"transaction_kind" gorm:"type:varchar(20);not null"`
	Price           *float64        `json:"price" gorm:"type:decimal(10,2)"`
	Quantity        int             `json:"quantity" gorm:"not null;default:1"`
	Latitude        *float64        `json:"latitude" gorm:"type:decimal(10,7)"`
	Longitude       *float64        `json:"longitude" gorm:"type:decimal(10,7)"`
	Tags            pq.StringArray  `json:"tags" gorm:"type:text[]"`

	// Relationships
	Creator      User          `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Material     *Material     `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Images       []Image       `json:"images,omitempty" gorm:"foreignKey:ItemID"`
}

// HasLocation reports whether both coordinates are set.
func (i *Item) HasLocation() bool {
	return i.Latitude != nil && i.Longitude != nil
}

// Image belongs to exactly one item. URL and Data are mutually
// exclusive in practice; at most one image per item is primary.
type Image struct {
	BaseModel
	ItemID    uuid.UUID `json:"item_id" gorm:"type:uuid;not null;index"`
	URL       string    `json:"url,omitempty" gorm:"size:500"`
	Data      string    `json:"data,omitempty" gorm:"type:text"`
	AltText   string    `json:"alt_text,omitempty" gorm:"size:255"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false;index"`
}
