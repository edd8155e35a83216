// internal/models/organization.go
package models

type Organization struct {
	BaseModel
	Name     string `json:"name" gorm:"size:255;not null"`
	Domain   string `json:"domain" gorm:"size:255;uniqueIndex"`
	Verified bool   `json:"verified" gorm:"default:false;index"`

	// Relationships
	Items []Item `json:"items,omitempty" gorm:"foreignKey:OrganizationID"`
}
