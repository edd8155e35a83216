// internal/models/material.go
package models

import (
	"github.com/google/uuid"
)

type Material struct {
	BaseModel
	Name       string     `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CategoryID *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`
	IsActive   bool       `json:"is_active" gorm:"default:true;index"`

	// Relationships
	Category *MaterialCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Items    []Item            `json:"items,omitempty" gorm:"foreignKey:MaterialID"`
}

type MaterialCategory struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`

	// Relationships
	Materials []Material `json:"materials,omitempty" gorm:"foreignKey:CategoryID"`
}
