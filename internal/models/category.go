package models

import "time"

// Category is a catalog grouping for rental products.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"uniqueIndex;type:varchar(50)"`
	Description string    `json:"description" gorm:"type:varchar(200)"`
	Image       string    `json:"image" gorm:"type:varchar(512)"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(60)"`
	IsActive    bool      `json:"isActive" gorm:"default:true"`
	SortOrder   int       `json:"sortOrder" gorm:"default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
