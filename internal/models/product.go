package models

import (
	"time"

	"gorm.io/gorm"
)

// Garment sizes accepted on a product.
var ValidSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "Free Size"}

// Product conditions.
const (
	ConditionExcellent = "Excellent"
	ConditionVeryGood  = "Very Good"
	ConditionGood      = "Good"
	ConditionFair      = "Fair"
)

// ProductSize tracks availability of one garment size for a product.
// Sizes are owned by the product and have no independent lifecycle.
type ProductSize struct {
	ID          uint   `json:"-" gorm:"primaryKey"`
	ProductID   string `json:"-" gorm:"index;type:varchar(36)"`
	Size        string `json:"size" gorm:"type:varchar(16)"`
	IsAvailable bool   `json:"isAvailable" gorm:"default:true"`
	Quantity    int    `json:"quantity" gorm:"default:0"`
}

// Product is a rentable garment listing.
//
// The legacy single CategoryID coexists with the Categories set for
// older clients and cheap single-field queries; it always mirrors the
// first element of Categories (see BeforeSave).
type Product struct {
	ID               string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name             string            `json:"name" gorm:"type:varchar(100)"`
	Description      string            `json:"description" gorm:"type:text"`
	CategoryID       string            `json:"category" gorm:"index;type:varchar(36)"`
	Categories       []Category        `json:"categories" gorm:"many2many:product_categories"`
	Images           []string          `json:"images" gorm:"serializer:json;type:text"`
	Price            float64           `json:"price"`
	OriginalPrice    float64           `json:"originalPrice"`
	Sizes            []ProductSize     `json:"sizes" gorm:"constraint:OnDelete:CASCADE"`
	Color            string            `json:"color" gorm:"type:varchar(50)"`
	Brand            string            `json:"brand" gorm:"type:varchar(100)"`
	Material         string            `json:"material" gorm:"type:varchar(100)"`
	Condition        string            `json:"condition" gorm:"type:varchar(16);default:Good"`
	RentalDuration   int               `json:"rentalDuration" gorm:"default:1"`
	IsAvailable      bool              `json:"isAvailable" gorm:"default:true"`
	IsFeatured       bool              `json:"isFeatured" gorm:"default:false"`
	Tags             []string          `json:"tags" gorm:"serializer:json;type:text"`
	Specifications   map[string]string `json:"specifications" gorm:"serializer:json;type:text"`
	CareInstructions string            `json:"careInstructions" gorm:"type:text"`
	Slug             string            `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Views            int64             `json:"views" gorm:"default:0"`
	Rating           float64           `json:"rating" gorm:"default:0"`
	NumReviews       int               `json:"numReviews" gorm:"default:0"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt    `json:"-" gorm:"index"`
}

// BeforeSave keeps the legacy single-category field pointing at the
// first member of the category set. Runs on every save so direct
// mutations of Categories stay consistent.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.SyncPrimaryCategory()
	return nil
}

// SyncPrimaryCategory applies the category = categories[0] rule.
func (p *Product) SyncPrimaryCategory() {
	if len(p.Categories) > 0 {
		p.CategoryID = p.Categories[0].ID
	}
}

// IsValidSize reports whether s is one of the accepted garment sizes.
func IsValidSize(s string) bool {
	for _, v := range ValidSizes {
		if v == s {
			return true
		}
	}
	return false
}
