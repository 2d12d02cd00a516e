package models

import "time"

// Product represents a catalog item. Rows are soft-deleted: IsDeleted
// flips and DeletedAt is set, the row itself stays.
type Product struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Price       int64          `json:"price" gorm:"not null"`
	Quantity    int            `json:"quantity" gorm:"not null"`
	Category    string         `json:"category" gorm:"type:varchar(100);not null"`
	IsDeleted   bool           `json:"-" gorm:"not null;default:false"`
	DeletedAt   *time.Time     `json:"-"`
	Images      []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName returns the database table name for the Product model.
func (Product) TableName() string {
	return "products"
}

// ProductImage records an uploaded image file for a product.
type ProductImage struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	ProductID    int64     `json:"product_id" gorm:"index;not null"`
	Filename     string    `json:"filename" gorm:"not null"`
	OriginalName string    `json:"original_name"`
	Path         string    `json:"path" gorm:"not null"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for the ProductImage model.
func (ProductImage) TableName() string {
	return "product_images"
}
