package models

import (
	"time"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name        string  `gorm:"not null"                            json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                            json:"price"`
	Image       string  `json:"image"`
	Stock       int     `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
}

// Order is a single line item reserving stock of exactly one product.
// The display fields are a snapshot of the product taken when the order
// was created and are not re-synced when the product changes.
type Order struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"              json:"id"`
	ProductID   uint      `gorm:"uniqueIndex;not null"                  json:"product_id"`
	Name        string    `gorm:"not null"                              json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                              json:"price"`
	Image       string    `json:"image"`
	Quantity    int       `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
