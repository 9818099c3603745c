package models

import "time"

// Product is a measurable ingredient shared by many dishes
type Product struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"size:100;index"`
	Unit  string `json:"unit" gorm:"size:10"`
}

// Dish is a published recipe owned by its creator
type Dish struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	CreatorID   uint        `json:"creator_id" gorm:"index;not null"`
	Title       string      `json:"title" gorm:"size:256;not null"`
	Picture     string      `json:"picture"` // Blob key of the picture
	Description string      `json:"description" gorm:"type:text"`
	Duration    int         `json:"duration" gorm:"check:duration >= 1"` // Cooking time in minutes
	CreatedAt   time.Time   `json:"created_at" gorm:"index"`
	Components  []Component `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

// Component is a quantified ingredient line within a dish
type Component struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	DishID    uint    `json:"dish_id" gorm:"index;uniqueIndex:idx_dish_product"`
	ProductID uint    `json:"product_id" gorm:"uniqueIndex:idx_dish_product"`
	Product   Product `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Quantity  int     `json:"quantity" gorm:"check:quantity >= 1"`
}

// ComponentLine is a component resolved against its product
type ComponentLine struct {
	DishID    uint   `json:"-"`
	ProductID uint   `json:"id"`
	Title     string `json:"title"`
	Unit      string `json:"unit"`
	Quantity  int    `json:"quantity"`
}

// ComponentRequest is one ingredient line of a dish creation request
type ComponentRequest struct {
	ProductID uint `json:"id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// CreateDishRequest defines the request body for publishing a dish
type CreateDishRequest struct {
	Title       string             `json:"title" validate:"required,min=1,max=256"`
	Picture     string             `json:"picture" validate:"required"`
	Description string             `json:"description" validate:"required"`
	Duration    int                `json:"duration" validate:"required,min=1"`
	Ingredients []ComponentRequest `json:"ingredients" validate:"required,min=1,dive"`
}

// DishShort is the compact dish view returned by relation endpoints
type DishShort struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Picture  string `json:"picture"`
	Duration int    `json:"duration"`
}

// DishView is the full dish representation for a particular viewer
type DishView struct {
	ID          uint            `json:"id"`
	Creator     UserCompact     `json:"creator"`
	Title       string          `json:"title"`
	Picture     string          `json:"picture"`
	Description string          `json:"description"`
	Duration    int             `json:"duration"`
	Ingredients []ComponentLine `json:"ingredients"`
	IsBookmark  bool            `json:"is_bookmarked"`
	IsInBasket  bool            `json:"is_in_basket"`
	CreatedAt   time.Time       `json:"created_at"`
}
