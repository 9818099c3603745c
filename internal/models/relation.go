package models

import "time"

// RelationKind selects which subject/object link a Relation row represents
type RelationKind string

const (
	RelationBookmark RelationKind = "bookmark" // user -> dish
	RelationBasket   RelationKind = "basket"   // user -> dish
	RelationFollow   RelationKind = "follow"   // user -> user
)

// Valid reports whether k is one of the known relation kinds
func (k RelationKind) Valid() bool {
	switch k {
	case RelationBookmark, RelationBasket, RelationFollow:
		return true
	}
	return false
}

// TargetsDish reports whether the object of k is a dish rather than a user
func (k RelationKind) TargetsDish() bool {
	return k == RelationBookmark || k == RelationBasket
}

// Relation is a uniqueness-constrained link between a subject user and an
// object (a dish or another user), parameterized by kind.
type Relation struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Kind      RelationKind `json:"kind" gorm:"size:16;not null;uniqueIndex:idx_relation_pair;index:idx_relation_object,priority:1"`
	SubjectID uint         `json:"subject_id" gorm:"not null;uniqueIndex:idx_relation_pair"`
	ObjectID  uint         `json:"object_id" gorm:"not null;uniqueIndex:idx_relation_pair;index:idx_relation_object,priority:2"`
	CreatedAt time.Time    `json:"created_at"`
}

// ShoppingItem is one aggregated line of a shopping list
type ShoppingItem struct {
	Title         string `json:"title"`
	Unit          string `json:"unit"`
	TotalQuantity int    `json:"total_quantity"`
}

// Subscription is a followed author together with a slice of their dishes
type Subscription struct {
	UserCompact
	Dishes      []DishShort `json:"dishes"`
	TotalDishes int64       `json:"total_dishes"`
}
