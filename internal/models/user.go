package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	FirstName   string    `json:"first_name" gorm:"size:150"`
	LastName    string    `json:"last_name" gorm:"size:150"`
	Avatar      string    `json:"avatar,omitempty"`                          // Blob key of the avatar, empty when unset
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	CreatedAt   time.Time `json:"created_at"`
}

// UserCompact is the public view of a user embedded in other payloads
type UserCompact struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Avatar       string `json:"avatar,omitempty"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// ToCompact converts a user to its public view. isSubscribed is whether the
// requesting user follows u.
func (u *User) ToCompact(isSubscribed bool) UserCompact {
	return UserCompact{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.Avatar,
		IsSubscribed: isSubscribed,
	}
}

// AvatarUploadRequest carries an inline data URI or an already stored blob key
type AvatarUploadRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
