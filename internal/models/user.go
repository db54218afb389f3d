package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint     `json:"id" gorm:"primaryKey"`
	Name        string   `json:"name"`
	Username    string   `json:"username" gorm:"uniqueIndex"`
	Email       string   `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password    string   `json:"-"`                        // Store hashed password, ignore for JSON serialization
	Bio         string   `json:"bio"`
	Avatar      string   `json:"avatar"`
	Skills      []string `json:"skills" gorm:"serializer:json"`
	FirebaseUID *string  `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID, NULL for local accounts so the unique index only binds Firebase logins
}

// IDString returns the user's ID in the string form used by the Mongo-side
// collections (conversations, messages, notifications).
func (u *User) IDString() string {
	return strconv.FormatUint(uint64(u.ID), 10)
}

// HasSkill reports whether the user lists the given skill on their profile.
func (u *User) HasSkill(skill string) bool {
	for _, s := range u.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// UserCompact is the participant/actor projection embedded in list responses.
type UserCompact struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// ToCompact converts a User to its compact projection.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken  string `json:"id_token" validate:"required"`
	Name     string `json:"name" validate:"omitempty,min=2,max=50"`
	Username string `json:"username" validate:"omitempty,min=3,max=30,alphanum"`
}

type UpdateUserRequest struct {
	Name     string   `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Username string   `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
	Bio      string   `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar   string   `json:"avatar,omitempty" validate:"omitempty,url"`
	Skills   []string `json:"skills,omitempty" validate:"omitempty,max=30,dive,min=1,max=40"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
