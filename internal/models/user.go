package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// AccountType enumerates the community roles a user can register as.
type AccountType string

const (
	AccountStudent            AccountType = "student"
	AccountFarmer             AccountType = "farmer"
	AccountEnthusiast         AccountType = "enthusiast"
	AccountProfessorScientist AccountType = "professor_scientist"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountStudent, AccountFarmer, AccountEnthusiast, AccountProfessorScientist:
		return true
	}
	return false
}

// User is an account record. Phone and username are unique across all users;
// the three counters are derived and recomputed by the storage layer.
type User struct {
	ID               string      `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Phone            string      `json:"phone" gorm:"uniqueIndex;size:20" bson:"phone"`
	FirstName        string      `json:"first_name" gorm:"size:50" bson:"first_name"`
	LastName         string      `json:"last_name" gorm:"size:50" bson:"last_name"`
	Username         string      `json:"username" gorm:"uniqueIndex;size:30" bson:"username"`
	Email            string      `json:"email,omitempty" gorm:"size:100" bson:"email,omitempty"`
	Bio              string      `json:"bio,omitempty" bson:"bio,omitempty"`
	Location         string      `json:"location,omitempty" gorm:"size:100" bson:"location,omitempty"`
	Website          string      `json:"website,omitempty" gorm:"size:200" bson:"website,omitempty"`
	AccountType      AccountType `json:"account_type" gorm:"size:30" bson:"account_type"`
	IsVerified       bool        `json:"is_verified" gorm:"default:false" bson:"is_verified"`
	VerificationType string      `json:"verification_type,omitempty" gorm:"size:30" bson:"verification_type,omitempty"`
	FollowersCount   int         `json:"followers_count" gorm:"default:0" bson:"followers_count"`
	FollowingCount   int         `json:"following_count" gorm:"default:0" bson:"following_count"`
	PostsCount       int         `json:"posts_count" gorm:"default:0" bson:"posts_count"`
	CreatedAt        time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the author payload embedded in enriched posts and notifications.
type UserCompact struct {
	ID               string      `json:"id"`
	Username         string      `json:"username"`
	FirstName        string      `json:"first_name"`
	LastName         string      `json:"last_name"`
	AccountType      AccountType `json:"account_type"`
	IsVerified       bool        `json:"is_verified"`
	VerificationType string      `json:"verification_type,omitempty"`
}

// ToCompact strips a user down to the fields the feed needs.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:               u.ID,
		Username:         u.Username,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		AccountType:      u.AccountType,
		IsVerified:       u.IsVerified,
		VerificationType: u.VerificationType,
	}
}

// UpdateProfileRequest defines the request body for editing one's own profile.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location  string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website   string `json:"website,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
