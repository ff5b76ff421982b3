package models

import "time"

// OTP is a one-time login code for a phone number. The code itself is stored
// bcrypt-hashed; a code is single use and expires after a few minutes.
type OTP struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Phone     string    `json:"phone" gorm:"index;size:20" bson:"phone"`
	CodeHash  string    `json:"-" gorm:"size:100" bson:"code_hash"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	IsUsed    bool      `json:"is_used" gorm:"default:false" bson:"is_used"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// SendOTPRequest defines the request body for requesting a login code.
type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

// VerifyOTPRegisterRequest defines the request body for completing registration.
type VerifyOTPRegisterRequest struct {
	Phone       string `json:"phone" validate:"required,e164"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	FirstName   string `json:"first_name" validate:"required,min=1,max=50"`
	LastName    string `json:"last_name" validate:"required,min=1,max=50"`
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	AccountType string `json:"account_type" validate:"required,oneof=student farmer enthusiast professor_scientist"`
}

// VerifyLoginOTPRequest defines the request body for completing a login.
type VerifyLoginOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// FirebaseLoginRequest defines the request body for Firebase ID token login.
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}
