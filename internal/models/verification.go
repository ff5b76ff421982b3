package models

import "time"

// VerificationStatus enumerates the lifecycle of a verification request.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// VerificationRequest is a user's application for a verified badge. At most
// one pending request may exist per user; professor/scientist requests are
// only valid within 7 days of account creation.
type VerificationRequest struct {
	ID               string             `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID           string             `json:"user_id" gorm:"index;size:36" bson:"user_id"`
	VerificationType AccountType        `json:"verification_type" gorm:"size:30" bson:"verification_type"`
	InstituteName    string             `json:"institute_name,omitempty" gorm:"size:200" bson:"institute_name,omitempty"`
	ProofOfWorkURL   string             `json:"proof_of_work_url,omitempty" bson:"proof_of_work_url,omitempty"`
	SelfieURL        string             `json:"selfie_url,omitempty" bson:"selfie_url,omitempty"`
	Status           VerificationStatus `json:"status" gorm:"size:20;index;default:'pending'" bson:"status"`
	AdminNotes       string             `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`
	ReviewedBy       string             `json:"reviewed_by,omitempty" gorm:"size:36" bson:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time         `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	SubmittedAt      time.Time          `json:"submitted_at" gorm:"index" bson:"submitted_at"`
}

// SubmitVerificationRequest defines the request body for applying for verification.
type SubmitVerificationRequest struct {
	VerificationType string `json:"verification_type" validate:"required,oneof=student professor_scientist"`
	InstituteName    string `json:"institute_name,omitempty" validate:"omitempty,max=200"`
	ProofOfWorkURL   string `json:"proof_of_work_url,omitempty" validate:"omitempty,url"`
	SelfieURL        string `json:"selfie_url,omitempty" validate:"omitempty,url"`
}

// ReviewVerificationRequest defines the request body for the admin review action.
type ReviewVerificationRequest struct {
	Status     string `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes string `json:"admin_notes,omitempty" validate:"omitempty,max=1000"`
}

// VerificationStatusResponse summarizes a user's verification standing.
type VerificationStatusResponse struct {
	IsVerified       bool                 `json:"is_verified"`
	VerificationType string               `json:"verification_type,omitempty"`
	AccountType      AccountType          `json:"account_type"`
	LatestRequest    *VerificationRequest `json:"latest_verification_request,omitempty"`
	CanApply         bool                 `json:"can_apply_for_verification"`
	Deadline         *time.Time           `json:"verification_deadline,omitempty"`
}
