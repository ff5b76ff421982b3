package service

import (
	"context"
	"time"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
)

// professorApplyWindow is how long after signup a professor/scientist can
// still apply for verification.
const professorApplyWindow = 7 * 24 * time.Hour

// SubmitVerification files a verification request for the user. A user may
// have at most one pending request; professor/scientist applications must
// arrive within a week of account creation and carry supporting evidence.
func (s *Service) SubmitVerification(ctx context.Context, userID string, req models.SubmitVerificationRequest) (*models.VerificationRequest, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, apperrors.Validation("account is already verified")
	}

	vtype := models.AccountType(req.VerificationType)
	if vtype != models.AccountStudent && vtype != models.AccountProfessorScientist {
		return nil, apperrors.Validation("verification type must be student or professor_scientist")
	}
	if user.AccountType != vtype {
		return nil, apperrors.Forbidden("verification type must match your account type")
	}

	existing, err := s.store.GetVerificationRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.Status == models.VerificationPending {
			return nil, apperrors.Validation("you already have a pending verification request")
		}
	}

	if vtype == models.AccountProfessorScientist {
		deadline := user.CreatedAt.Add(professorApplyWindow)
		if time.Now().After(deadline) {
			return nil, apperrors.Validation("professor/scientist verification must be requested within 7 days of account creation")
		}
		if req.InstituteName == "" || req.ProofOfWorkURL == "" || req.SelfieURL == "" {
			return nil, apperrors.Validation("institute name, proof of work, and selfie are required for professor/scientist verification")
		}
	}

	vr := &models.VerificationRequest{
		UserID:           userID,
		VerificationType: vtype,
		InstituteName:    req.InstituteName,
		ProofOfWorkURL:   req.ProofOfWorkURL,
		SelfieURL:        req.SelfieURL,
		Status:           models.VerificationPending,
	}
	if err := s.store.CreateVerificationRequest(ctx, vr); err != nil {
		return nil, err
	}
	return vr, nil
}

// VerificationStatus summarizes where the user stands in the verification
// workflow, including whether a new application is currently possible.
func (s *Service) VerificationStatus(ctx context.Context, userID string) (*models.VerificationStatusResponse, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests, err := s.store.GetVerificationRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &models.VerificationStatusResponse{
		IsVerified:       user.IsVerified,
		VerificationType: user.VerificationType,
		AccountType:      user.AccountType,
	}

	var pending bool
	if len(requests) > 0 {
		latest := requests[0]
		resp.LatestRequest = &latest
		for _, r := range requests {
			if r.Status == models.VerificationPending {
				pending = true
			}
		}
	}

	switch {
	case user.IsVerified || pending:
		resp.CanApply = false
	case user.AccountType == models.AccountProfessorScientist:
		deadline := user.CreatedAt.Add(professorApplyWindow)
		resp.Deadline = &deadline
		resp.CanApply = time.Now().Before(deadline)
	case user.AccountType == models.AccountStudent:
		resp.CanApply = true
	default:
		resp.CanApply = false
	}
	return resp, nil
}

// GetVerificationRequests lists the user's own verification requests,
// newest first.
func (s *Service) GetVerificationRequests(ctx context.Context, userID string) ([]models.VerificationRequest, error) {
	return s.store.GetVerificationRequests(ctx, userID)
}

// GetPendingVerificationRequests lists all requests awaiting review.
func (s *Service) GetPendingVerificationRequests(ctx context.Context) ([]models.VerificationRequest, error) {
	return s.store.GetPendingVerificationRequests(ctx)
}

// ReviewVerification resolves a pending request. Approval flips the
// applicant's verified flag and records the verification type.
func (s *Service) ReviewVerification(ctx context.Context, reviewerID, requestID string, req models.ReviewVerificationRequest) (*models.VerificationRequest, error) {
	vr, err := s.store.GetVerificationRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if vr.Status != models.VerificationPending {
		return nil, apperrors.Validation("verification request has already been reviewed")
	}

	status := models.VerificationStatus(req.Status)
	if status != models.VerificationApproved && status != models.VerificationRejected {
		return nil, apperrors.Validation("status must be approved or rejected")
	}

	if err := s.store.UpdateVerificationRequest(ctx, requestID, status, req.AdminNotes, reviewerID); err != nil {
		return nil, err
	}

	if status == models.VerificationApproved {
		user, err := s.store.GetUser(ctx, vr.UserID)
		if err != nil {
			return nil, err
		}
		user.IsVerified = true
		user.VerificationType = string(vr.VerificationType)
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.store.GetVerificationRequest(ctx, requestID)
}
