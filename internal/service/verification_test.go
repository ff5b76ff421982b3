package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/service"
)

// ageUser backdates a user's account creation for deadline tests.
func ageUser(t *testing.T, f *fixture, userID string, age time.Duration) {
	t.Helper()
	u, err := f.store.GetUser(f.ctx, userID)
	require.NoError(t, err)
	u.CreatedAt = time.Now().Add(-age)
	require.NoError(t, f.store.UpdateUser(f.ctx, u))
}

func TestStudentCanApplyAnytime(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	student := f.user(t, "+15550001", "student", models.AccountStudent)
	ageUser(t, f, student.ID, 30*24*time.Hour)

	vr, err := f.svc.SubmitVerification(f.ctx, student.ID, models.SubmitVerificationRequest{
		VerificationType: "student",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, vr.Status)
}

func TestProfessorDeadline(t *testing.T) {
	f := newFixture(t, service.Options{}, false)

	evidence := models.SubmitVerificationRequest{
		VerificationType: "professor_scientist",
		InstituteName:    "Wageningen University",
		ProofOfWorkURL:   "https://example.org/proof.pdf",
		SelfieURL:        "https://example.org/selfie.jpg",
	}

	// Six days in: still allowed.
	early := f.user(t, "+15550001", "earlyprof", models.AccountProfessorScientist)
	ageUser(t, f, early.ID, 6*24*time.Hour)
	_, err := f.svc.SubmitVerification(f.ctx, early.ID, evidence)
	require.NoError(t, err)

	// Eight days in: deadline missed.
	late := f.user(t, "+15550002", "lateprof", models.AccountProfessorScientist)
	ageUser(t, f, late.ID, 8*24*time.Hour)
	_, err = f.svc.SubmitVerification(f.ctx, late.ID, evidence)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestProfessorNeedsEvidence(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	prof := f.user(t, "+15550001", "prof", models.AccountProfessorScientist)
	ageUser(t, f, prof.ID, 24*time.Hour)

	_, err := f.svc.SubmitVerification(f.ctx, prof.ID, models.SubmitVerificationRequest{
		VerificationType: "professor_scientist",
		InstituteName:    "Wageningen University",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestVerificationTypeMustMatchAccount(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	farmer := f.user(t, "+15550001", "farmer", models.AccountFarmer)

	_, err := f.svc.SubmitVerification(f.ctx, farmer.ID, models.SubmitVerificationRequest{
		VerificationType: "student",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestSinglePendingRequest(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	student := f.user(t, "+15550001", "student", models.AccountStudent)
	ageUser(t, f, student.ID, 24*time.Hour)

	_, err := f.svc.SubmitVerification(f.ctx, student.ID, models.SubmitVerificationRequest{VerificationType: "student"})
	require.NoError(t, err)

	_, err = f.svc.SubmitVerification(f.ctx, student.ID, models.SubmitVerificationRequest{VerificationType: "student"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "a second pending request must be rejected")
}

func TestApprovalVerifiesUser(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	student := f.user(t, "+15550001", "student", models.AccountStudent)
	admin := f.user(t, "+15550002", "admin", models.AccountEnthusiast)
	ageUser(t, f, student.ID, 24*time.Hour)

	vr, err := f.svc.SubmitVerification(f.ctx, student.ID, models.SubmitVerificationRequest{VerificationType: "student"})
	require.NoError(t, err)

	pending, err := f.svc.GetPendingVerificationRequests(f.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	reviewed, err := f.svc.ReviewVerification(f.ctx, admin.ID, vr.ID, models.ReviewVerificationRequest{
		Status:     "approved",
		AdminNotes: "credentials check out",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationApproved, reviewed.Status)
	assert.Equal(t, admin.ID, reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)

	got, err := f.svc.GetUserByID(f.ctx, student.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Equal(t, "student", got.VerificationType)

	// A reviewed request cannot be reviewed again.
	_, err = f.svc.ReviewVerification(f.ctx, admin.ID, vr.ID, models.ReviewVerificationRequest{Status: "rejected"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestRejectionLeavesUserUnverified(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	student := f.user(t, "+15550001", "student", models.AccountStudent)
	admin := f.user(t, "+15550002", "admin", models.AccountEnthusiast)

	vr, err := f.svc.SubmitVerification(f.ctx, student.ID, models.SubmitVerificationRequest{VerificationType: "student"})
	require.NoError(t, err)

	reviewed, err := f.svc.ReviewVerification(f.ctx, admin.ID, vr.ID, models.ReviewVerificationRequest{
		Status:     "rejected",
		AdminNotes: "no student card provided",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, reviewed.Status)

	got, err := f.svc.GetUserByID(f.ctx, student.ID)
	require.NoError(t, err)
	assert.False(t, got.IsVerified)

	// After a rejection the student may apply again.
	status, err := f.svc.VerificationStatus(f.ctx, student.ID)
	require.NoError(t, err)
	assert.True(t, status.CanApply)
}

func TestVerificationStatusDeadline(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	prof := f.user(t, "+15550001", "prof", models.AccountProfessorScientist)
	ageUser(t, f, prof.ID, 24*time.Hour)

	status, err := f.svc.VerificationStatus(f.ctx, prof.ID)
	require.NoError(t, err)
	assert.True(t, status.CanApply)
	require.NotNil(t, status.Deadline)

	ageUser(t, f, prof.ID, 10*24*time.Hour)
	status, err = f.svc.VerificationStatus(f.ctx, prof.ID)
	require.NoError(t, err)
	assert.False(t, status.CanApply)
}
