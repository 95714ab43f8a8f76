package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/satyamraj1643/pine/internal/domain/user"
	"github.com/satyamraj1643/pine/internal/infrastructure/observability/logging"
	persistence "github.com/satyamraj1643/pine/internal/infrastructure/persistence/user"
	"github.com/satyamraj1643/pine/pkg/config"
)

func init() {
	config.JWTSecret = "test-secret"
}

// recordingEmail captures verification sends; delivery is async so access is locked.
type recordingEmail struct {
	mu    sync.Mutex
	sends []string
}

func (r *recordingEmail) SendVerificationEmail(toEmail, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, toEmail)
	return nil
}

func newTestService(t *testing.T) (*IdentityService, *persistence.MemoryRepository) {
	t.Helper()
	repo := persistence.NewMemoryRepository()
	svc := NewIdentityService(repo, &recordingEmail{}, nil, logging.NewSilent())
	return svc, repo
}

func signupTestUser(t *testing.T, svc *IdentityService) *user.User {
	t.Helper()
	result, err := svc.Signup(SignupRequest{
		Name:       "Jane",
		Email:      "a@b.com",
		Password:   "Passw0rd!",
		RePassword: "Passw0rd!",
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	return result.User
}

func TestSignupRejectsPasswordMismatch(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Signup(SignupRequest{
		Name: "Jane", Email: "a@b.com", Password: "Passw0rd!", RePassword: "different",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "passwords do not match", result.Error)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	signupTestUser(t, svc)

	result, err := svc.Signup(SignupRequest{
		Name: "Other", Email: "a@b.com", Password: "Passw0rd!", RePassword: "Passw0rd!",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Email already exists", result.Error)
}

func TestSignupCreatesUnverifiedAccountWithOTP(t *testing.T) {
	svc, repo := newTestService(t)
	created := signupTestUser(t, svc)

	stored, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.False(t, stored.IsVerified)
	assert.Len(t, stored.OTP, 6)
	assert.True(t, stored.OTPExpiry.After(time.Now()), "the code must still be live")

	assert.NotEqual(t, "Passw0rd!", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Passw0rd!")))
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	svc, repo := newTestService(t)
	created := signupTestUser(t, svc)

	wrong := "000000"
	stored, _ := repo.FindByID(created.ID)
	if stored.OTP == wrong {
		wrong = "000001"
	}

	result, err := svc.VerifyOTP("a@b.com", wrong)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid or expired OTP", result.Error)
}

func TestVerifyOTPRejectsExpiredCode(t *testing.T) {
	svc, repo := newTestService(t)
	created := signupTestUser(t, svc)

	stored, _ := repo.FindByID(created.ID)
	stored.OTPExpiry = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Update(stored))

	result, err := svc.VerifyOTP("a@b.com", stored.OTP)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid or expired OTP", result.Error)
}

func TestVerifyOTPRejectsUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.VerifyOTP("nobody@b.com", "123456")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "User not found", result.Error)
}

func TestVerifyOTPSuccessMarksVerifiedAndMintsToken(t *testing.T) {
	svc, repo := newTestService(t)
	created := signupTestUser(t, svc)

	stored, _ := repo.FindByID(created.ID)

	result, err := svc.VerifyOTP("a@b.com", stored.OTP)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.User.IsVerified)

	// The code is single use.
	after, _ := repo.FindByID(created.ID)
	assert.Empty(t, after.OTP)
	assert.True(t, after.IsVerified)

	again, err := svc.VerifyOTP("a@b.com", stored.OTP)
	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Equal(t, "User already verified", again.Error)

	resolved, err := svc.ResolveToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
}

func TestLoginRejectsUnknownEmailAndBadPassword(t *testing.T) {
	svc, _ := newTestService(t)
	signupTestUser(t, svc)

	result, err := svc.Login("nobody@b.com", "Passw0rd!")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.True(t, result.Unauthorized)
	assert.Equal(t, "invalid credentials", result.Error)

	result, err = svc.Login("a@b.com", "wrong-password")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.True(t, result.Unauthorized)
	assert.Equal(t, "invalid credentials", result.Error)
}

func TestLoginUnverifiedIssuesTokenAndFreshOTP(t *testing.T) {
	svc, repo := newTestService(t)
	created := signupTestUser(t, svc)

	before, _ := repo.FindByID(created.ID)

	result, err := svc.Login("a@b.com", "Passw0rd!")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.False(t, result.OtpVerified)
	assert.NotEmpty(t, result.Token, "an unverified login still carries a token")

	after, _ := repo.FindByID(created.ID)
	assert.NotEqual(t, before.OTP, after.OTP, "a fresh code replaces the signup code")
	assert.False(t, after.IsVerified)
}

func TestLoginVerifiedSucceeds(t *testing.T) {
	svc, repo := newTestService(t)
	created := signupTestUser(t, svc)

	stored, _ := repo.FindByID(created.ID)
	_, err := svc.VerifyOTP("a@b.com", stored.OTP)
	require.NoError(t, err)

	result, err := svc.Login("a@b.com", "Passw0rd!")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, result.OtpVerified)
	assert.NotEmpty(t, result.Token)

	resolved, err := svc.ResolveToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", resolved.Email)
}

func TestResolveTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ResolveToken("not-a-token")
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, repo := newTestService(t)
	created := signupTestUser(t, svc)

	stored, _ := repo.FindByID(created.ID)

	result, err := svc.UpdateProfile(stored, "Janet", "")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "Janet", result.Name)

	after, _ := repo.FindByID(created.ID)
	assert.Equal(t, "Janet", after.Name)

	rejected, err := svc.UpdateProfile(after, "", "")
	require.NoError(t, err)
	assert.False(t, rejected.Success)
	assert.Equal(t, "name is required", rejected.Error)
}
