// Package services provides application-level orchestration services
package services

import (
	"fmt"
	"time"

	"github.com/satyamraj1643/pine/internal/domain/user"
	"github.com/satyamraj1643/pine/internal/infrastructure/email"
	"github.com/satyamraj1643/pine/internal/infrastructure/media"
	"github.com/satyamraj1643/pine/internal/infrastructure/observability/logging"
	"github.com/satyamraj1643/pine/internal/infrastructure/security"
	"github.com/satyamraj1643/pine/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// IdentityService handles account creation, verification and session workflows
type IdentityService struct {
	logger  *logging.ChanneledLogger
	users   user.Repository
	email   email.Service
	avatars *media.AvatarProcessor
}

// NewIdentityService creates a new identity service
func NewIdentityService(users user.Repository, emailSvc email.Service, avatars *media.AvatarProcessor, logger *logging.ChanneledLogger) *IdentityService {
	return &IdentityService{
		logger:  logger,
		users:   users,
		email:   emailSvc,
		avatars: avatars,
	}
}

// SignupRequest holds the fields accepted on account creation
type SignupRequest struct {
	Name           string
	Email          string
	Password       string
	RePassword     string
	ProfilePicture string
	Phone          string
}

// SignupResult holds the result of an account creation operation
type SignupResult struct {
	Success bool
	Error   string
	User    *user.User
}

// LoginResult holds authentication result data
type LoginResult struct {
	Success      bool
	Unauthorized bool // distinguishes rejected credentials from an unverified account
	Error        string
	User         *user.User
	Token        string
	OtpVerified  bool
}

// VerifyResult holds the result of an OTP verification
type VerifyResult struct {
	Success bool
	Error   string
	User    *user.User
	Token   string
}

// UpdateProfileResult holds the result of a profile update
type UpdateProfileResult struct {
	Success bool
	Error   string
	Name    string
}

// Signup registers a new unverified account and sends the verification code.
func (s *IdentityService) Signup(req SignupRequest) (*SignupResult, error) {
	if req.RePassword != "" && req.Password != req.RePassword {
		return &SignupResult{Success: false, Error: "passwords do not match"}, nil
	}

	existing, err := s.users.FindByEmail(req.Email)
	if err != nil {
		s.logger.Auth().Error("Database error checking for existing user", "error", err, "email", req.Email)
		return nil, fmt.Errorf("database error checking existing email")
	}
	if existing != nil {
		return &SignupResult{Success: false, Error: "Email already exists"}, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Auth().Error("Password hashing failed", "error", err)
		return nil, fmt.Errorf("password hashing failed")
	}

	otp := security.GenerateOTP()
	now := time.Now().UTC()

	newUser := &user.User{
		Email:          req.Email,
		Name:           req.Name,
		Phone:          req.Phone,
		ProfilePicture: req.ProfilePicture,
		PasswordHash:   string(hashedPassword),
		IsVerified:     false,
		OTP:            otp,
		OTPExpiry:      now.Add(config.OTPLifetime),
		CreatedAt:      now,
		Changed:        now,
	}

	if _, err := s.users.Store(newUser); err != nil {
		s.logger.Auth().Warn("Failed to store new user", "error", err, "email", req.Email)
		return &SignupResult{Success: false, Error: "Email already exists"}, nil
	}

	// Fire and forget: delivery failure must not fail the signup
	go s.sendVerificationEmail(newUser.Email, otp)

	s.logger.Auth().Info("Account created, verification pending", "userId", newUser.ID, "email", newUser.Email)
	return &SignupResult{Success: true, User: newUser}, nil
}

// VerifyOTP checks the emailed code and, when valid, marks the account verified
// and issues a session token.
func (s *IdentityService) VerifyOTP(emailAddr, code string) (*VerifyResult, error) {
	u, err := s.users.FindByEmail(emailAddr)
	if err != nil {
		s.logger.Auth().Error("Database error loading user for verification", "error", err, "email", emailAddr)
		return nil, fmt.Errorf("database error loading user")
	}
	if u == nil {
		return &VerifyResult{Success: false, Error: "User not found"}, nil
	}

	if u.IsVerified {
		return &VerifyResult{Success: false, Error: "User already verified"}, nil
	}

	if u.OTP == "" || u.OTP != code || time.Now().After(u.OTPExpiry) {
		s.logger.Auth().Warn("OTP verification rejected", "userId", u.ID, "expired", time.Now().After(u.OTPExpiry))
		return &VerifyResult{Success: false, Error: "Invalid or expired OTP"}, nil
	}

	u.IsVerified = true
	u.OTP = ""
	u.OTPExpiry = time.Time{}
	if err := s.users.Update(u); err != nil {
		s.logger.Auth().Error("Failed to persist verification", "error", err, "userId", u.ID)
		return nil, fmt.Errorf("failed to update user")
	}

	token, err := security.GenerateSessionToken(u.ID, u.Email, config.JWTSecret, config.TokenLifetime)
	if err != nil {
		s.logger.Auth().Error("Token generation failed after verification", "error", err, "userId", u.ID)
		return nil, fmt.Errorf("failed to create session")
	}

	s.logger.Auth().Info("Account verified", "userId", u.ID, "email", u.Email)
	return &VerifyResult{Success: true, User: u, Token: token}, nil
}

// Login validates credentials and issues a session token. An unverified account
// gets a fresh OTP re-issued instead of a token; the caller still receives the
// identity fields so the client can route into the verification flow.
func (s *IdentityService) Login(emailAddr, password string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(emailAddr)
	if err != nil {
		s.logger.Auth().Error("Database error loading user for login", "error", err, "email", emailAddr)
		return nil, fmt.Errorf("database error loading user")
	}
	if u == nil {
		return &LoginResult{Success: false, Unauthorized: true, Error: "invalid credentials"}, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.logger.Auth().Warn("Login attempt rejected", "email", emailAddr)
		return &LoginResult{Success: false, Unauthorized: true, Error: "invalid credentials"}, nil
	}

	// An unverified account still gets a token so the verify-otp call can be
	// attributed to it, but the verified flag stays down and a fresh OTP goes out.
	token, err := security.GenerateSessionToken(u.ID, u.Email, config.JWTSecret, config.TokenLifetime)
	if err != nil {
		s.logger.Auth().Error("Token generation failed on login", "error", err, "userId", u.ID)
		return nil, fmt.Errorf("failed to create session")
	}

	if !u.IsVerified {
		if err := s.ReissueOTP(u); err != nil {
			return nil, err
		}
		s.logger.Auth().Info("Login by unverified account, OTP re-issued", "userId", u.ID)
		return &LoginResult{Success: true, User: u, Token: token, OtpVerified: false}, nil
	}

	s.logger.Auth().Info("Login successful", "userId", u.ID)
	return &LoginResult{Success: true, User: u, Token: token, OtpVerified: true}, nil
}

// ResolveToken validates a session token and loads its user.
func (s *IdentityService) ResolveToken(token string) (*user.User, error) {
	claims, err := security.ValidateSessionToken(token, config.JWTSecret)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(claims.UserID)
	if err != nil {
		s.logger.Auth().Error("Database error resolving token", "error", err, "userId", claims.UserID)
		return nil, fmt.Errorf("database error loading user")
	}
	if u == nil {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

// ReissueOTP generates and emails a fresh verification code for an unverified account.
func (s *IdentityService) ReissueOTP(u *user.User) error {
	otp := security.GenerateOTP()
	u.OTP = otp
	u.OTPExpiry = time.Now().UTC().Add(config.OTPLifetime)
	if err := s.users.Update(u); err != nil {
		s.logger.Auth().Error("Failed to persist re-issued OTP", "error", err, "userId", u.ID)
		return fmt.Errorf("failed to update user")
	}

	go s.sendVerificationEmail(u.Email, otp)
	return nil
}

// UpdateProfile merges the allowed profile fields for the given user.
func (s *IdentityService) UpdateProfile(u *user.User, name, profilePicture string) (*UpdateProfileResult, error) {
	if name == "" {
		return &UpdateProfileResult{Success: false, Error: "name is required"}, nil
	}

	u.Name = name

	if profilePicture != "" && s.avatars != nil {
		path, err := s.avatars.ProcessBase64Avatar(profilePicture, u.ID)
		if err != nil {
			s.logger.Auth().Warn("Avatar processing failed", "error", err, "userId", u.ID)
			return &UpdateProfileResult{Success: false, Error: "invalid profile picture"}, nil
		}
		u.ProfilePicture = path
	}

	if err := s.users.Update(u); err != nil {
		s.logger.Auth().Error("Failed to persist profile update", "error", err, "userId", u.ID)
		return nil, fmt.Errorf("failed to update profile")
	}

	s.logger.Auth().Info("Profile updated", "userId", u.ID)
	return &UpdateProfileResult{Success: true, Name: u.Name}, nil
}

func (s *IdentityService) sendVerificationEmail(toEmail, code string) {
	if err := s.email.SendVerificationEmail(toEmail, code); err != nil {
		s.logger.Email().Error("Failed to send verification email", "error", err, "email", toEmail)
		return
	}
	s.logger.Email().Info("Verification email sent", "email", toEmail)
}
