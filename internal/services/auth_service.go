package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"wavemedia/internal/authz"
	"wavemedia/internal/models"
	"wavemedia/internal/repositories"
	"wavemedia/internal/utils"
)

const (
	maxFailedLogins = 5
	lockDuration    = 15 * time.Minute
	verificationTTL = 24 * time.Hour
	inviteTTL       = 7 * 24 * time.Hour
	resetTTL        = time.Hour
)

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	RegisterUser(req models.RegisterRequest) (*models.User, error)
	RegisterManager(req models.RegisterManagerRequest) (*models.User, error)
	RegisterAdmin(req models.RegisterAdminRequest) (*models.User, error)
	VerifyEmail(token string) error
	ResendVerification(email string) error
	Login(email, password string) (*LoginResult, error)
	Refresh(refreshToken string) (string, error)
	Logout(userID int64) error
	ForgotPassword(email string) error
	ResetPassword(token, newPassword string) error
	InviteManager(email string) (string, error)
	Promote(userID int64) (*models.User, error)
	GetProfile(userID int64) (*models.User, error)
	UpdateProfile(userID int64, req models.UpdateProfileRequest) (*models.User, error)
	Deactivate(userID int64) error
}

type authService struct {
	users       repositories.UserRepository
	tokens      TokenService
	emails      EmailService
	adminSecret string
}

func NewAuthService(users repositories.UserRepository, tokens TokenService, emails EmailService, adminSecret string) AuthService {
	return &authService{users: users, tokens: tokens, emails: emails, adminSecret: adminSecret}
}

func (s *authService) hashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(h), err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser creates a basic account in pending-verification state and
// sends the verification email. Email send failure is logged, not fatal.
func (s *authService) RegisterUser(req models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if existing, err := s.users.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	token, err := utils.NewRandomToken(32)
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(verificationTTL)

	user := &models.User{
		Name:                  strings.TrimSpace(req.Name),
		Email:                 email,
		PasswordHash:          hash,
		Role:                  authz.RoleUser,
		IsVerified:            false,
		VerificationToken:     &token,
		VerificationExpiresAt: &expires,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	if s.emails != nil {
		if err := s.emails.SendVerificationEmail(user.Email, user.Name, token); err != nil {
			log.Warnf("[auth][register] verification email to %s failed: %v", user.Email, err)
		}
	}
	return user, nil
}

// RegisterManager completes the shell record created by InviteManager. The
// code must match the stored one and be unexpired; a record that already
// carries a password cannot be completed again.
func (s *authService) RegisterManager(req models.RegisterManagerRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidInvite
		}
		return nil, err
	}
	if user.InviteCode == nil || *user.InviteCode != strings.TrimSpace(req.InviteCode) {
		return nil, ErrInvalidInvite
	}
	if user.InviteExpiresAt == nil || time.Now().After(*user.InviteExpiresAt) {
		return nil, ErrInvalidInvite
	}
	if user.PasswordHash != "" {
		// already completed
		return nil, ErrInvalidInvite
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	token, err := utils.NewRandomToken(32)
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(verificationTTL)
	if err := s.users.CompleteInvite(user.ID, strings.TrimSpace(req.Name), hash, token, expires); err != nil {
		return nil, err
	}

	if s.emails != nil {
		if err := s.emails.SendVerificationEmail(email, req.Name, token); err != nil {
			log.Warnf("[auth][register-manager] verification email to %s failed: %v", email, err)
		}
	}
	return s.users.GetByID(user.ID)
}

// RegisterAdmin is gated by the shared admin secret; the account is created
// verified, with no email round-trip.
func (s *authService) RegisterAdmin(req models.RegisterAdminRequest) (*models.User, error) {
	if s.adminSecret == "" || req.AdminSecret != s.adminSecret {
		return nil, ErrBadAdminSecret
	}
	email := normalizeEmail(req.Email)
	if existing, err := s.users.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         authz.RoleAdmin,
		IsVerified:   true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyEmail consumes a verification token. The stored expiry is enforced.
func (s *authService) VerifyEmail(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	user, err := s.users.GetByVerificationToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if user.VerificationExpiresAt == nil || time.Now().After(*user.VerificationExpiresAt) {
		return ErrInvalidToken
	}
	return s.users.MarkVerified(user.ID)
}

func (s *authService) ResendVerification(email string) error {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// don't leak existence
			return nil
		}
		return err
	}
	if user.IsVerified {
		return nil
	}
	token, err := utils.NewRandomToken(32)
	if err != nil {
		return err
	}
	if err := s.users.SetVerificationToken(user.ID, token, time.Now().Add(verificationTTL)); err != nil {
		return err
	}
	if s.emails != nil {
		if err := s.emails.SendVerificationEmail(user.Email, user.Name, token); err != nil {
			log.Warnf("[auth][resend-verification] email to %s failed: %v", user.Email, err)
		}
	}
	return nil
}

// Login enforces, in order: account active, not locked, password match,
// email verified. The lock check runs before the password comparison, so a
// locked account is rejected even when the guess is correct.
func (s *authService) Login(email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if user.IsLocked(time.Now()) {
		return nil, ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		attempts, lockUntil, incErr := s.users.IncrementFailedLogins(user.ID, maxFailedLogins, lockDuration)
		if incErr != nil {
			log.Errorf("[auth][login] increment failed logins for userID=%d: %v", user.ID, incErr)
		} else if lockUntil != nil {
			log.Warnf("[auth][login] userID=%d locked until %s after %d failed attempts",
				user.ID, lockUntil.Format(time.RFC3339), attempts)
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	if err := s.users.ResetFailedLogins(user.ID); err != nil {
		log.Errorf("[auth][login] reset failed logins for userID=%d: %v", user.ID, err)
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}
	// the new refresh token supersedes any previous session
	if err := s.users.SetRefreshToken(user.ID, &refresh); err != nil {
		return nil, err
	}

	user.FailedLoginAttempts = 0
	user.LockUntil = nil
	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token. Signature and
// expiry come from the token itself; revocation is the equality check
// against the token stored on the record. The refresh token is not rotated.
func (s *authService) Refresh(refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefreshToken(strings.TrimSpace(refreshToken))
	if err != nil {
		return "", err
	}
	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrRefreshMismatch
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrRefreshMismatch
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return "", ErrRefreshMismatch
	}
	return s.tokens.IssueAccessToken(user)
}

func (s *authService) Logout(userID int64) error {
	return s.users.SetRefreshToken(userID, nil)
}

// ForgotPassword issues a reset token without revealing whether the email
// exists.
func (s *authService) ForgotPassword(email string) error {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Infof("[auth][forgot-password] request for unknown email")
			return nil
		}
		return err
	}
	token, err := utils.NewRandomToken(32)
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(user.ID, token, time.Now().Add(resetTTL)); err != nil {
		return err
	}
	if s.emails != nil {
		if err := s.emails.SendPasswordResetEmail(user.Email, token); err != nil {
			log.Warnf("[auth][forgot-password] reset email to %s failed: %v", user.Email, err)
		}
	}
	return nil
}

// ResetPassword consumes the reset token and rehashes the password. The
// confirmation email is best-effort: the reset already succeeded.
func (s *authService) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	user, err := s.users.GetByResetToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return ErrInvalidToken
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(user.ID, hash); err != nil {
		return err
	}
	if s.emails != nil {
		if err := s.emails.SendPasswordChangedEmail(user.Email); err != nil {
			log.Warnf("[auth][reset-password] confirmation email to %s failed: %v", user.Email, err)
		}
	}
	return nil
}

// InviteManager creates the shell record and mails the invitation code.
func (s *authService) InviteManager(email string) (string, error) {
	email = normalizeEmail(email)
	if existing, err := s.users.GetByEmail(email); err == nil && existing != nil {
		return "", ErrEmailTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}

	code := uuid.NewString()
	if _, err := s.users.CreateInvite(email, code, time.Now().Add(inviteTTL)); err != nil {
		return "", err
	}
	if s.emails != nil {
		if err := s.emails.SendInviteEmail(email, code); err != nil {
			log.Warnf("[auth][invite-manager] invite email to %s failed: %v", email, err)
		}
	}
	return code, nil
}

// Promote raises a manager to admin. The transition is one-directional.
func (s *authService) Promote(userID int64) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role != authz.RoleManager {
		return nil, ErrNotManager
	}
	if err := s.users.SetRole(userID, authz.RoleAdmin); err != nil {
		return nil, err
	}
	user.Role = authz.RoleAdmin
	return user, nil
}

func (s *authService) GetProfile(userID int64) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID int64, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = user.Name
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		email = user.Email
	}
	if email != user.Email {
		if existing, err := s.users.GetByEmail(email); err == nil && existing != nil {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}
	if err := s.users.UpdateProfile(userID, name, email); err != nil {
		return nil, err
	}
	return s.users.GetByID(userID)
}

// Deactivate soft-deletes the account and kills the active session. The
// record is retained.
func (s *authService) Deactivate(userID int64) error {
	return s.users.Deactivate(userID)
}
