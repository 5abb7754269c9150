package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"wavemedia/internal/authz"
	"wavemedia/internal/models"
	"wavemedia/internal/repositories"
)

// fakeUserRepo is an in-memory UserRepository with the same semantics as the
// Postgres one, including the pinned lockout counter.
type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	r.nextID++
	u.ID = r.nextID
	u.IsActive = true
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) CreateInvite(email, code string, expiresAt time.Time) (*models.User, error) {
	u := &models.User{
		Email:           email,
		Role:            authz.RoleManager,
		InviteCode:      &code,
		InviteExpiresAt: &expiresAt,
	}
	return r.add(u), nil
}

func (r *fakeUserRepo) GetByID(id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) findBy(pred func(*models.User) bool) (*models.User, error) {
	for _, u := range r.users {
		if pred(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByVerificationToken(token string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token
	})
}

func (r *fakeUserRepo) GetByResetToken(token string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool {
		return u.ResetToken != nil && *u.ResetToken == token
	})
}

func (r *fakeUserRepo) UpdateProfile(id int64, name, email string) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Name, u.Email = name, email
	return nil
}

func (r *fakeUserRepo) SetRole(id int64, role string) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) SetPassword(id int64, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken, u.ResetExpiresAt = nil, nil
	return nil
}

func (r *fakeUserRepo) SetRefreshToken(id int64, token *string) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *fakeUserRepo) SetVerificationToken(id int64, token string, expiresAt time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.VerificationToken, u.VerificationExpiresAt = &token, &expiresAt
	return nil
}

func (r *fakeUserRepo) MarkVerified(id int64) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsVerified = true
	u.VerificationToken, u.VerificationExpiresAt = nil, nil
	return nil
}

func (r *fakeUserRepo) SetResetToken(id int64, token string, expiresAt time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.ResetToken, u.ResetExpiresAt = &token, &expiresAt
	return nil
}

func (r *fakeUserRepo) CompleteInvite(id int64, name, passwordHash, verificationToken string, verificationExpires time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Name, u.PasswordHash = name, passwordHash
	u.InviteCode, u.InviteExpiresAt = nil, nil
	u.VerificationToken, u.VerificationExpiresAt = &verificationToken, &verificationExpires
	return nil
}

func (r *fakeUserRepo) Deactivate(id int64) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsActive = false
	u.RefreshToken = nil
	return nil
}

func (r *fakeUserRepo) IncrementFailedLogins(id int64, threshold int, lockFor time.Duration) (int, *time.Time, error) {
	u, ok := r.users[id]
	if !ok {
		return 0, nil, repositories.ErrNotFound
	}
	next := u.FailedLoginAttempts + 1
	if next >= threshold {
		t := time.Now().Add(lockFor)
		u.LockUntil = &t
	}
	if next > threshold {
		next = threshold
	}
	u.FailedLoginAttempts = next
	return u.FailedLoginAttempts, u.LockUntil, nil
}

func (r *fakeUserRepo) ResetFailedLogins(id int64) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.FailedLoginAttempts = 0
	u.LockUntil = nil
	return nil
}

func (r *fakeUserRepo) Count() (int, error) { return len(r.users), nil }

func (r *fakeUserRepo) CountByRole(role string) (int, error) {
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeEmailService struct {
	verifications []string
	invites       []string
	resets        []string
	changed       []string
}

func (f *fakeEmailService) SendVerificationEmail(email, name, token string) error {
	f.verifications = append(f.verifications, token)
	return nil
}
func (f *fakeEmailService) SendInviteEmail(email, code string) error {
	f.invites = append(f.invites, code)
	return nil
}
func (f *fakeEmailService) SendPasswordResetEmail(email, token string) error {
	f.resets = append(f.resets, token)
	return nil
}
func (f *fakeEmailService) SendPasswordChangedEmail(email string) error {
	f.changed = append(f.changed, email)
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeEmailService, TokenService) {
	t.Helper()
	repo := newFakeUserRepo()
	tokens := NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)
	emails := &fakeEmailService{}
	return NewAuthService(repo, tokens, emails, "admin-secret"), repo, emails, tokens
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func seedVerifiedUser(t *testing.T, repo *fakeUserRepo, email, password string) *models.User {
	t.Helper()
	return repo.add(&models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: mustHash(t, password),
		Role:         authz.RoleUser,
		IsVerified:   true,
	})
}

func TestRegisterUser_SendsVerification(t *testing.T) {
	svc, repo, emails, _ := newAuthFixture(t)

	user, err := svc.RegisterUser(models.RegisterRequest{
		Name: "Alice", Email: "Alice@Example.com", Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, authz.RoleUser, user.Role)
	require.False(t, user.IsVerified)
	require.NotNil(t, user.VerificationToken)
	require.Len(t, emails.verifications, 1)

	stored, err := repo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	seedVerifiedUser(t, repo, "alice@example.com", "pw")

	_, err := svc.RegisterUser(models.RegisterRequest{
		Name: "Other", Email: "ALICE@example.com", Password: "secret1",
	})
	require.True(t, errors.Is(err, ErrEmailTaken))
}

func TestVerifyEmail_Flow(t *testing.T) {
	svc, repo, emails, _ := newAuthFixture(t)

	_, err := svc.RegisterUser(models.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	token := emails.verifications[0]
	require.NoError(t, svc.VerifyEmail(token))

	u, err := repo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	require.True(t, u.IsVerified)
	require.Nil(t, u.VerificationToken)

	// consumed tokens are gone
	require.True(t, errors.Is(svc.VerifyEmail(token), ErrInvalidToken))
}

func TestVerifyEmail_ExpiredToken(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)

	token := "stale-token"
	expired := time.Now().Add(-time.Minute)
	repo.add(&models.User{
		Email:                 "bob@example.com",
		PasswordHash:          "x",
		Role:                  authz.RoleUser,
		VerificationToken:     &token,
		VerificationExpiresAt: &expired,
	})

	require.True(t, errors.Is(svc.VerifyEmail(token), ErrInvalidToken))
}

func TestLogin_Success(t *testing.T) {
	svc, repo, _, tokens := newAuthFixture(t)
	u := seedVerifiedUser(t, repo, "alice@example.com", "secret1")
	repo.users[u.ID].FailedLoginAttempts = 3

	res, err := svc.Login("ALICE@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, u.ID, res.User.ID)

	claims, err := tokens.VerifyAccessToken(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)

	stored := repo.users[u.ID]
	require.Equal(t, 0, stored.FailedLoginAttempts)
	require.NotNil(t, stored.RefreshToken)
	require.Equal(t, res.RefreshToken, *stored.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	u := seedVerifiedUser(t, repo, "alice@example.com", "secret1")

	_, err := svc.Login("alice@example.com", "nope")
	require.True(t, errors.Is(err, ErrInvalidCredentials))
	require.Equal(t, 1, repo.users[u.ID].FailedLoginAttempts)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	_, err := svc.Login("ghost@example.com", "whatever")
	require.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLogin_LockoutSequence(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	u := seedVerifiedUser(t, repo, "alice@example.com", "secret1")

	for i := 0; i < maxFailedLogins; i++ {
		_, err := svc.Login("alice@example.com", "wrong")
		require.True(t, errors.Is(err, ErrInvalidCredentials), "attempt %d", i+1)
	}

	stored := repo.users[u.ID]
	require.Equal(t, maxFailedLogins, stored.FailedLoginAttempts)
	require.NotNil(t, stored.LockUntil)
	require.WithinDuration(t, time.Now().Add(lockDuration), *stored.LockUntil, 5*time.Second)

	// locked out even with the correct password
	_, err := svc.Login("alice@example.com", "secret1")
	require.True(t, errors.Is(err, ErrAccountLocked))

	// counter stays pinned at the threshold
	require.Equal(t, maxFailedLogins, repo.users[u.ID].FailedLoginAttempts)
}

func TestLogin_LockExpires(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	u := seedVerifiedUser(t, repo, "alice@example.com", "secret1")

	past := time.Now().Add(-time.Minute)
	repo.users[u.ID].FailedLoginAttempts = maxFailedLogins
	repo.users[u.ID].LockUntil = &past

	res, err := svc.Login("alice@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, 0, repo.users[u.ID].FailedLoginAttempts)
}

func TestLogin_Unverified(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	repo.add(&models.User{
		Email:        "new@example.com",
		PasswordHash: mustHash(t, "secret1"),
		Role:         authz.RoleUser,
		IsVerified:   false,
	})

	_, err := svc.Login("new@example.com", "secret1")
	require.True(t, errors.Is(err, ErrNotVerified))
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	u := seedVerifiedUser(t, repo, "gone@example.com", "secret1")
	repo.users[u.ID].IsActive = false

	_, err := svc.Login("gone@example.com", "secret1")
	require.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestRefresh_Flow(t *testing.T) {
	svc, repo, _, tokens := newAuthFixture(t)
	u := seedVerifiedUser(t, repo, "alice@example.com", "secret1")

	res, err := svc.Login("alice@example.com", "secret1")
	require.NoError(t, err)

	access, err := svc.Refresh(res.RefreshToken)
	require.NoError(t, err)
	claims, err := tokens.VerifyAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
}

func TestRefresh_RejectedAfterLogout(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	u := seedVerifiedUser(t, repo, "alice@example.com", "secret1")
	res, err := svc.Login("alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(u.ID))

	_, err = svc.Refresh(res.RefreshToken)
	require.True(t, errors.Is(err, ErrRefreshMismatch))
}

func TestRefresh_SupersededBySecondLogin(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	seedVerifiedUser(t, repo, "alice@example.com", "secret1")

	first, err := svc.Login("alice@example.com", "secret1")
	require.NoError(t, err)
	second, err := svc.Login("alice@example.com", "secret1")
	require.NoError(t, err)

	if first.RefreshToken == second.RefreshToken {
		t.Skip("tokens issued within the same second collide; nothing to supersede")
	}

	_, err = svc.Refresh(first.RefreshToken)
	require.True(t, errors.Is(err, ErrRefreshMismatch))

	_, err = svc.Refresh(second.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	_, err := svc.Refresh("garbage")
	require.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, repo, emails, _ := newAuthFixture(t)
	seedVerifiedUser(t, repo, "alice@example.com", "oldpass1")

	require.NoError(t, svc.ForgotPassword("alice@example.com"))
	require.Len(t, emails.resets, 1)

	token := emails.resets[0]
	require.NoError(t, svc.ResetPassword(token, "newpass1"))
	require.Len(t, emails.changed, 1)

	_, err := svc.Login("alice@example.com", "oldpass1")
	require.True(t, errors.Is(err, ErrInvalidCredentials))

	// the failed old-password attempt above bumped the counter; a correct
	// login still goes through and clears it
	res, err := svc.Login("alice@example.com", "newpass1")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)

	// token is single-use
	require.True(t, errors.Is(svc.ResetPassword(token, "another1"), ErrInvalidToken))
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, _, emails, _ := newAuthFixture(t)
	require.NoError(t, svc.ForgotPassword("nobody@example.com"))
	require.Empty(t, emails.resets)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	u := seedVerifiedUser(t, repo, "alice@example.com", "secret1")

	token := "expired-reset"
	past := time.Now().Add(-time.Minute)
	repo.users[u.ID].ResetToken = &token
	repo.users[u.ID].ResetExpiresAt = &past

	require.True(t, errors.Is(svc.ResetPassword(token, "newpass1"), ErrInvalidToken))
}

func TestInviteAndRegisterManager(t *testing.T) {
	svc, repo, emails, _ := newAuthFixture(t)

	code, err := svc.InviteManager("manager@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, code)
	require.Len(t, emails.invites, 1)

	_, err = svc.RegisterManager(models.RegisterManagerRequest{
		Name: "Mandy", Email: "manager@example.com", Password: "secret1", InviteCode: "wrong-code",
	})
	require.True(t, errors.Is(err, ErrInvalidInvite))

	user, err := svc.RegisterManager(models.RegisterManagerRequest{
		Name: "Mandy", Email: "manager@example.com", Password: "secret1", InviteCode: code,
	})
	require.NoError(t, err)
	require.Equal(t, authz.RoleManager, user.Role)
	require.Nil(t, user.InviteCode)

	// the invite is single-use
	_, err = svc.RegisterManager(models.RegisterManagerRequest{
		Name: "Mandy", Email: "manager@example.com", Password: "secret1", InviteCode: code,
	})
	require.True(t, errors.Is(err, ErrInvalidInvite))

	stored, err := repo.GetByEmail("manager@example.com")
	require.NoError(t, err)
	require.False(t, stored.IsVerified)
}

func TestRegisterManager_ExpiredInvite(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)

	code := "expired-code"
	past := time.Now().Add(-time.Minute)
	repo.add(&models.User{
		Email:           "late@example.com",
		Role:            authz.RoleManager,
		InviteCode:      &code,
		InviteExpiresAt: &past,
	})

	_, err := svc.RegisterManager(models.RegisterManagerRequest{
		Name: "Late", Email: "late@example.com", Password: "secret1", InviteCode: code,
	})
	require.True(t, errors.Is(err, ErrInvalidInvite))
}

func TestRegisterAdmin(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.RegisterAdmin(models.RegisterAdminRequest{
		Name: "Root", Email: "root@example.com", Password: "secret1", AdminSecret: "nope",
	})
	require.True(t, errors.Is(err, ErrBadAdminSecret))

	user, err := svc.RegisterAdmin(models.RegisterAdminRequest{
		Name: "Root", Email: "root@example.com", Password: "secret1", AdminSecret: "admin-secret",
	})
	require.NoError(t, err)
	require.Equal(t, authz.RoleAdmin, user.Role)
	require.True(t, user.IsVerified)
}

func TestPromote(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)

	manager := repo.add(&models.User{
		Email: "m@example.com", Role: authz.RoleManager, PasswordHash: "x", IsVerified: true,
	})
	plain := seedVerifiedUser(t, repo, "u@example.com", "pw")

	promoted, err := svc.Promote(manager.ID)
	require.NoError(t, err)
	require.Equal(t, authz.RoleAdmin, promoted.Role)
	require.Equal(t, authz.RoleAdmin, repo.users[manager.ID].Role)

	_, err = svc.Promote(plain.ID)
	require.True(t, errors.Is(err, ErrNotManager))

	_, err = svc.Promote(9999)
	require.True(t, errors.Is(err, ErrUserNotFound))
}

func TestUpdateProfile_EmailConflict(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	seedVerifiedUser(t, repo, "taken@example.com", "pw")
	u := seedVerifiedUser(t, repo, "me@example.com", "pw")

	_, err := svc.UpdateProfile(u.ID, models.UpdateProfileRequest{Email: "taken@example.com"})
	require.True(t, errors.Is(err, ErrEmailTaken))

	updated, err := svc.UpdateProfile(u.ID, models.UpdateProfileRequest{Name: "New Name"})
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)
	require.Equal(t, "me@example.com", updated.Email)
}

func TestDeactivate_KillsSession(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)
	u := seedVerifiedUser(t, repo, "alice@example.com", "secret1")

	res, err := svc.Login("alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(u.ID))
	require.False(t, repo.users[u.ID].IsActive)

	_, err = svc.Refresh(res.RefreshToken)
	require.True(t, errors.Is(err, ErrRefreshMismatch))
}

func TestResendVerification(t *testing.T) {
	svc, repo, emails, _ := newAuthFixture(t)

	_, err := svc.RegisterUser(models.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	require.Len(t, emails.verifications, 1)

	require.NoError(t, svc.ResendVerification("alice@example.com"))
	require.Len(t, emails.verifications, 2)

	// latest token wins
	require.NoError(t, svc.VerifyEmail(emails.verifications[1]))
	u, err := repo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	require.True(t, u.IsVerified)

	// verified accounts and unknown emails are both silently ignored
	require.NoError(t, svc.ResendVerification("alice@example.com"))
	require.NoError(t, svc.ResendVerification("ghost@example.com"))
	require.Len(t, emails.verifications, 2)
}
