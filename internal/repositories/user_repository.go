package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"wavemedia/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

const userColumns = `
	id, name, email, password_hash, role,
	is_verified, verification_token, verification_expires_at,
	invite_code, invite_expires_at,
	failed_login_attempts, lock_until,
	reset_token, reset_expires_at,
	refresh_token, is_active, created_at, updated_at
`

type UserRepository interface {
	Create(user *models.User) error
	CreateInvite(email, code string, expiresAt time.Time) (*models.User, error)
	GetByID(id int64) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByVerificationToken(token string) (*models.User, error)
	GetByResetToken(token string) (*models.User, error)

	UpdateProfile(id int64, name, email string) error
	SetRole(id int64, role string) error
	SetPassword(id int64, passwordHash string) error
	SetRefreshToken(id int64, token *string) error
	SetVerificationToken(id int64, token string, expiresAt time.Time) error
	MarkVerified(id int64) error
	SetResetToken(id int64, token string, expiresAt time.Time) error
	CompleteInvite(id int64, name, passwordHash, verificationToken string, verificationExpires time.Time) error
	Deactivate(id int64) error

	// lockout policy
	IncrementFailedLogins(id int64, threshold int, lockFor time.Duration) (attempts int, lockUntil *time.Time, err error)
	ResetFailedLogins(id int64) error

	Count() (int, error)
	CountByRole(role string) (int, error)
}

type userRepository struct {
	DB *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			name, email, password_hash, role,
			is_verified, verification_token, verification_expires_at, is_active
		)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, TRUE)
		RETURNING id, email, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.VerificationToken,
		user.VerificationExpiresAt,
	).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
}

// CreateInvite inserts the shell record an invited manager completes later.
func (r *userRepository) CreateInvite(email, code string, expiresAt time.Time) (*models.User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, role, invite_code, invite_expires_at, is_active)
		VALUES ('', LOWER($1), '', $2, $3, $4, TRUE)
		RETURNING ` + userColumns
	u := &models.User{}
	if err := r.DB.Get(u, q, email, "manager", code, expiresAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) getOne(query string, args ...interface{}) (*models.User, error) {
	u := &models.User{}
	if err := r.DB.Get(u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(id int64) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`, email)
}

func (r *userRepository) GetByVerificationToken(token string) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token)
}

func (r *userRepository) GetByResetToken(token string) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token)
}

func (r *userRepository) UpdateProfile(id int64, name, email string) error {
	_, err := r.DB.Exec(
		`UPDATE users SET name=$1, email=LOWER($2), updated_at=NOW() WHERE id=$3`,
		name, email, id,
	)
	return err
}

func (r *userRepository) SetRole(id int64, role string) error {
	_, err := r.DB.Exec(`UPDATE users SET role=$1, updated_at=NOW() WHERE id=$2`, role, id)
	return err
}

// SetPassword also clears any outstanding reset token: the token is single-use.
func (r *userRepository) SetPassword(id int64, passwordHash string) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET password_hash=$1, reset_token=NULL, reset_expires_at=NULL, updated_at=NOW()
		WHERE id=$2
	`, passwordHash, id)
	return err
}

func (r *userRepository) SetRefreshToken(id int64, token *string) error {
	_, err := r.DB.Exec(`UPDATE users SET refresh_token=$1, updated_at=NOW() WHERE id=$2`, token, id)
	return err
}

func (r *userRepository) SetVerificationToken(id int64, token string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET verification_token=$1, verification_expires_at=$2, updated_at=NOW()
		WHERE id=$3
	`, token, expiresAt, id)
	return err
}

func (r *userRepository) MarkVerified(id int64) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET is_verified=TRUE, verification_token=NULL, verification_expires_at=NULL, updated_at=NOW()
		WHERE id=$1
	`, id)
	return err
}

func (r *userRepository) SetResetToken(id int64, token string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET reset_token=$1, reset_expires_at=$2, updated_at=NOW()
		WHERE id=$3
	`, token, expiresAt, id)
	return err
}

func (r *userRepository) CompleteInvite(id int64, name, passwordHash, verificationToken string, verificationExpires time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET name=$1, password_hash=$2,
		    invite_code=NULL, invite_expires_at=NULL,
		    verification_token=$3, verification_expires_at=$4,
		    updated_at=NOW()
		WHERE id=$5
	`, name, passwordHash, verificationToken, verificationExpires, id)
	return err
}

func (r *userRepository) Deactivate(id int64) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET is_active=FALSE, refresh_token=NULL, updated_at=NOW()
		WHERE id=$1
	`, id)
	return err
}

// IncrementFailedLogins bumps the counter in a single statement so two
// concurrent failures cannot under-count. The counter is pinned at the
// threshold; reaching it sets lock_until.
func (r *userRepository) IncrementFailedLogins(id int64, threshold int, lockFor time.Duration) (int, *time.Time, error) {
	const q = `
		UPDATE users
		SET failed_login_attempts = LEAST(failed_login_attempts + 1, $2),
		    lock_until = CASE
		        WHEN failed_login_attempts + 1 >= $2 THEN NOW() + $3 * INTERVAL '1 second'
		        ELSE lock_until
		    END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING failed_login_attempts, lock_until
	`
	var attempts int
	var lockUntil sql.NullTime
	if err := r.DB.QueryRow(q, id, threshold, int(lockFor.Seconds())).Scan(&attempts, &lockUntil); err != nil {
		return 0, nil, err
	}
	if lockUntil.Valid {
		t := lockUntil.Time
		return attempts, &t, nil
	}
	return attempts, nil, nil
}

func (r *userRepository) ResetFailedLogins(id int64) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET failed_login_attempts=0, lock_until=NULL, updated_at=NOW()
		WHERE id=$1
	`, id)
	return err
}

func (r *userRepository) Count() (int, error) {
	var c int
	err := r.DB.Get(&c, `SELECT COUNT(*) FROM users`)
	return c, err
}

func (r *userRepository) CountByRole(role string) (int, error) {
	var c int
	err := r.DB.Get(&c, `SELECT COUNT(*) FROM users WHERE role = $1`, role)
	return c, err
}
