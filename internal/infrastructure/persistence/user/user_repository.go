// Package user provides the concrete SQL-based implementation of
// the user domain repository.
package user

import (
	"database/sql"
	"time"

	"github.com/satyamraj1643/pine/internal/domain/user"
	"github.com/satyamraj1643/pine/internal/infrastructure/observability/logging"
	"github.com/satyamraj1643/pine/internal/infrastructure/persistence/database"
)

// SQLUserRepository is the SQL-based implementation of the user Repository.
type SQLUserRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserRepository creates a new instance of the repository.
func NewSQLUserRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLUserRepository {
	return &SQLUserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, email, name, phone, profile_picture, password_hash,
	       is_verified, is_staff, is_superuser, otp, otp_expiry, created_at, changed`

// FindByID retrieves a User by their unique identifier.
func (r *SQLUserRepository) FindByID(id int64) (*user.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user by ID", "id", id)

	row := r.db.QueryRow(query, id)
	u, err := r.scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Database().Debug("User not found by ID", "id", id)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load user by ID", "error", err.Error(), "id", id)
		return nil, err
	}

	r.logger.Database().Info("User loaded by ID", "id", id, "duration", time.Since(start))
	return u, nil
}

// FindByEmail retrieves a User by their email address.
func (r *SQLUserRepository) FindByEmail(email string) (*user.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user by email", "email", email)

	row := r.db.QueryRow(query, email)
	u, err := r.scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Database().Debug("User not found by email", "email", email)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load user by email", "error", err.Error(), "email", email)
		return nil, err
	}

	r.logger.Database().Info("User loaded by email", "email", email, "userId", u.ID, "duration", time.Since(start))
	return u, nil
}

// Store saves a new User to the database and returns the assigned id.
func (r *SQLUserRepository) Store(u *user.User) (int64, error) {
	const query = `
		INSERT INTO users (email, name, phone, profile_picture, password_hash,
		                   is_verified, is_staff, is_superuser, otp, otp_expiry, created_at, changed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing user insert", "email", u.Email)

	result, err := r.db.Exec(
		query,
		u.Email,
		u.Name,
		u.Phone,
		u.ProfilePicture,
		u.PasswordHash,
		u.IsVerified,
		u.IsStaff,
		u.IsSuperuser,
		u.OTP,
		u.OTPExpiry,
		u.CreatedAt,
		u.Changed,
	)
	if err != nil {
		r.logger.Database().Error("User insert failed", "error", err.Error(), "email", u.Email)
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = id

	r.logger.Database().Info("User insert completed", "id", id, "email", u.Email, "duration", time.Since(start))
	return id, nil
}

// Update modifies an existing User in the database.
func (r *SQLUserRepository) Update(u *user.User) error {
	const query = `
		UPDATE users
		SET email = ?, name = ?, phone = ?, profile_picture = ?, password_hash = ?,
		    is_verified = ?, is_staff = ?, is_superuser = ?, otp = ?, otp_expiry = ?, changed = ?
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing user update", "id", u.ID, "email", u.Email)

	_, err := r.db.Exec(
		query,
		u.Email,
		u.Name,
		u.Phone,
		u.ProfilePicture,
		u.PasswordHash,
		u.IsVerified,
		u.IsStaff,
		u.IsSuperuser,
		u.OTP,
		u.OTPExpiry,
		time.Now().UTC(),
		u.ID,
	)
	if err != nil {
		r.logger.Database().Error("User update failed", "error", err.Error(), "id", u.ID)
		return err
	}

	r.logger.Database().Info("User update completed", "id", u.ID, "duration", time.Since(start))
	return nil
}

// scanUser converts a database row into a User entity.
func (r *SQLUserRepository) scanUser(row *sql.Row) (*user.User, error) {
	var u user.User
	var otpExpiry sql.NullTime

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Phone,
		&u.ProfilePicture,
		&u.PasswordHash,
		&u.IsVerified,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.OTP,
		&otpExpiry,
		&u.CreatedAt,
		&u.Changed,
	)
	if err != nil {
		return nil, err
	}

	if otpExpiry.Valid {
		u.OTPExpiry = otpExpiry.Time
	}

	return &u, nil
}
