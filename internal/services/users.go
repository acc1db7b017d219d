package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"siwes-backend-go/internal/models"
)

const userColumns = `id, name, email, password_hash, role, profile_image, is_active, last_login_at, created_at, updated_at`

// GetUserByID looks up a user by primary key.
func GetUserByID(db sqlx.Queryer, id string) (models.User, error) {
	var user models.User
	err := sqlx.Get(db, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound("User not found")
	}
	return user, err
}

// GetUserByEmail looks up a user by email, case-insensitively.
func GetUserByEmail(db sqlx.Queryer, email string) (models.User, error) {
	var user models.User
	err := sqlx.Get(db, &user, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound("User not found")
	}
	return user, err
}

// FirstActiveByRole returns the oldest active account with the given role.
// Backs the demo-login convenience endpoint.
func FirstActiveByRole(db sqlx.Queryer, role models.Role) (models.User, error) {
	var user models.User
	err := sqlx.Get(db, &user, `
SELECT `+userColumns+` FROM users
WHERE role = $1 AND is_active = TRUE
ORDER BY created_at ASC
LIMIT 1`, role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound("No " + strings.ReplaceAll(string(role), "_", " ") + " user found")
	}
	return user, err
}

// EmailTaken reports whether another user already owns the email address.
// excludeID may be empty on create.
func EmailTaken(db sqlx.Queryer, email, excludeID string) (bool, error) {
	var exists bool
	err := sqlx.Get(db, &exists, `
SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1 AND id <> $2)`,
		strings.ToLower(strings.TrimSpace(email)), excludeID)
	return exists, err
}

func SetLastLogin(db *sqlx.DB, userID string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`, now, userID)
	return err
}

func SetPasswordHash(db *sqlx.DB, userID, hash string) error {
	_, err := db.Exec(`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, time.Now().UTC(), userID)
	return err
}

// GetStudentProfile returns the profile owned by the given student user.
func GetStudentProfile(db sqlx.Queryer, userID string) (models.StudentProfile, error) {
	var profile models.StudentProfile
	err := sqlx.Get(db, &profile, `SELECT * FROM student_profiles WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StudentProfile{}, ErrNotFound("Student profile not found")
	}
	return profile, err
}

// EnsureAdminUser seeds a default admin account on first boot so the system
// is reachable before any users exist. No-op once any admin is present.
func EnsureAdminUser(db *sqlx.DB, email, password string) error {
	var exists bool
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE role = 'admin')`); err != nil {
		return err
	}
	if exists {
		return nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`
INSERT INTO users (id, name, email, password_hash, role, is_active, created_at, updated_at)
VALUES ($1, 'System Administrator', $2, $3, 'admin', TRUE, $4, $4)
ON CONFLICT DO NOTHING
`, uuid.NewString(), strings.ToLower(email), hash, now)
	return err
}

// DeleteUser removes a non-admin user. Admin accounts cannot be deleted.
func DeleteUser(db *sqlx.DB, id string) error {
	user, err := GetUserByID(db, id)
	if err != nil {
		return err
	}
	if user.Role.IsAdmin() {
		return ErrBadRequest("Cannot delete admin users")
	}
	_, err = db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return err
}
