package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"siwes-backend-go/internal/models"
)

var ErrDuplicateMatric = ErrConflict("Student with this matric number already exists")

// NewStudentInput is everything needed to enroll a student: the account
// fields plus the placement profile.
type NewStudentInput struct {
	Name         string
	Email        string
	PasswordHash string
	ProfileImage *string
	MatricNumber string
	Department   string
	Level        string
	Company      string
	StartDate    time.Time
	EndDate      time.Time
}

// CreateStudent creates the user account, its student profile and both
// supervisor assignments in a single transaction, so a failure leaves
// neither an orphan user nor a half-assigned profile behind.
func CreateStudent(db *sqlx.DB, input NewStudentInput) (models.User, models.StudentProfile, error) {
	tx, err := db.Beginx()
	if err != nil {
		return models.User{}, models.StudentProfile{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         models.RoleStudent,
		ProfileImage: input.ProfileImage,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = tx.Exec(`
INSERT INTO users (id, name, email, password_hash, role, profile_image, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,TRUE,$7,$7)
`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.ProfileImage, now)
	if isUniqueViolation(err) {
		return models.User{}, models.StudentProfile{}, ErrConflict("User with this email already exists")
	}
	if err != nil {
		return models.User{}, models.StudentProfile{}, err
	}

	academicID, err := AssignSupervisor(tx, models.RoleAcademicSupervisor)
	if err != nil {
		return models.User{}, models.StudentProfile{}, err
	}
	industrialID, err := AssignSupervisor(tx, models.RoleIndustrialSupervisor)
	if err != nil {
		return models.User{}, models.StudentProfile{}, err
	}

	profile := models.StudentProfile{
		ID:                     uuid.NewString(),
		UserID:                 user.ID,
		MatricNumber:           input.MatricNumber,
		Department:             input.Department,
		Level:                  input.Level,
		Company:                input.Company,
		AcademicSupervisorID:   academicID,
		IndustrialSupervisorID: industrialID,
		StartDate:              input.StartDate,
		EndDate:                input.EndDate,
		IsActive:               true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	_, err = tx.Exec(`
INSERT INTO student_profiles (
  id, user_id, matric_number, department, level, company,
  academic_supervisor_id, industrial_supervisor_id, start_date, end_date,
  is_active, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,TRUE,$11,$11)
`, profile.ID, profile.UserID, profile.MatricNumber, profile.Department, profile.Level,
		profile.Company, profile.AcademicSupervisorID, profile.IndustrialSupervisorID,
		profile.StartDate, profile.EndDate, now)
	if isUniqueViolation(err) {
		return models.User{}, models.StudentProfile{}, ErrDuplicateMatric
	}
	if err != nil {
		return models.User{}, models.StudentProfile{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, models.StudentProfile{}, err
	}
	return user, profile, nil
}

// ProfileUpdate carries admin-editable profile fields. Supervisor overrides
// bypass the round-robin counter.
type ProfileUpdate struct {
	Department             *string
	Level                  *string
	Company                *string
	AcademicSupervisorID   *string
	IndustrialSupervisorID *string
	StartDate              *time.Time
	EndDate                *time.Time
	IsActive               *bool
}

func UpdateStudentProfile(db *sqlx.DB, userID string, upd ProfileUpdate) (models.StudentProfile, error) {
	profile, err := GetStudentProfile(db, userID)
	if err != nil {
		return models.StudentProfile{}, err
	}
	if upd.Department != nil {
		profile.Department = *upd.Department
	}
	if upd.Level != nil {
		profile.Level = *upd.Level
	}
	if upd.Company != nil {
		profile.Company = *upd.Company
	}
	if upd.AcademicSupervisorID != nil {
		profile.AcademicSupervisorID = upd.AcademicSupervisorID
	}
	if upd.IndustrialSupervisorID != nil {
		profile.IndustrialSupervisorID = upd.IndustrialSupervisorID
	}
	if upd.StartDate != nil {
		profile.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		profile.EndDate = *upd.EndDate
	}
	if upd.IsActive != nil {
		profile.IsActive = *upd.IsActive
	}
	if !profile.EndDate.After(profile.StartDate) {
		return models.StudentProfile{}, ErrBadRequest("End date must be after start date")
	}
	profile.UpdatedAt = time.Now().UTC()
	_, err = db.Exec(`
UPDATE student_profiles SET
  department = $2, level = $3, company = $4,
  academic_supervisor_id = $5, industrial_supervisor_id = $6,
  start_date = $7, end_date = $8, is_active = $9, updated_at = $10
WHERE user_id = $1
`, userID, profile.Department, profile.Level, profile.Company,
		profile.AcademicSupervisorID, profile.IndustrialSupervisorID,
		profile.StartDate, profile.EndDate, profile.IsActive, profile.UpdatedAt)
	return profile, err
}
