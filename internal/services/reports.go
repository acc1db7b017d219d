package services

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"siwes-backend-go/internal/models"
)

var (
	ErrReportNotFound = ErrNotFound("Weekly report not found")
	ErrDuplicateWeek  = ErrConflict("Report for this week already exists")
	ErrReportLocked   = ErrConflict("Cannot edit reviewed reports")
	ErrDeleteNonDraft = ErrConflict("Can only delete draft reports")
	ErrNotAssignedTo  = ErrForbidden("You are not assigned as supervisor for this student")
	ErrNotReportOwner = ErrForbidden("Access denied")
)

// The lifecycle functions below are pure: they take a report value and
// return the transitioned copy, leaving persistence to the caller.

// ReportUpdate carries the fields a student may change on a report.
type ReportUpdate struct {
	WeekNumber *int
	StartDate  *time.Time
	EndDate    *time.Time
	Content    *string
	Status     *models.ReportStatus
}

// ApplyReportUpdate transitions a draft or submitted report. Reviewed and
// later reports are immutable to the student.
func ApplyReportUpdate(report models.WeeklyReport, upd ReportUpdate, now time.Time) (models.WeeklyReport, error) {
	if !report.Status.Editable() {
		return models.WeeklyReport{}, ErrReportLocked
	}
	if upd.WeekNumber != nil {
		report.WeekNumber = *upd.WeekNumber
	}
	if upd.StartDate != nil {
		report.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		report.EndDate = *upd.EndDate
	}
	if upd.Content != nil {
		report.Content = *upd.Content
	}
	if upd.Status != nil {
		if *upd.Status != models.StatusDraft && *upd.Status != models.StatusSubmitted {
			return models.WeeklyReport{}, ErrReportLocked
		}
		if report.Status == models.StatusDraft && *upd.Status == models.StatusSubmitted {
			report.SubmittedAt = &now
		}
		report.Status = *upd.Status
	}
	if !report.EndDate.After(report.StartDate) {
		return models.WeeklyReport{}, ErrBadRequest("End date must be after start date")
	}
	report.UpdatedAt = now
	return report, nil
}

// SubmitReport moves a draft to submitted and stamps the submission time.
func SubmitReport(report models.WeeklyReport, now time.Time) (models.WeeklyReport, error) {
	if report.Status != models.StatusDraft {
		return models.WeeklyReport{}, ErrConflict("Only draft reports can be submitted")
	}
	report.Status = models.StatusSubmitted
	report.SubmittedAt = &now
	report.UpdatedAt = now
	return report, nil
}

// ApplyAcademicReview records the academic supervisor's feedback. The report
// becomes reviewed; a grade promotes it straight to approved.
func ApplyAcademicReview(report models.WeeklyReport, feedback string, grade *string, now time.Time) (models.WeeklyReport, error) {
	report.AcademicFeedback = &feedback
	report.SupervisorFeedback = &feedback
	report.AcademicCommentDate = &now
	report.ReviewedAt = &now
	if grade != nil {
		report.Grade = grade
		report.Status = models.StatusApproved
	} else {
		report.Status = models.StatusReviewed
	}
	report.UpdatedAt = now
	return report, nil
}

// ApplyIndustrialComment records workplace feedback without changing status.
func ApplyIndustrialComment(report models.WeeklyReport, feedback, supervisorID string, now time.Time) (models.WeeklyReport, error) {
	report.IndustrialSupervisorFeedback = &feedback
	report.IndustrialSupervisorID = &supervisorID
	report.IndustrialCommentDate = &now
	report.UpdatedAt = now
	return report, nil
}

// CanDeleteReport enforces the deletion rule: students may delete only their
// own drafts, admins may delete anything.
func CanDeleteReport(report models.WeeklyReport, actorID string, actorRole models.Role) error {
	if actorRole.IsAdmin() {
		return nil
	}
	if report.StudentID != actorID {
		return ErrNotReportOwner
	}
	if report.Status != models.StatusDraft {
		return ErrDeleteNonDraft
	}
	return nil
}

// Store functions.

const reportColumns = `id, student_id, week_number, start_date, end_date, content, status,
supervisor_feedback, academic_feedback, academic_comment_date,
industrial_supervisor_feedback, industrial_supervisor_id, industrial_comment_date,
grade, submitted_at, reviewed_at, created_at, updated_at`

func GetReport(db sqlx.Queryer, id string) (models.WeeklyReport, error) {
	var report models.WeeklyReport
	err := sqlx.Get(db, &report, `SELECT `+reportColumns+` FROM weekly_reports WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WeeklyReport{}, ErrReportNotFound
	}
	return report, err
}

// WeekTaken reports whether the student already has a report for the week,
// not counting excludeID.
func WeekTaken(db sqlx.Queryer, studentID string, week int, excludeID string) (bool, error) {
	var exists bool
	err := sqlx.Get(db, &exists, `
SELECT EXISTS(
  SELECT 1 FROM weekly_reports
  WHERE student_id = $1 AND week_number = $2 AND id <> $3
)`, studentID, week, excludeID)
	return exists, err
}

func InsertReport(db *sqlx.DB, report models.WeeklyReport) (models.WeeklyReport, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	_, err := db.Exec(`
INSERT INTO weekly_reports (
  id, student_id, week_number, start_date, end_date, content, status,
  submitted_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
`, report.ID, report.StudentID, report.WeekNumber, report.StartDate, report.EndDate,
		report.Content, report.Status, report.SubmittedAt, report.CreatedAt)
	if isUniqueViolation(err) {
		return models.WeeklyReport{}, ErrDuplicateWeek
	}
	if err != nil {
		return models.WeeklyReport{}, err
	}
	return report, nil
}

func SaveReport(db *sqlx.DB, report models.WeeklyReport) error {
	_, err := db.Exec(`
UPDATE weekly_reports SET
  week_number = $2, start_date = $3, end_date = $4, content = $5, status = $6,
  supervisor_feedback = $7, academic_feedback = $8, academic_comment_date = $9,
  industrial_supervisor_feedback = $10, industrial_supervisor_id = $11,
  industrial_comment_date = $12, grade = $13, submitted_at = $14,
  reviewed_at = $15, updated_at = $16
WHERE id = $1
`, report.ID, report.WeekNumber, report.StartDate, report.EndDate, report.Content,
		report.Status, report.SupervisorFeedback, report.AcademicFeedback,
		report.AcademicCommentDate, report.IndustrialSupervisorFeedback,
		report.IndustrialSupervisorID, report.IndustrialCommentDate, report.Grade,
		report.SubmittedAt, report.ReviewedAt, report.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateWeek
	}
	return err
}

func DeleteReport(db *sqlx.DB, id string) error {
	_, err := db.Exec(`DELETE FROM weekly_reports WHERE id = $1`, id)
	return err
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	StudentID string
	Status    string
	Page      int
	Limit     int
}

func ListReports(db *sqlx.DB, filter ReportFilter) ([]models.WeeklyReport, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		where += " AND student_id = $" + itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += " AND status = $" + itoa(len(args))
	}
	var total int
	if err := db.Get(&total, `SELECT count(*) FROM weekly_reports `+where, args...); err != nil {
		return nil, 0, err
	}
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	reports := []models.WeeklyReport{}
	err := db.Select(&reports, `
SELECT `+reportColumns+` FROM weekly_reports `+where+`
ORDER BY week_number DESC, created_at DESC
LIMIT $`+itoa(len(args)-1)+` OFFSET $`+itoa(len(args)), args...)
	return reports, total, err
}

// PendingReports returns submitted reports awaiting a supervisor. For
// supervisors the queue is scoped to students assigned to them; admins see
// the whole queue.
func PendingReports(db *sqlx.DB, supervisorID string, role models.Role) ([]models.WeeklyReport, error) {
	reports := []models.WeeklyReport{}
	column := role.SupervisorProfileColumn()
	if column == "" {
		err := db.Select(&reports, `
SELECT `+reportColumns+` FROM weekly_reports
WHERE status = 'submitted'
ORDER BY created_at ASC`)
		return reports, err
	}
	err := db.Select(&reports, `
SELECT `+reportColumns+` FROM weekly_reports r
WHERE r.status = 'submitted'
  AND r.student_id IN (SELECT user_id FROM student_profiles WHERE `+column+` = $1)
ORDER BY r.created_at ASC`, supervisorID)
	return reports, err
}

// SupervisesStudent reports whether the acting supervisor is assigned to the
// student for their role's slot.
func SupervisesStudent(db sqlx.Queryer, supervisorID, studentID string, role models.Role) (bool, error) {
	column := role.SupervisorProfileColumn()
	if column == "" {
		return false, nil
	}
	var assigned bool
	err := sqlx.Get(db, &assigned, `
SELECT EXISTS(
  SELECT 1 FROM student_profiles WHERE user_id = $1 AND `+column+` = $2
)`, studentID, supervisorID)
	return assigned, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
