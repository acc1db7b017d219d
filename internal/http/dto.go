package httpapi

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"siwes-backend-go/internal/models"
	"siwes-backend-go/internal/services"
	"siwes-backend-go/internal/validation"
)

const dateLayout = "2006-01-02"

func init() {
	validation.RegisterStructRule(reportDatesRule, CreateReportRequest{}, UpdateReportRequest{})
	validation.RegisterStructRule(studentDatesRule, CreateUserRequest{})
	validation.RegisterStructRule(logEntryDateRule, CreateLogEntryRequest{}, UpdateLogEntryRequest{})
}

// Cross-field rules. Field-format problems are left to the datetime tag;
// these only fire once the dates parse.

func reportDatesRule(sl validator.StructLevel) {
	var start, end string
	switch req := sl.Current().Interface().(type) {
	case CreateReportRequest:
		start, end = req.StartDate, req.EndDate
	case UpdateReportRequest:
		if req.StartDate == nil || req.EndDate == nil {
			return
		}
		start, end = *req.StartDate, *req.EndDate
	}
	checkDateOrder(sl, start, end)
}

func studentDatesRule(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateUserRequest)
	if req.Role != string(models.RoleStudent) {
		return
	}
	checkDateOrder(sl, req.StartDate, req.EndDate)
}

func checkDateOrder(sl validator.StructLevel, startRaw, endRaw string) {
	start, err1 := time.Parse(dateLayout, startRaw)
	end, err2 := time.Parse(dateLayout, endRaw)
	if err1 != nil || err2 != nil {
		return
	}
	if !validation.DateOrdered(start, end) {
		sl.ReportError(endRaw, "endDate", "EndDate", "afterstart", "")
	}
}

func logEntryDateRule(sl validator.StructLevel) {
	var raw string
	switch req := sl.Current().Interface().(type) {
	case CreateLogEntryRequest:
		raw = req.Date
	case UpdateLogEntryRequest:
		if req.Date == nil {
			return
		}
		raw = *req.Date
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return
	}
	if date.After(time.Now()) {
		sl.ReportError(raw, "date", "Date", "notfuture", "")
	}
}

// Requests.

type LoginRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	ExpectedRole string `json:"expectedRole" validate:"omitempty,oneof=student academic_supervisor industrial_supervisor admin"`
}

type DemoLoginRequest struct {
	Role string `json:"role" validate:"required,oneof=student academic_supervisor industrial_supervisor admin"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=255"`
}

type CreateUserRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Role         string  `json:"role" validate:"required,oneof=student academic_supervisor industrial_supervisor admin"`
	Password     string  `json:"password" validate:"omitempty,min=6,max=255"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,url"`
	// Student-only fields.
	MatricNumber string `json:"matricNumber" validate:"required_if=Role student,omitempty,min=5,max=20"`
	Department   string `json:"department" validate:"omitempty,min=2,max=100"`
	Level        string `json:"level" validate:"omitempty,oneof=100 200 300 400 500"`
	Company      string `json:"company" validate:"omitempty,min=2,max=200"`
	StartDate    string `json:"startDate" validate:"required_if=Role student,omitempty,datetime=2006-01-02"`
	EndDate      string `json:"endDate" validate:"required_if=Role student,omitempty,datetime=2006-01-02"`
}

type UpdateUserRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email        *string `json:"email" validate:"omitempty,email"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,url"`
	IsActive     *bool   `json:"isActive"`
}

// UpdateProfileRequest lets an admin adjust a student's placement details,
// including overriding either supervisor assignment directly.
type UpdateProfileRequest struct {
	Department             *string `json:"department" validate:"omitempty,min=2,max=100"`
	Level                  *string `json:"level" validate:"omitempty,oneof=100 200 300 400 500"`
	Company                *string `json:"company" validate:"omitempty,min=2,max=200"`
	AcademicSupervisorID   *string `json:"academicSupervisorId"`
	IndustrialSupervisorID *string `json:"industrialSupervisorId"`
	StartDate              *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate                *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	IsActive               *bool   `json:"isActive"`
}

type AttachmentDTO struct {
	Filename     string    `json:"filename" validate:"required"`
	OriginalName string    `json:"originalName" validate:"required"`
	Size         int64     `json:"size" validate:"gte=0"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type CreateLogEntryRequest struct {
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Content     string          `json:"content" validate:"required,min=10,max=5000"`
	Attachments []AttachmentDTO `json:"attachments" validate:"omitempty,dive"`
	Tags        []string        `json:"tags"`
	Mood        *string         `json:"mood" validate:"omitempty,oneof=excellent good neutral challenging difficult"`
	HoursWorked *float64        `json:"hoursWorked" validate:"omitempty,gte=0,lte=24"`
	Type        string          `json:"type" validate:"omitempty,oneof=regular quick weekly_summary"`
	IsPrivate   bool            `json:"isPrivate"`
}

type UpdateLogEntryRequest struct {
	Date        *string         `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Content     *string         `json:"content" validate:"omitempty,min=10,max=5000"`
	Attachments []AttachmentDTO `json:"attachments" validate:"omitempty,dive"`
	Tags        []string        `json:"tags"`
	Mood        *string         `json:"mood" validate:"omitempty,oneof=excellent good neutral challenging difficult"`
	HoursWorked *float64        `json:"hoursWorked" validate:"omitempty,gte=0,lte=24"`
	Type        *string         `json:"type" validate:"omitempty,oneof=regular quick weekly_summary"`
	IsPrivate   *bool           `json:"isPrivate"`
}

type CreateReportRequest struct {
	WeekNumber int    `json:"weekNumber" validate:"required,gte=1,lte=52"`
	StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Content    string `json:"content" validate:"required,min=50,max=10000"`
	Status     string `json:"status" validate:"omitempty,oneof=draft submitted"`
}

type UpdateReportRequest struct {
	WeekNumber *int    `json:"weekNumber" validate:"omitempty,gte=1,lte=52"`
	StartDate  *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Content    *string `json:"content" validate:"omitempty,min=50,max=10000"`
	Status     *string `json:"status" validate:"omitempty,oneof=draft submitted"`
}

type ReviewRequest struct {
	SupervisorFeedback string  `json:"supervisorFeedback" validate:"required,min=10,max=2000"`
	Grade              *string `json:"grade" validate:"omitempty,oneof=A B C D F"`
}

type IndustrialCommentRequest struct {
	IndustrialSupervisorFeedback string `json:"industrialSupervisorFeedback" validate:"required,min=10,max=2000"`
}

type CreateNotificationRequest struct {
	UserID            *string `json:"userId"`
	Role              *string `json:"role" validate:"omitempty,oneof=student academic_supervisor industrial_supervisor admin"`
	Title             string  `json:"title" validate:"required,min=1,max=200"`
	Message           string  `json:"message" validate:"required,min=1,max=1000"`
	Type              string  `json:"type" validate:"omitempty,oneof=info success warning error reminder"`
	Priority          string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	RelatedEntityType *string `json:"relatedEntityType" validate:"omitempty,oneof=log_entry weekly_report user system"`
	RelatedEntityID   *string `json:"relatedEntityId"`
	ActionURL         *string `json:"actionUrl" validate:"omitempty,url"`
}

// Responses.

type StudentProfileDTO struct {
	ID                     string  `json:"id"`
	UserID                 string  `json:"userId"`
	MatricNumber           string  `json:"matricNumber"`
	Department             string  `json:"department"`
	Level                  string  `json:"level"`
	Company                string  `json:"company"`
	AcademicSupervisorID   *string `json:"academicSupervisorId"`
	IndustrialSupervisorID *string `json:"industrialSupervisorId"`
	StartDate              string  `json:"startDate"`
	EndDate                string  `json:"endDate"`
	IsActive               bool    `json:"isActive"`
}

type UserDTO struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Role           models.Role        `json:"role"`
	ProfileImage   *string            `json:"profileImage,omitempty"`
	IsActive       bool               `json:"isActive"`
	LastLoginAt    *time.Time         `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	StudentProfile *StudentProfileDTO `json:"studentProfile,omitempty"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func newPagination(total, page, limit int) Pagination {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

func profileDTO(profile models.StudentProfile) *StudentProfileDTO {
	return &StudentProfileDTO{
		ID:                     profile.ID,
		UserID:                 profile.UserID,
		MatricNumber:           profile.MatricNumber,
		Department:             profile.Department,
		Level:                  profile.Level,
		Company:                profile.Company,
		AcademicSupervisorID:   profile.AcademicSupervisorID,
		IndustrialSupervisorID: profile.IndustrialSupervisorID,
		StartDate:              profile.StartDate.Format(dateLayout),
		EndDate:                profile.EndDate.Format(dateLayout),
		IsActive:               profile.IsActive,
	}
}

type LogEntryDTO struct {
	ID          string          `json:"id"`
	StudentID   string          `json:"studentId"`
	Date        string          `json:"date"`
	Content     string          `json:"content"`
	Attachments json.RawMessage `json:"attachments"`
	Tags        json.RawMessage `json:"tags"`
	Mood        *string         `json:"mood,omitempty"`
	HoursWorked *float64        `json:"hoursWorked,omitempty"`
	Type        string          `json:"type"`
	IsPrivate   bool            `json:"isPrivate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func logEntryDTO(entry models.LogEntry) LogEntryDTO {
	return LogEntryDTO{
		ID:          entry.ID,
		StudentID:   entry.StudentID,
		Date:        entry.EntryDate.Format(dateLayout),
		Content:     entry.Content,
		Attachments: rawJSON(entry.Attachments),
		Tags:        rawJSON(entry.Tags),
		Mood:        entry.Mood,
		HoursWorked: entry.HoursWorked,
		Type:        entry.EntryType,
		IsPrivate:   entry.IsPrivate,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

func rawJSON(data []byte) json.RawMessage {
	if len(data) == 0 {
		return json.RawMessage("[]")
	}
	return json.RawMessage(data)
}

type WeeklyReportDTO struct {
	ID                           string              `json:"id"`
	StudentID                    string              `json:"studentId"`
	WeekNumber                   int                 `json:"weekNumber"`
	StartDate                    string              `json:"startDate"`
	EndDate                      string              `json:"endDate"`
	Content                      string              `json:"content"`
	Status                       models.ReportStatus `json:"status"`
	SupervisorFeedback           *string             `json:"supervisorFeedback,omitempty"`
	AcademicFeedback             *string             `json:"academicFeedback,omitempty"`
	AcademicCommentDate          *time.Time          `json:"academicCommentDate,omitempty"`
	IndustrialSupervisorFeedback *string             `json:"industrialSupervisorFeedback,omitempty"`
	IndustrialSupervisorID       *string             `json:"industrialSupervisorId,omitempty"`
	IndustrialCommentDate        *time.Time          `json:"industrialCommentDate,omitempty"`
	Grade                        *string             `json:"grade,omitempty"`
	SubmittedAt                  *time.Time          `json:"submittedAt,omitempty"`
	ReviewedAt                   *time.Time          `json:"reviewedAt,omitempty"`
	CreatedAt                    time.Time           `json:"createdAt"`
	UpdatedAt                    time.Time           `json:"updatedAt"`
}

func reportDTO(report models.WeeklyReport) WeeklyReportDTO {
	return WeeklyReportDTO{
		ID:                           report.ID,
		StudentID:                    report.StudentID,
		WeekNumber:                   report.WeekNumber,
		StartDate:                    report.StartDate.Format(dateLayout),
		EndDate:                      report.EndDate.Format(dateLayout),
		Content:                      report.Content,
		Status:                       report.Status,
		SupervisorFeedback:           report.SupervisorFeedback,
		AcademicFeedback:             report.AcademicFeedback,
		AcademicCommentDate:          report.AcademicCommentDate,
		IndustrialSupervisorFeedback: report.IndustrialSupervisorFeedback,
		IndustrialSupervisorID:       report.IndustrialSupervisorID,
		IndustrialCommentDate:        report.IndustrialCommentDate,
		Grade:                        report.Grade,
		SubmittedAt:                  report.SubmittedAt,
		ReviewedAt:                   report.ReviewedAt,
		CreatedAt:                    report.CreatedAt,
		UpdatedAt:                    report.UpdatedAt,
	}
}

type NotificationDTO struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	Title             string     `json:"title"`
	Message           string     `json:"message"`
	Type              string     `json:"type"`
	Priority          string     `json:"priority"`
	IsRead            bool       `json:"isRead"`
	ReadAt            *time.Time `json:"readAt,omitempty"`
	RelatedEntityType *string    `json:"relatedEntityType,omitempty"`
	RelatedEntityID   *string    `json:"relatedEntityId,omitempty"`
	ActionURL         *string    `json:"actionUrl,omitempty"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func notificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:                n.ID,
		UserID:            n.UserID,
		Title:             n.Title,
		Message:           n.Message,
		Type:              n.Type,
		Priority:          n.Priority,
		IsRead:            n.IsRead,
		ReadAt:            n.ReadAt,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
		ActionURL:         n.ActionURL,
		ExpiresAt:         n.ExpiresAt,
		CreatedAt:         n.CreatedAt,
	}
}

// buildUserDTO assembles a user with its student profile when one exists.
func buildUserDTO(db *sqlx.DB, user models.User) UserDTO {
	dto := UserDTO{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		ProfileImage: user.ProfileImage,
		IsActive:     user.IsActive,
		LastLoginAt:  user.LastLoginAt,
		CreatedAt:    user.CreatedAt,
	}
	if user.Role.IsStudent() {
		if profile, err := services.GetStudentProfile(db, user.ID); err == nil {
			dto.StudentProfile = profileDTO(profile)
		}
	}
	return dto
}
