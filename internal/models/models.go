package models

import "time"

type User struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         Role       `db:"role"`
	ProfileImage *string    `db:"profile_image"`
	IsActive     bool       `db:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type StudentProfile struct {
	ID                     string    `db:"id"`
	UserID                 string    `db:"user_id"`
	MatricNumber           string    `db:"matric_number"`
	Department             string    `db:"department"`
	Level                  string    `db:"level"`
	Company                string    `db:"company"`
	AcademicSupervisorID   *string   `db:"academic_supervisor_id"`
	IndustrialSupervisorID *string   `db:"industrial_supervisor_id"`
	StartDate              time.Time `db:"start_date"`
	EndDate                time.Time `db:"end_date"`
	CompanyAddress         *string   `db:"company_address"`
	CompanyPhone           *string   `db:"company_phone"`
	CompanyEmail           *string   `db:"company_email"`
	IsActive               bool      `db:"is_active"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

type LogEntry struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	EntryDate   time.Time `db:"entry_date"`
	Content     string    `db:"content"`
	Attachments []byte    `db:"attachments"`
	Tags        []byte    `db:"tags"`
	Mood        *string   `db:"mood"`
	HoursWorked *float64  `db:"hours_worked"`
	EntryType   string    `db:"entry_type"`
	IsPrivate   bool      `db:"is_private"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type WeeklyReport struct {
	ID                           string       `db:"id"`
	StudentID                    string       `db:"student_id"`
	WeekNumber                   int          `db:"week_number"`
	StartDate                    time.Time    `db:"start_date"`
	EndDate                      time.Time    `db:"end_date"`
	Content                      string       `db:"content"`
	Status                       ReportStatus `db:"status"`
	SupervisorFeedback           *string      `db:"supervisor_feedback"`
	AcademicFeedback             *string      `db:"academic_feedback"`
	AcademicCommentDate          *time.Time   `db:"academic_comment_date"`
	IndustrialSupervisorFeedback *string      `db:"industrial_supervisor_feedback"`
	IndustrialSupervisorID       *string      `db:"industrial_supervisor_id"`
	IndustrialCommentDate        *time.Time   `db:"industrial_comment_date"`
	Grade                        *string      `db:"grade"`
	SubmittedAt                  *time.Time   `db:"submitted_at"`
	ReviewedAt                   *time.Time   `db:"reviewed_at"`
	CreatedAt                    time.Time    `db:"created_at"`
	UpdatedAt                    time.Time    `db:"updated_at"`
}

type Notification struct {
	ID                string     `db:"id"`
	UserID            string     `db:"user_id"`
	Title             string     `db:"title"`
	Message           string     `db:"message"`
	Type              string     `db:"notification_type"`
	Priority          string     `db:"priority"`
	IsRead            bool       `db:"is_read"`
	ReadAt            *time.Time `db:"read_at"`
	RelatedEntityType *string    `db:"related_entity_type"`
	RelatedEntityID   *string    `db:"related_entity_id"`
	ActionURL         *string    `db:"action_url"`
	ExpiresAt         *time.Time `db:"expires_at"`
	CreatedAt         time.Time  `db:"created_at"`
}

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	ProcessRSSBytes   int64     `db:"process_rss_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
}
