package models

// Role is a user's single capability tag. All authorization decisions go
// through these predicates instead of ad hoc string comparisons.
type Role string

const (
	RoleStudent              Role = "student"
	RoleAcademicSupervisor   Role = "academic_supervisor"
	RoleIndustrialSupervisor Role = "industrial_supervisor"
	RoleAdmin                Role = "admin"
)

var AllRoles = []Role{RoleStudent, RoleAcademicSupervisor, RoleIndustrialSupervisor, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAcademicSupervisor, RoleIndustrialSupervisor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) IsStudent() bool {
	return r == RoleStudent
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) IsSupervisor() bool {
	return r == RoleAcademicSupervisor || r == RoleIndustrialSupervisor
}

func (r Role) IsAdminOrSupervisor() bool {
	return r.IsAdmin() || r.IsSupervisor()
}

// SupervisorProfileColumn names the student_profiles column holding the
// assignment for a supervisor role. Empty for non-supervisor roles.
func (r Role) SupervisorProfileColumn() string {
	switch r {
	case RoleAcademicSupervisor:
		return "academic_supervisor_id"
	case RoleIndustrialSupervisor:
		return "industrial_supervisor_id"
	}
	return ""
}

// ReportStatus is the weekly report lifecycle stage.
type ReportStatus string

const (
	StatusDraft     ReportStatus = "draft"
	StatusSubmitted ReportStatus = "submitted"
	StatusReviewed  ReportStatus = "reviewed"
	StatusApproved  ReportStatus = "approved"
	StatusRejected  ReportStatus = "rejected"
)

// Editable reports whether a student may still change the report's fields.
// Once a supervisor has reviewed it the report is locked.
func (s ReportStatus) Editable() bool {
	return s == StatusDraft || s == StatusSubmitted
}
