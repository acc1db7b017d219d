package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"siwes-backend-go/internal/models"
	"siwes-backend-go/internal/services"
	"siwes-backend-go/internal/validation"
)

type ReportListResponse struct {
	Reports    []WeeklyReportDTO `json:"reports"`
	Pagination Pagination        `json:"pagination"`
}

// canReadReport mirrors the log entry rule, minus the privacy flag: owners,
// admins and assigned supervisors.
func (s *Server) canReadReport(identity Identity, report models.WeeklyReport) (bool, error) {
	if identity.Role.IsAdmin() || report.StudentID == identity.ID {
		return true, nil
	}
	if !identity.Role.IsSupervisor() {
		return false, nil
	}
	return services.SupervisesStudent(s.DB, identity.ID, report.StudentID, identity.Role)
}

func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	page, limit := parsePageLimit(r)
	filter := services.ReportFilter{
		StudentID: r.URL.Query().Get("studentId"),
		Status:    r.URL.Query().Get("status"),
		Page:      page,
		Limit:     limit,
	}
	switch {
	case identity.Role.IsStudent():
		filter.StudentID = identity.ID
	case identity.Role.IsAdmin():
	default:
		if filter.StudentID == "" {
			WriteError(w, http.StatusBadRequest, "studentId query parameter is required")
			return
		}
		assigned, err := services.SupervisesStudent(s.DB, identity.ID, filter.StudentID, identity.Role)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if !assigned {
			WriteError(w, http.StatusForbidden, "You are not assigned as supervisor for this student")
			return
		}
	}
	reports, total, err := services.ListReports(s.DB, filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ReportListResponse{
		Reports:    reportDTOs(reports),
		Pagination: newPagination(total, page, limit),
	})
}

// StudentReports serves a supervisor's (or admin's) view of one student's
// reports.
func (s *Server) StudentReports(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	studentID := chi.URLParam(r, "studentId")
	if !identity.Role.IsAdmin() && identity.ID != studentID {
		assigned, err := services.SupervisesStudent(s.DB, identity.ID, studentID, identity.Role)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if !assigned {
			WriteError(w, http.StatusForbidden, "You are not assigned as supervisor for this student")
			return
		}
	}
	page, limit := parsePageLimit(r)
	reports, total, err := services.ListReports(s.DB, services.ReportFilter{
		StudentID: studentID,
		Status:    r.URL.Query().Get("status"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ReportListResponse{
		Reports:    reportDTOs(reports),
		Pagination: newPagination(total, page, limit),
	})
}

// PendingReports lists submitted reports waiting on the caller's review.
func (s *Server) PendingReports(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	reports, err := services.PendingReports(s.DB, identity.ID, identity.Role)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reportDTOs(reports),
		"count":   len(reports),
	})
}

func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	report, err := services.GetReport(s.DB, chi.URLParam(r, "reportId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	allowed, err := s.canReadReport(identity, report)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !allowed {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]WeeklyReportDTO{"report": reportDTO(report)})
}

func (s *Server) CreateReport(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	taken, err := services.WeekTaken(s.DB, identity.ID, req.WeekNumber, "")
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if taken {
		WriteError(w, http.StatusConflict, "Report for this week already exists")
		return
	}
	startDate, _ := time.Parse(dateLayout, req.StartDate)
	endDate, _ := time.Parse(dateLayout, req.EndDate)
	now := time.Now().UTC()
	report := models.WeeklyReport{
		ID:         uuid.NewString(),
		StudentID:  identity.ID,
		WeekNumber: req.WeekNumber,
		StartDate:  startDate,
		EndDate:    endDate,
		Content:    req.Content,
		Status:     models.StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if models.ReportStatus(req.Status) == models.StatusSubmitted {
		report.Status = models.StatusSubmitted
		report.SubmittedAt = &now
	}
	report, err = services.InsertReport(s.DB, report)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if report.Status == models.StatusSubmitted {
		s.notifySupervisorsOfSubmission(identity, report)
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Weekly report created successfully",
		"report":  reportDTO(report),
	})
}

func (s *Server) UpdateReport(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	var req UpdateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	report, err := services.GetReport(s.DB, chi.URLParam(r, "reportId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if report.StudentID != identity.ID {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	upd := services.ReportUpdate{
		WeekNumber: req.WeekNumber,
		Content:    req.Content,
	}
	if req.StartDate != nil {
		date, _ := time.Parse(dateLayout, *req.StartDate)
		upd.StartDate = &date
	}
	if req.EndDate != nil {
		date, _ := time.Parse(dateLayout, *req.EndDate)
		upd.EndDate = &date
	}
	if req.Status != nil {
		status := models.ReportStatus(*req.Status)
		upd.Status = &status
	}
	wasSubmitted := report.Status == models.StatusSubmitted
	updated, err := services.ApplyReportUpdate(report, upd, time.Now().UTC())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if upd.WeekNumber != nil && *upd.WeekNumber != report.WeekNumber {
		taken, err := services.WeekTaken(s.DB, identity.ID, *upd.WeekNumber, report.ID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if taken {
			WriteError(w, http.StatusConflict, "Report for this week already exists")
			return
		}
	}
	if err := services.SaveReport(s.DB, updated); err != nil {
		WriteServiceError(w, err)
		return
	}
	if !wasSubmitted && updated.Status == models.StatusSubmitted {
		s.notifySupervisorsOfSubmission(identity, updated)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Weekly report updated successfully",
		"report":  reportDTO(updated),
	})
}

// SubmitReport handles the explicit submit action on a draft.
func (s *Server) SubmitReport(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	report, err := services.GetReport(s.DB, chi.URLParam(r, "reportId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if report.StudentID != identity.ID {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	submitted, err := services.SubmitReport(report, time.Now().UTC())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := services.SaveReport(s.DB, submitted); err != nil {
		WriteServiceError(w, err)
		return
	}
	s.notifySupervisorsOfSubmission(identity, submitted)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Weekly report submitted successfully",
		"report":  reportDTO(submitted),
	})
}

// ReviewReport records the academic supervisor's feedback and optional grade.
func (s *Server) ReviewReport(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	report, err := services.GetReport(s.DB, chi.URLParam(r, "reportId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !identity.Role.IsAdmin() {
		assigned, err := services.SupervisesStudent(s.DB, identity.ID, report.StudentID, identity.Role)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if !assigned {
			WriteError(w, http.StatusForbidden, "You are not assigned as supervisor for this student")
			return
		}
	}
	reviewed, err := services.ApplyAcademicReview(report, req.SupervisorFeedback, req.Grade, time.Now().UTC())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := services.SaveReport(s.DB, reviewed); err != nil {
		WriteServiceError(w, err)
		return
	}
	title := "Weekly Report Reviewed"
	message := fmt.Sprintf("Your week %d report has been reviewed by %s", reviewed.WeekNumber, identity.Name)
	if reviewed.Grade != nil {
		message = fmt.Sprintf("Your week %d report has been graded %s by %s", reviewed.WeekNumber, *reviewed.Grade, identity.Name)
	}
	if err := services.NotifyUser(s.DB, reviewed.StudentID, title, message, "success", "weekly_report", reviewed.ID); err != nil {
		log.Printf("notify student %s: %v", reviewed.StudentID, err)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Feedback added successfully",
		"report":  reportDTO(reviewed),
	})
}

// IndustrialComment records workplace feedback from the industrial supervisor.
func (s *Server) IndustrialComment(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	var req IndustrialCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	report, err := services.GetReport(s.DB, chi.URLParam(r, "reportId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !identity.Role.IsAdmin() {
		assigned, err := services.SupervisesStudent(s.DB, identity.ID, report.StudentID, identity.Role)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if !assigned {
			WriteError(w, http.StatusForbidden, "You are not assigned as supervisor for this student")
			return
		}
	}
	commented, err := services.ApplyIndustrialComment(report, req.IndustrialSupervisorFeedback, identity.ID, time.Now().UTC())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := services.SaveReport(s.DB, commented); err != nil {
		WriteServiceError(w, err)
		return
	}
	message := fmt.Sprintf("Your week %d report received workplace feedback from %s", commented.WeekNumber, identity.Name)
	if err := services.NotifyUser(s.DB, commented.StudentID, "Workplace Feedback Added", message, "info", "weekly_report", commented.ID); err != nil {
		log.Printf("notify student %s: %v", commented.StudentID, err)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Industrial supervisor feedback added successfully",
		"report":  reportDTO(commented),
	})
}

func (s *Server) DeleteReport(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	report, err := services.GetReport(s.DB, chi.URLParam(r, "reportId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := services.CanDeleteReport(report, identity.ID, identity.Role); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := services.DeleteReport(s.DB, report.ID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Weekly report deleted successfully",
	})
}

// notifySupervisorsOfSubmission tells both assigned supervisors a report is
// waiting for them. Notification failures are logged, never surfaced.
func (s *Server) notifySupervisorsOfSubmission(student Identity, report models.WeeklyReport) {
	profile, err := services.GetStudentProfile(s.DB, report.StudentID)
	if err != nil {
		log.Printf("load profile for %s: %v", report.StudentID, err)
		return
	}
	message := fmt.Sprintf("%s submitted their week %d report for review", student.Name, report.WeekNumber)
	for _, supervisorID := range []*string{profile.AcademicSupervisorID, profile.IndustrialSupervisorID} {
		if supervisorID == nil {
			continue
		}
		if err := services.NotifyUser(s.DB, *supervisorID, "Weekly Report Submitted", message, "info", "weekly_report", report.ID); err != nil {
			log.Printf("notify supervisor %s: %v", *supervisorID, err)
		}
	}
}

func reportDTOs(reports []models.WeeklyReport) []WeeklyReportDTO {
	items := make([]WeeklyReportDTO, 0, len(reports))
	for _, report := range reports {
		items = append(items, reportDTO(report))
	}
	return items
}
