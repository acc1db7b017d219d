package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"siwes-backend-go/internal/models"
	"siwes-backend-go/internal/services"
	"siwes-backend-go/internal/validation"
)

type LogEntryListResponse struct {
	LogEntries []LogEntryDTO `json:"logEntries"`
	Pagination Pagination    `json:"pagination"`
}

// canReadLogEntry decides whether the identity may see the entry. Owners and
// admins always can; supervisors only for assigned students and only when the
// entry is not private.
func (s *Server) canReadLogEntry(identity Identity, entry models.LogEntry) (bool, error) {
	if identity.Role.IsAdmin() || entry.StudentID == identity.ID {
		return true, nil
	}
	if !identity.Role.IsSupervisor() || entry.IsPrivate {
		return false, nil
	}
	return services.SupervisesStudent(s.DB, identity.ID, entry.StudentID, identity.Role)
}

func (s *Server) ListLogEntries(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	page, limit := parsePageLimit(r)
	filter := services.LogEntryFilter{
		StudentID: r.URL.Query().Get("studentId"),
		EntryType: r.URL.Query().Get("type"),
		Page:      page,
		Limit:     limit,
	}
	if from, err := time.Parse(dateLayout, r.URL.Query().Get("startDate")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(dateLayout, r.URL.Query().Get("endDate")); err == nil {
		filter.To = &to
	}
	switch {
	case identity.Role.IsStudent():
		filter.StudentID = identity.ID
	case identity.Role.IsAdmin():
		// Any student, or all of them.
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
	entries, total, err := services.ListLogEntries(s.DB, filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]LogEntryDTO, 0, len(entries))
	for _, entry := range entries {
		if identity.Role.IsSupervisor() && entry.IsPrivate {
			continue
		}
		items = append(items, logEntryDTO(entry))
	}
	WriteJSON(w, http.StatusOK, LogEntryListResponse{LogEntries: items, Pagination: newPagination(total, page, limit)})
}

// StudentLogEntries serves a supervisor's (or admin's) view of one student's
// entries. Private entries stay hidden from supervisors.
func (s *Server) StudentLogEntries(w http.ResponseWriter, r *http.Request) {
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
	entries, total, err := services.ListLogEntries(s.DB, services.LogEntryFilter{
		StudentID: studentID,
		EntryType: r.URL.Query().Get("type"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]LogEntryDTO, 0, len(entries))
	for _, entry := range entries {
		if identity.Role.IsSupervisor() && entry.IsPrivate {
			continue
		}
		items = append(items, logEntryDTO(entry))
	}
	WriteJSON(w, http.StatusOK, LogEntryListResponse{LogEntries: items, Pagination: newPagination(total, page, limit)})
}

func (s *Server) GetLogEntry(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	entry, err := services.GetLogEntry(s.DB, chi.URLParam(r, "entryId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	allowed, err := s.canReadLogEntry(identity, entry)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !allowed {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]LogEntryDTO{"logEntry": logEntryDTO(entry)})
}

func (s *Server) CreateLogEntry(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	var req CreateLogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	date, _ := time.Parse(dateLayout, req.Date)
	entryType := req.Type
	if entryType == "" {
		entryType = "regular"
	}
	now := time.Now().UTC()
	entry := models.LogEntry{
		ID:          uuid.NewString(),
		StudentID:   identity.ID,
		EntryDate:   date,
		Content:     req.Content,
		Attachments: marshalJSON(req.Attachments),
		Tags:        marshalJSON(req.Tags),
		Mood:        req.Mood,
		HoursWorked: req.HoursWorked,
		EntryType:   entryType,
		IsPrivate:   req.IsPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	entry, err := services.InsertLogEntry(s.DB, entry)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"message":  "Log entry created successfully",
		"logEntry": logEntryDTO(entry),
	})
}

func (s *Server) UpdateLogEntry(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	var req UpdateLogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	entry, err := services.GetLogEntry(s.DB, chi.URLParam(r, "entryId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if entry.StudentID != identity.ID {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	if req.Date != nil {
		date, _ := time.Parse(dateLayout, *req.Date)
		entry.EntryDate = date
	}
	if req.Content != nil {
		entry.Content = *req.Content
	}
	if req.Attachments != nil {
		entry.Attachments = marshalJSON(req.Attachments)
	}
	if req.Tags != nil {
		entry.Tags = marshalJSON(req.Tags)
	}
	if req.Mood != nil {
		entry.Mood = req.Mood
	}
	if req.HoursWorked != nil {
		entry.HoursWorked = req.HoursWorked
	}
	if req.Type != nil {
		entry.EntryType = *req.Type
	}
	if req.IsPrivate != nil {
		entry.IsPrivate = *req.IsPrivate
	}
	if err := services.SaveLogEntry(s.DB, entry); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Log entry updated successfully",
		"logEntry": logEntryDTO(entry),
	})
}

func (s *Server) DeleteLogEntry(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	entry, err := services.GetLogEntry(s.DB, chi.URLParam(r, "entryId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if entry.StudentID != identity.ID && !identity.Role.IsAdmin() {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	if err := services.DeleteLogEntry(s.DB, entry.ID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Log entry deleted successfully",
	})
}

// marshalJSON encodes attachments and tags for the JSONB columns. Nil slices
// become empty arrays rather than SQL nulls.
func marshalJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return []byte("[]")
	}
	return data
}
