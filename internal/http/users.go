package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"siwes-backend-go/internal/models"
	"siwes-backend-go/internal/services"
	"siwes-backend-go/internal/validation"
)

type UserListResponse struct {
	Users      []UserDTO  `json:"users"`
	Pagination Pagination `json:"pagination"`
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	if role != "" && !models.Role(role).Valid() {
		WriteError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	where := ""
	args := []interface{}{}
	if role != "" {
		where = "WHERE role = $1"
		args = append(args, role)
	}
	var total int
	if err := s.DB.Get(&total, "SELECT count(*) FROM users "+where, args...); err != nil {
		WriteServiceError(w, err)
		return
	}
	args = append(args, limit, (page-1)*limit)
	users := []models.User{}
	query := "SELECT * FROM users " + where + " ORDER BY created_at DESC LIMIT $" +
		strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))
	if err := s.DB.Select(&users, query, args...); err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]UserDTO, 0, len(users))
	for _, user := range users {
		items = append(items, buildUserDTO(s.DB, user))
	}
	WriteJSON(w, http.StatusOK, UserListResponse{Users: items, Pagination: newPagination(total, page, limit)})
}

func (s *Server) UsersByRole(w http.ResponseWriter, r *http.Request) {
	role := models.Role(chi.URLParam(r, "role"))
	if !role.Valid() {
		WriteError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	users := []models.User{}
	err := s.DB.Select(&users, `
SELECT * FROM users WHERE role = $1 AND is_active = TRUE ORDER BY name ASC`, role)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]UserDTO, 0, len(users))
	for _, user := range users {
		items = append(items, buildUserDTO(s.DB, user))
	}
	WriteJSON(w, http.StatusOK, map[string][]UserDTO{"users": items})
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	userID := chi.URLParam(r, "userId")
	if !identity.Role.IsAdmin() && identity.ID != userID {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	user, err := services.GetUserByID(s.DB, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]UserDTO{"user": buildUserDTO(s.DB, user)})
}

func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := services.EmailTaken(s.DB, email, "")
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if taken {
		WriteError(w, http.StatusConflict, "User with this email already exists")
		return
	}
	password := req.Password
	if password == "" {
		password = "password123"
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if models.Role(req.Role) == models.RoleStudent {
		s.createStudent(w, req, email, hash)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.Role(req.Role),
		ProfileImage: req.ProfileImage,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = s.DB.Exec(`
INSERT INTO users (id, name, email, password_hash, role, profile_image, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,TRUE,$7,$7)
`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.ProfileImage, now)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User created successfully",
		"user":    buildUserDTO(s.DB, user),
	})
}

func (s *Server) createStudent(w http.ResponseWriter, req CreateUserRequest, email, hash string) {
	department := req.Department
	if department == "" {
		department = "Computer Science"
	}
	level := req.Level
	if level == "" {
		level = "300"
	}
	company := req.Company
	if company == "" {
		company = "No Company Assigned"
	}
	startDate, _ := time.Parse(dateLayout, req.StartDate)
	endDate, _ := time.Parse(dateLayout, req.EndDate)
	user, _, err := services.CreateStudent(s.DB, services.NewStudentInput{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		ProfileImage: req.ProfileImage,
		MatricNumber: req.MatricNumber,
		Department:   department,
		Level:        level,
		Company:      company,
		StartDate:    startDate,
		EndDate:      endDate,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User created successfully",
		"user":    buildUserDTO(s.DB, user),
	})
}

func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	userID := chi.URLParam(r, "userId")
	if !identity.Role.IsAdmin() && identity.ID != userID {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	user, err := services.GetUserByID(s.DB, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := services.EmailTaken(s.DB, email, user.ID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if taken {
			WriteError(w, http.StatusConflict, "Email is already taken")
			return
		}
		user.Email = email
	}
	if req.ProfileImage != nil {
		user.ProfileImage = req.ProfileImage
	}
	// Deactivation is admin-only; users cannot lock themselves out.
	if req.IsActive != nil && identity.Role.IsAdmin() {
		user.IsActive = *req.IsActive
	}
	_, err = s.DB.Exec(`
UPDATE users SET name = $2, email = $3, profile_image = $4, is_active = $5, updated_at = $6
WHERE id = $1
`, user.ID, user.Name, user.Email, user.ProfileImage, user.IsActive, time.Now().UTC())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated successfully",
		"user":    buildUserDTO(s.DB, user),
	})
}

func (s *Server) UpdateStudentProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	upd := services.ProfileUpdate{
		Department:             req.Department,
		Level:                  req.Level,
		Company:                req.Company,
		AcademicSupervisorID:   req.AcademicSupervisorID,
		IndustrialSupervisorID: req.IndustrialSupervisorID,
		IsActive:               req.IsActive,
	}
	if req.StartDate != nil {
		date, _ := time.Parse(dateLayout, *req.StartDate)
		upd.StartDate = &date
	}
	if req.EndDate != nil {
		date, _ := time.Parse(dateLayout, *req.EndDate)
		upd.EndDate = &date
	}
	profile, err := services.UpdateStudentProfile(s.DB, userID, upd)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        "Student profile updated successfully",
		"studentProfile": profileDTO(profile),
	})
}

func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := services.DeleteUser(s.DB, userID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted successfully",
	})
}

func parsePageLimit(r *http.Request) (int, int) {
	page := parseInt(r.URL.Query().Get("page"), 1)
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
