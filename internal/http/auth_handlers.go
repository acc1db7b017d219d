package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"siwes-backend-go/internal/models"
	"siwes-backend-go/internal/services"
	"siwes-backend-go/internal/validation"
)

type TokenResponse struct {
	Success      bool    `json:"success"`
	Token        string  `json:"token"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresAt    int64   `json:"expiresAt"`
	User         UserDTO `json:"user"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	user, err := services.GetUserByEmail(s.DB, req.Email)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "User not found")
		return
	}
	if !user.IsActive {
		WriteError(w, http.StatusUnauthorized, "Account is deactivated")
		return
	}
	if !services.VerifyPassword(req.Password, user.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	if req.ExpectedRole != "" && user.Role != models.Role(req.ExpectedRole) {
		WriteError(w, http.StatusUnauthorized,
			"This account is not registered as a "+strings.ReplaceAll(req.ExpectedRole, "_", " "))
		return
	}
	s.writeTokenResponse(w, user)
}

// DemoLogin signs in the first active user of a role without a password.
// Development convenience only, disabled in production.
func (s *Server) DemoLogin(w http.ResponseWriter, r *http.Request) {
	if s.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Demo login is disabled")
		return
	}
	var req DemoLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	user, err := services.FirstActiveByRole(s.DB, models.Role(req.Role))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	s.writeTokenResponse(w, user)
}

func (s *Server) writeTokenResponse(w http.ResponseWriter, user models.User) {
	token, exp, err := s.Tokens.CreateAccessToken(user)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(user.ID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	_ = services.SetLastLogin(s.DB, user.ID)
	WriteJSON(w, http.StatusOK, TokenResponse{
		Success:      true,
		Token:        token,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		User:         buildUserDTO(s.DB, user),
	})
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	userID, err := s.Tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	user, err := services.GetUserByID(s.DB, userID)
	if err != nil || !user.IsActive {
		WriteError(w, http.StatusUnauthorized, "Account is deactivated")
		return
	}
	s.writeTokenResponse(w, user)
}

// Logout acknowledges the request; token discard happens client-side since
// no revocation list is kept.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Logged out successfully"})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	user, err := services.GetUserByID(s.DB, identity.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]UserDTO{"user": buildUserDTO(s.DB, user)})
}

func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	user, err := services.GetUserByID(s.DB, identity.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !services.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		WriteError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	hash, err := services.HashPassword(req.NewPassword)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := services.SetPasswordHash(s.DB, identity.ID, hash); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Password changed successfully"})
}
