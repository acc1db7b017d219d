package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"siwes-backend-go/internal/models"
	"siwes-backend-go/internal/services"
	"siwes-backend-go/internal/validation"
)

type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int               `json:"unreadCount"`
	Pagination    Pagination        `json:"pagination"`
}

func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	page, limit := parsePageLimit(r)
	filter := services.NotificationFilter{UserID: identity.ID, Page: page, Limit: limit}
	if raw := r.URL.Query().Get("isRead"); raw != "" {
		if isRead, err := strconv.ParseBool(raw); err == nil {
			filter.IsRead = &isRead
		}
	}
	items, total, err := services.ListNotifications(s.DB, filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	unread, err := services.UnreadCount(s.DB, identity.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	dtos := make([]NotificationDTO, 0, len(items))
	for _, n := range items {
		dtos = append(dtos, notificationDTO(n))
	}
	WriteJSON(w, http.StatusOK, NotificationListResponse{
		Notifications: dtos,
		UnreadCount:   unread,
		Pagination:    newPagination(total, page, limit),
	})
}

func (s *Server) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	count, err := services.UnreadCount(s.DB, identity.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"unreadCount": count})
}

func (s *Server) GetNotification(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	notification, err := services.GetNotification(s.DB, chi.URLParam(r, "notificationId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if notification.UserID != identity.ID && !identity.Role.IsAdmin() {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]NotificationDTO{"notification": notificationDTO(notification)})
}

// CreateNotification lets an admin target one user or broadcast to a role.
func (s *Server) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if details := validation.Check(req); details != nil {
		WriteValidationError(w, details)
		return
	}
	if req.UserID == nil && req.Role == nil {
		WriteError(w, http.StatusBadRequest, "Either userId or role is required")
		return
	}
	if req.Role != nil {
		count, err := services.NotifyRole(s.DB, models.Role(*req.Role), req.Title, req.Message, req.Type)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": fmt.Sprintf("Notification sent to %d users", count),
		})
		return
	}
	if _, err := services.GetUserByID(s.DB, *req.UserID); err != nil {
		WriteServiceError(w, err)
		return
	}
	notification, err := services.InsertNotification(s.DB, models.Notification{
		UserID:            *req.UserID,
		Title:             req.Title,
		Message:           req.Message,
		Type:              req.Type,
		Priority:          req.Priority,
		RelatedEntityType: req.RelatedEntityType,
		RelatedEntityID:   req.RelatedEntityID,
		ActionURL:         req.ActionURL,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "Notification created successfully",
		"notification": notificationDTO(notification),
	})
}

func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	notification, err := services.GetNotification(s.DB, chi.URLParam(r, "notificationId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if notification.UserID != identity.ID {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	if err := services.MarkNotificationRead(s.DB, notification.ID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Notification marked as read",
	})
}

func (s *Server) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	updated, err := services.MarkAllNotificationsRead(s.DB, identity.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%d notifications marked as read", updated),
	})
}

func (s *Server) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	identity := CurrentIdentity(r)
	notification, err := services.GetNotification(s.DB, chi.URLParam(r, "notificationId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if notification.UserID != identity.ID && !identity.Role.IsAdmin() {
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	if err := services.DeleteNotification(s.DB, notification.ID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Notification deleted successfully",
	})
}
