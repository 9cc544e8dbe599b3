package apiserver

import (
	"net/http"

	"social-go/internal/middleware"
	"social-go/internal/services"
)

// UserHandler exposes user browsing endpoints.
type UserHandler struct {
	UserService  services.UserService
	GroupService services.GroupService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(userService services.UserService, groupService services.GroupService) *UserHandler {
	return &UserHandler{UserService: userService, GroupService: groupService}
}

// ListUsers returns all registered users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, users)
}

// GetUser returns a single user by ID.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, user)
}

// GetMe returns the authenticated user's own account.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, user)
}

// ListOwnGroupRequests returns every join request the caller has filed.
func (h *UserHandler) ListOwnGroupRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	requests, err := h.GroupService.ListOwnGroupRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, requests)
}

// WithdrawGroupRequest deletes a pending join request the caller filed.
func (h *UserHandler) WithdrawGroupRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	requestID, ok := pathID(w, r, "requestID")
	if !ok {
		return
	}

	if err := h.GroupService.WithdrawGroupRequest(r.Context(), userID, requestID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}
