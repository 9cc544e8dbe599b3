package apiserver

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"social-go/internal/middleware"
	"social-go/internal/models"
	"social-go/internal/services"
)

// AuthHandler exposes registration, activation and session endpoints.
type AuthHandler struct {
	UserService services.UserService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Birthday  string `json:"birthday,omitempty"` // YYYY-MM-DD
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles account creation. The account starts inactive and
// the activation email goes out asynchronously.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeJSONError(w, "username, email and password are required", http.StatusBadRequest)
		return
	}

	var birthday time.Time
	if req.Birthday != "" {
		parsed, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			writeJSONError(w, "birthday must be formatted as YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		birthday = parsed
	}

	user, err := h.UserService.Register(r.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Birthday:  birthday,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, user)
}

// Confirm redeems the activation token from the emailed link.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		writeJSONError(w, "missing activation token", http.StatusBadRequest)
		return
	}

	if err := h.UserService.ConfirmRegistration(r.Context(), token); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "account activated"})
}

// Login handles credential verification and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSONError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	token, user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// Logout revokes the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeJSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.UserService.Logout(r.Context(), claims); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
