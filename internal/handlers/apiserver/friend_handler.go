package apiserver

import (
	"net/http"

	"social-go/internal/middleware"
	"social-go/internal/models"
	"social-go/internal/services"
)

// FriendHandler exposes friend request and friendship endpoints. All of
// them require authentication.
type FriendHandler struct {
	FriendService services.FriendService
}

// NewFriendHandler creates a new FriendHandler instance.
func NewFriendHandler(friendService services.FriendService) *FriendHandler {
	return &FriendHandler{FriendService: friendService}
}

// CreateFriendRequestPayload is the payload for sending a friend request.
type CreateFriendRequestPayload struct {
	ToUserID uint `json:"toUserId"`
}

// ResolveFriendRequestPayload is the payload for accepting or denying a
// received request.
type ResolveFriendRequestPayload struct {
	Status models.FriendRequestStatus `json:"status"`
}

func callerID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "not authenticated", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// CreateRequest sends a friend request to another user.
func (h *FriendHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateFriendRequestPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.ToUserID == 0 {
		writeJSONError(w, "toUserId is required", http.StatusBadRequest)
		return
	}

	request, err := h.FriendService.CreateFriendRequest(r.Context(), userID, req.ToUserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, request)
}

// ListReceived returns the caller's pending received requests.
func (h *FriendHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	requests, err := h.FriendService.ListReceivedRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, requests)
}

// ListSent returns the caller's pending sent requests.
func (h *FriendHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	requests, err := h.FriendService.ListSentRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, requests)
}

// GetReceived returns a single request the caller received.
func (h *FriendHandler) GetReceived(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestID")
	if !ok {
		return
	}

	request, err := h.FriendService.GetReceivedRequest(r.Context(), userID, requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, request)
}

// GetSent returns a single request the caller sent.
func (h *FriendHandler) GetSent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestID")
	if !ok {
		return
	}

	request, err := h.FriendService.GetSentRequest(r.Context(), userID, requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, request)
}

// ResolveRequest accepts or denies a request the caller received.
func (h *FriendHandler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestID")
	if !ok {
		return
	}

	var req ResolveFriendRequestPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Status != models.FriendRequestStatusAccepted && req.Status != models.FriendRequestStatusDenied {
		writeJSONError(w, "status must be ACCEPTED or DENIED", http.StatusBadRequest)
		return
	}

	request, err := h.FriendService.ResolveFriendRequest(r.Context(), userID, requestID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, request)
}

// WithdrawRequest deletes a pending request the caller sent.
func (h *FriendHandler) WithdrawRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestID")
	if !ok {
		return
	}

	if err := h.FriendService.WithdrawFriendRequest(r.Context(), userID, requestID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// ListFriends returns the caller's friendships.
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	friends, err := h.FriendService.ListFriends(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, friends)
}

// GetFriend returns one of the caller's friend rows.
func (h *FriendHandler) GetFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	friendID, ok := pathID(w, r, "friendID")
	if !ok {
		return
	}

	friend, err := h.FriendService.GetFriend(r.Context(), userID, friendID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, friend)
}

// DeleteFriend ends a friendship, removing both sides.
func (h *FriendHandler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	friendID, ok := pathID(w, r, "friendID")
	if !ok {
		return
	}

	if err := h.FriendService.DeleteFriend(r.Context(), userID, friendID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}
