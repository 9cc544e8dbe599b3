package apiserver

import (
	"net/http"

	"social-go/internal/middleware"
	"social-go/internal/models"
	"social-go/internal/services"
)

// GroupHandler exposes group, join request and membership endpoints.
// List and get are reachable anonymously through the optional auth
// middleware; everything else requires a logged-in caller.
type GroupHandler struct {
	GroupService services.GroupService
}

// NewGroupHandler creates a new GroupHandler instance.
func NewGroupHandler(groupService services.GroupService) *GroupHandler {
	return &GroupHandler{GroupService: groupService}
}

// CreateGroupPayload is the payload for creating a group.
type CreateGroupPayload struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Status      models.GroupStatus `json:"status,omitempty"`
}

// UpdateGroupPayload is the payload for updating a group; absent fields
// stay untouched.
type UpdateGroupPayload struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Status      *models.GroupStatus `json:"status,omitempty"`
}

// ResolveGroupRequestPayload is the payload for resolving a join request.
type ResolveGroupRequestPayload struct {
	Status models.GroupRequestStatus `json:"status"`
}

// UpdateMembershipPayload is the payload for changing a member's role.
type UpdateMembershipPayload struct {
	MembershipStatus models.MembershipStatus `json:"membershipStatus"`
}

func validGroupStatus(s models.GroupStatus) bool {
	switch s {
	case models.GroupStatusPublic, models.GroupStatusPrivate, models.GroupStatusClosed:
		return true
	}
	return false
}

func validMembershipStatus(s models.MembershipStatus) bool {
	switch s {
	case models.MembershipStatusAdmin, models.MembershipStatusModerator, models.MembershipStatusRegular:
		return true
	}
	return false
}

// viewerID returns the caller's user ID, or 0 for anonymous requests.
func viewerID(r *http.Request) uint {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	return userID
}

// Create creates a group with the caller as its admin.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateGroupPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSONError(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = models.GroupStatusPublic
	}
	if !validGroupStatus(req.Status) {
		writeJSONError(w, "status must be PUBLIC, PRIVATE or CLOSED", http.StatusBadRequest)
		return
	}

	group, err := h.GroupService.CreateGroup(r.Context(), userID, req.Name, req.Description, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, group)
}

// List returns the groups visible to the caller.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.GroupService.ListGroups(r.Context(), viewerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, groups)
}

// Get returns a single group.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	group, err := h.GroupService.GetGroupByID(r.Context(), viewerID(r), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, group)
}

// Update changes a group's name, description or visibility.
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	var req UpdateGroupPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Status != nil && !validGroupStatus(*req.Status) {
		writeJSONError(w, "status must be PUBLIC, PRIVATE or CLOSED", http.StatusBadRequest)
		return
	}
	if req.Name != nil && *req.Name == "" {
		writeJSONError(w, "name cannot be empty", http.StatusBadRequest)
		return
	}

	group, err := h.GroupService.UpdateGroup(r.Context(), userID, groupID, services.GroupUpdate{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, group)
}

// Delete removes a group and all its content.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	if err := h.GroupService.DeleteGroup(r.Context(), userID, groupID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// CreateRequest files a join request for the caller.
func (h *GroupHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	request, err := h.GroupService.CreateGroupRequest(r.Context(), userID, groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, request)
}

// ListRequests returns the group's pending join requests.
func (h *GroupHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	requests, err := h.GroupService.ListGroupRequests(r.Context(), userID, groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, requests)
}

// GetRequest returns a single join request.
func (h *GroupHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestID")
	if !ok {
		return
	}

	request, err := h.GroupService.GetGroupRequest(r.Context(), userID, groupID, requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, request)
}

// ResolveRequest accepts or denies a pending join request.
func (h *GroupHandler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestID")
	if !ok {
		return
	}

	var req ResolveGroupRequestPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Status != models.GroupRequestStatusAccepted && req.Status != models.GroupRequestStatusDenied {
		writeJSONError(w, "status must be ACCEPTED or DENIED", http.StatusBadRequest)
		return
	}

	request, err := h.GroupService.ResolveGroupRequest(r.Context(), userID, groupID, requestID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, request)
}

// ListMemberships returns the group's member roster.
func (h *GroupHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	memberships, err := h.GroupService.ListMemberships(r.Context(), viewerID(r), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, memberships)
}

// GetMembership returns a single member of the roster.
func (h *GroupHandler) GetMembership(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	membershipID, ok := pathID(w, r, "membershipID")
	if !ok {
		return
	}

	membership, err := h.GroupService.GetMembership(r.Context(), userID, groupID, membershipID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, membership)
}

// UpdateMembership changes a member's role.
func (h *GroupHandler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	membershipID, ok := pathID(w, r, "membershipID")
	if !ok {
		return
	}

	var req UpdateMembershipPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validMembershipStatus(req.MembershipStatus) {
		writeJSONError(w, "membershipStatus must be ADMIN, MODERATOR or REGULAR", http.StatusBadRequest)
		return
	}

	membership, err := h.GroupService.UpdateMembership(r.Context(), userID, groupID, membershipID, req.MembershipStatus)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, membership)
}

// RemoveMembership kicks a member out of the group.
func (h *GroupHandler) RemoveMembership(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	membershipID, ok := pathID(w, r, "membershipID")
	if !ok {
		return
	}

	if err := h.GroupService.RemoveMembership(r.Context(), userID, groupID, membershipID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// Leave removes the caller's own membership.
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	if err := h.GroupService.LeaveGroup(r.Context(), userID, groupID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}
