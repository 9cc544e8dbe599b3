package apiserver

import (
	"net/http"

	"social-go/internal/services"
)

// GroupPostHandler exposes group post endpoints under
// /groups/{groupID}/posts. Reads follow group visibility and are
// reachable anonymously; writes require membership.
type GroupPostHandler struct {
	PostService services.GroupPostService
}

// NewGroupPostHandler creates a new GroupPostHandler instance.
func NewGroupPostHandler(postService services.GroupPostService) *GroupPostHandler {
	return &GroupPostHandler{PostService: postService}
}

// CreatePost publishes a post in the group.
func (h *GroupPostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	var req TextPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSONError(w, "text is required", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), userID, groupID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, post)
}

// ListPosts returns the group's posts.
func (h *GroupPostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	posts, err := h.PostService.ListPosts(r.Context(), viewerID(r), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, posts)
}

// GetPost returns a single group post.
func (h *GroupPostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	post, err := h.PostService.GetPost(r.Context(), viewerID(r), groupID, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, post)
}

// UpdatePost replaces a post's text.
func (h *GroupPostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	var req TextPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSONError(w, "text is required", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), userID, groupID, postID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, post)
}

// DeletePost removes a post and its comments and reactions.
func (h *GroupPostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	if err := h.PostService.DeletePost(r.Context(), userID, groupID, postID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// CreateComment adds a comment to a group post.
func (h *GroupPostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	var req TextPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSONError(w, "text is required", http.StatusBadRequest)
		return
	}

	comment, err := h.PostService.CreateComment(r.Context(), userID, groupID, postID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, comment)
}

// ListComments returns a post's comments.
func (h *GroupPostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	comments, err := h.PostService.ListComments(r.Context(), viewerID(r), groupID, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, comments)
}

// UpdateComment replaces a comment's text.
func (h *GroupPostHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentID")
	if !ok {
		return
	}

	var req TextPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSONError(w, "text is required", http.StatusBadRequest)
		return
	}

	comment, err := h.PostService.UpdateComment(r.Context(), userID, groupID, postID, commentID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, comment)
}

// DeleteComment removes a comment.
func (h *GroupPostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentID")
	if !ok {
		return
	}

	if err := h.PostService.DeleteComment(r.Context(), userID, groupID, postID, commentID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// CreateReaction adds a reaction to a group post.
func (h *GroupPostHandler) CreateReaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	var req ReactionPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validReaction(req.Reaction) {
		writeJSONError(w, "reaction must be LIKE or DISLIKE", http.StatusBadRequest)
		return
	}

	reaction, err := h.PostService.CreateReaction(r.Context(), userID, groupID, postID, req.Reaction)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, reaction)
}

// ListReactions returns a post's reactions.
func (h *GroupPostHandler) ListReactions(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	reactions, err := h.PostService.ListReactions(r.Context(), viewerID(r), groupID, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, reactions)
}

// UpdateReaction changes a reaction's kind.
func (h *GroupPostHandler) UpdateReaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}
	reactionID, ok := pathID(w, r, "reactionID")
	if !ok {
		return
	}

	var req ReactionPayload
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validReaction(req.Reaction) {
		writeJSONError(w, "reaction must be LIKE or DISLIKE", http.StatusBadRequest)
		return
	}

	reaction, err := h.PostService.UpdateReaction(r.Context(), userID, groupID, postID, reactionID, req.Reaction)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, reaction)
}

// DeleteReaction removes a reaction.
func (h *GroupPostHandler) DeleteReaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}
	reactionID, ok := pathID(w, r, "reactionID")
	if !ok {
		return
	}

	if err := h.PostService.DeleteReaction(r.Context(), userID, groupID, postID, reactionID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}
