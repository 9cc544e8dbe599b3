package apiserver

import (
	"net/http"

	"social-go/internal/models"
	"social-go/internal/services"
)

// UserPostHandler exposes wall post endpoints under /users/{userID}/posts.
// Reads are public; writes require authentication.
type UserPostHandler struct {
	PostService services.UserPostService
}

// NewUserPostHandler creates a new UserPostHandler instance.
func NewUserPostHandler(postService services.UserPostService) *UserPostHandler {
	return &UserPostHandler{PostService: postService}
}

// TextPayload is the payload for posts and comments.
type TextPayload struct {
	Text string `json:"text"`
}

// ReactionPayload is the payload for reactions.
type ReactionPayload struct {
	Reaction models.ReactionKind `json:"reaction"`
}

func validReaction(k models.ReactionKind) bool {
	return k == models.ReactionLike || k == models.ReactionDislike
}

// CreatePost publishes a post on the caller's wall.
func (h *UserPostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	wallUserID, ok := pathID(w, r, "userID")
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

	post, err := h.PostService.CreatePost(r.Context(), userID, wallUserID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, post)
}

// ListPosts returns a user's wall.
func (h *UserPostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	wallUserID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	posts, err := h.PostService.ListPosts(r.Context(), wallUserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, posts)
}

// GetPost returns a single wall post.
func (h *UserPostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	wallUserID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	post, err := h.PostService.GetPost(r.Context(), wallUserID, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, post)
}

// UpdatePost replaces a post's text.
func (h *UserPostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	wallUserID, ok := pathID(w, r, "userID")
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

	post, err := h.PostService.UpdatePost(r.Context(), userID, wallUserID, postID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, post)
}

// DeletePost removes a post and its comments and reactions.
func (h *UserPostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	wallUserID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	if err := h.PostService.DeletePost(r.Context(), userID, wallUserID, postID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// CreateComment adds a comment to a wall post.
func (h *UserPostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	wallUserID, ok := pathID(w, r, "userID")
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

	comment, err := h.PostService.CreateComment(r.Context(), userID, wallUserID, postID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, comment)
}

// ListComments returns a post's comments.
func (h *UserPostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	wallUserID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	comments, err := h.PostService.ListComments(r.Context(), wallUserID, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, comments)
}

// UpdateComment replaces a comment's text.
func (h *UserPostHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	wallUserID, ok := pathID(w, r, "userID")
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

	comment, err := h.PostService.UpdateComment(r.Context(), userID, wallUserID, postID, commentID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, comment)
}

// DeleteComment removes a comment.
func (h *UserPostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	wallUserID, ok := pathID(w, r, "userID")
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

	if err := h.PostService.DeleteComment(r.Context(), userID, wallUserID, postID, commentID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}

// CreateReaction adds a reaction to a wall post.
func (h *UserPostHandler) CreateReaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	wallUserID, ok := pathID(w, r, "userID")
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

	reaction, err := h.PostService.CreateReaction(r.Context(), userID, wallUserID, postID, req.Reaction)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, reaction)
}

// ListReactions returns a post's reactions.
func (h *UserPostHandler) ListReactions(w http.ResponseWriter, r *http.Request) {
	wallUserID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	reactions, err := h.PostService.ListReactions(r.Context(), wallUserID, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, reactions)
}

// UpdateReaction changes a reaction's kind.
func (h *UserPostHandler) UpdateReaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	wallUserID, ok := pathID(w, r, "userID")
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

	reaction, err := h.PostService.UpdateReaction(r.Context(), userID, wallUserID, postID, reactionID, req.Reaction)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, reaction)
}

// DeleteReaction removes a reaction.
func (h *UserPostHandler) DeleteReaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	wallUserID, ok := pathID(w, r, "userID")
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

	if err := h.PostService.DeleteReaction(r.Context(), userID, wallUserID, postID, reactionID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusNoContent, nil)
}
