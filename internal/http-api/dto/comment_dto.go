package dto

import (
	"time"

	"blogapi/internal/http-api/models"
)

// CreateCommentRequest for commenting on a post, optionally as a reply.
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=5000"`
	PostID   int64  `json:"post_id" binding:"required,min=1"`
	ParentID *int64 `json:"parent_id" binding:"omitempty,min=1"`
}

// UpdateCommentRequest edits comment content. Approval and like count
// have dedicated endpoints.
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// CommentResponse for returning a comment with its author, parent
// reference and direct replies.
type CommentResponse struct {
	ID         int64              `json:"id"`
	Content    string             `json:"content"`
	IsApproved bool               `json:"is_approved"`
	LikeCount  int                `json:"like_count"`
	PostID     int64              `json:"post_id"`
	ParentID   *int64             `json:"parent_id,omitempty"`
	Author     *UserResponse      `json:"author,omitempty"`
	Parent     *CommentResponse   `json:"parent,omitempty"`
	Replies    []*CommentResponse `json:"replies,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	resp := &CommentResponse{
		ID:         comment.ID,
		Content:    comment.Content,
		IsApproved: comment.IsApproved,
		LikeCount:  comment.LikeCount,
		PostID:     comment.PostID,
		ParentID:   comment.ParentID,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
	if comment.Author.ID != "" {
		resp.Author = FromModelToUserResponse(&comment.Author)
	}
	if comment.Parent != nil {
		resp.Parent = FromModelToCommentResponse(comment.Parent)
	}
	for i := range comment.Replies {
		resp.Replies = append(resp.Replies, FromModelToCommentResponse(&comment.Replies[i]))
	}
	return resp
}
