package dto

import (
	"time"

	"blogapi/internal/http-api/models"
)

// CreatePostRequest for creating a post. Slug is derived from the title
// when omitted; the post starts as a draft unless a status is given.
type CreatePostRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=200"`
	Slug          string `json:"slug" binding:"omitempty,max=250"`
	Content       string `json:"content" binding:"required"`
	Excerpt       string `json:"excerpt" binding:"omitempty"`
	FeaturedImage string `json:"featured_image" binding:"omitempty,max=255"`
	Status        string `json:"status" binding:"omitempty,oneof=draft published archived"`
	CategoryID    *int64 `json:"category_id" binding:"omitempty,min=1"`
}

// UpdatePostRequest patches a post. Nil fields are untouched.
type UpdatePostRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1,max=200"`
	Slug          *string `json:"slug" binding:"omitempty,max=250"`
	Content       *string `json:"content"`
	Excerpt       *string `json:"excerpt"`
	FeaturedImage *string `json:"featured_image" binding:"omitempty,max=255"`
	Status        *string `json:"status" binding:"omitempty,oneof=draft published archived"`
	CategoryID    *int64  `json:"category_id" binding:"omitempty,min=1"`
}

// PostFilterQuery binds the post listing filters on top of pagination.
type PostFilterQuery struct {
	PaginationQuery
	Search     string `form:"search" binding:"omitempty,max=200"`
	Status     string `form:"status" binding:"omitempty,oneof=draft published archived"`
	CategoryID int64  `form:"category_id" binding:"omitempty,min=1"`
	AuthorID   string `form:"author_id" binding:"omitempty,uuid"`
}

// PostResponse for returning a post. ContentHTML carries the rendered,
// sanitized markdown; Content is the raw source.
type PostResponse struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Content       string            `json:"content"`
	ContentHTML   string            `json:"content_html,omitempty"`
	Excerpt       string            `json:"excerpt,omitempty"`
	FeaturedImage string            `json:"featured_image,omitempty"`
	Status        string            `json:"status"`
	ViewCount     int               `json:"view_count"`
	LikeCount     int               `json:"like_count"`
	PublishedAt   *time.Time        `json:"published_at,omitempty"`
	Author        *UserResponse     `json:"author,omitempty"`
	CategoryID    *int64            `json:"category_id,omitempty"`
	Category      *CategoryResponse `json:"category,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// FromModelToPostResponse converts a Post model to PostResponse DTO.
// The rendered HTML is filled in by the service for detail views.
func FromModelToPostResponse(post *models.Post) *PostResponse {
	resp := &PostResponse{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Content:       post.Content,
		Excerpt:       post.Excerpt,
		FeaturedImage: post.FeaturedImage,
		Status:        post.Status,
		ViewCount:     post.ViewCount,
		LikeCount:     post.LikeCount,
		PublishedAt:   post.PublishedAt,
		CategoryID:    post.CategoryID,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
	if post.Author.ID != "" {
		resp.Author = FromModelToUserResponse(&post.Author)
	}
	if post.Category != nil {
		resp.Category = FromModelToCategoryResponse(post.Category)
	}
	return resp
}
