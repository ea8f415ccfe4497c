package dto

import (
	"time"

	"blogapi/internal/http-api/models"
)

// CreateCategoryRequest for creating a category. Slug is derived from
// the name when omitted.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=150"`
	Description string `json:"description" binding:"omitempty"`
	SortOrder   int    `json:"sort_order" binding:"omitempty"`
	ParentID    *int64 `json:"parent_id" binding:"omitempty,min=1"`
}

// UpdateCategoryRequest patches a category. Nil fields are untouched.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug" binding:"omitempty,max=150"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
	ParentID    *int64  `json:"parent_id" binding:"omitempty,min=1"`
}

// CategoryResponse for returning a category, optionally with its parent
// chain or child subtree populated.
type CategoryResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description,omitempty"`
	SortOrder   int                 `json:"sort_order"`
	IsActive    bool                `json:"is_active"`
	ParentID    *int64              `json:"parent_id,omitempty"`
	Parent      *CategoryResponse   `json:"parent,omitempty"`
	Children    []*CategoryResponse `json:"children,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FromModelToCategoryResponse converts a Category model, following the
// preloaded parent and direct children one level deep.
func FromModelToCategoryResponse(category *models.Category) *CategoryResponse {
	resp := newCategoryResponse(category)
	if category.Parent != nil {
		resp.Parent = newCategoryResponse(category.Parent)
	}
	for i := range category.Children {
		resp.Children = append(resp.Children, newCategoryResponse(&category.Children[i]))
	}
	return resp
}

func newCategoryResponse(category *models.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		SortOrder:   category.SortOrder,
		IsActive:    category.IsActive,
		ParentID:    category.ParentID,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// BuildCategoryForest assembles the flat node list into root-to-leaf
// trees, preserving the input ordering among siblings.
func BuildCategoryForest(categories []models.Category) []*CategoryResponse {
	nodes := make(map[int64]*CategoryResponse, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = newCategoryResponse(&categories[i])
	}

	var roots []*CategoryResponse
	for i := range categories {
		node := nodes[categories[i].ID]
		if categories[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*categories[i].ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			// Orphaned by a concurrent delete; surface it as a root.
			roots = append(roots, node)
		}
	}
	return roots
}
