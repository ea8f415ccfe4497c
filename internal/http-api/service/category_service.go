package service

import (
	"context"
	"errors"

	"blogapi/internal/http-api/apperr"
	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"
	"blogapi/internal/utils"

	"gorm.io/gorm"
)

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Remove(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]*dto.CategoryResponse, error)
	FindAllPaginated(ctx context.Context, page, limit int) (*dto.Paginated[*dto.CategoryResponse], error)
	FindOne(ctx context.Context, id int64) (*dto.CategoryResponse, error)
	FindBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error)
	FindRoots(ctx context.Context) ([]*dto.CategoryResponse, error)
	FindChildren(ctx context.Context, id int64) ([]*dto.CategoryResponse, error)
	FindAncestors(ctx context.Context, id int64) ([]*dto.CategoryResponse, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// Create adds a category, deriving the slug from the name when none is
// given and attaching it under the parent when one is named.
func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}
	if slug == "" {
		return nil, apperr.Validation("category name does not yield a usable slug")
	}

	exists, err := s.categoryRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("slug %q is already in use", slug)
	}

	if req.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("parent category %d not found", *req.ParentID)
			}
			return nil, err
		}
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
		ParentID:    req.ParentID,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		// The uniqueness pre-check can lose a race; the index is the
		// final arbiter.
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("slug %q is already in use", slug)
		}
		return nil, err
	}

	created, err := s.categoryRepo.FindByID(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCategoryResponse(created), nil
}

// Update patches scalar fields and, when the parent changes, moves the
// node after verifying the move cannot close a cycle.
func (s *categoryService) Update(ctx context.Context, id int64, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
		if req.Slug == nil {
			slug := utils.GenerateSlug(*req.Name)
			if slug == "" {
				return nil, apperr.Validation("category name does not yield a usable slug")
			}
			req.Slug = &slug
		}
	}

	if req.Slug != nil && *req.Slug != category.Slug {
		exists, err := s.categoryRepo.SlugExists(ctx, *req.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.Conflict("slug %q is already in use", *req.Slug)
		}
		category.Slug = *req.Slug
	}

	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	reparent := req.ParentID != nil &&
		(category.ParentID == nil || *category.ParentID != *req.ParentID)
	if reparent {
		if err := s.checkReparent(ctx, id, *req.ParentID); err != nil {
			return nil, err
		}
	}

	// Save scalars without touching preloaded associations.
	category.Parent = nil
	category.Children = nil
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("slug %q is already in use", category.Slug)
		}
		return nil, err
	}

	if reparent {
		if err := s.categoryRepo.UpdateParent(ctx, id, req.ParentID); err != nil {
			return nil, err
		}
	}

	updated, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCategoryResponse(updated), nil
}

// checkReparent rejects a new parent that does not exist, or one that
// would make the node its own ancestor.
func (s *categoryService) checkReparent(ctx context.Context, id, parentID int64) error {
	if parentID == id {
		return apperr.Conflict("category cannot be its own parent")
	}
	if _, err := s.categoryRepo.FindByID(ctx, parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("parent category %d not found", parentID)
		}
		return err
	}
	isDescendant, err := s.categoryRepo.IsDescendant(ctx, id, parentID)
	if err != nil {
		return err
	}
	if isDescendant {
		return apperr.Conflict("cannot move category %d under its own descendant %d", id, parentID)
	}
	return nil
}

// Remove deletes a childless category.
func (s *categoryService) Remove(ctx context.Context, id int64) error {
	if _, err := s.findCategory(ctx, id); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountDescendants(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("category %d has child categories and cannot be deleted", id)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category %d not found", id)
		}
		return err
	}
	return nil
}

// FindAll returns the full forest with children nested recursively.
func (s *categoryService) FindAll(ctx context.Context) ([]*dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.BuildCategoryForest(categories), nil
}

func (s *categoryService) FindAllPaginated(ctx context.Context, page, limit int) (*dto.Paginated[*dto.CategoryResponse], error) {
	categories, total, err := s.categoryRepo.FindPaginated(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, dto.FromModelToCategoryResponse(&categories[i]))
	}
	return dto.NewPaginated(responses, int(total), page, limit), nil
}

func (s *categoryService) FindOne(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCategoryResponse(category), nil
}

func (s *categoryService) FindBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category with slug %q not found", slug)
		}
		return nil, err
	}
	return dto.FromModelToCategoryResponse(category), nil
}

func (s *categoryService) FindRoots(ctx context.Context) ([]*dto.CategoryResponse, error) {
	roots, err := s.categoryRepo.FindRoots(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CategoryResponse, 0, len(roots))
	for i := range roots {
		responses = append(responses, dto.FromModelToCategoryResponse(&roots[i]))
	}
	return responses, nil
}

// FindChildren returns every descendant of the node, excluding itself.
func (s *categoryService) FindChildren(ctx context.Context, id int64) ([]*dto.CategoryResponse, error) {
	if _, err := s.findCategory(ctx, id); err != nil {
		return nil, err
	}

	descendants, err := s.categoryRepo.FindDescendants(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CategoryResponse, 0, len(descendants))
	for i := range descendants {
		responses = append(responses, dto.FromModelToCategoryResponse(&descendants[i]))
	}
	return responses, nil
}

// FindAncestors returns the chain from the node up to its root,
// excluding the node itself.
func (s *categoryService) FindAncestors(ctx context.Context, id int64) ([]*dto.CategoryResponse, error) {
	if _, err := s.findCategory(ctx, id); err != nil {
		return nil, err
	}

	ancestors, err := s.categoryRepo.FindAncestors(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CategoryResponse, 0, len(ancestors))
	for i := range ancestors {
		responses = append(responses, dto.FromModelToCategoryResponse(&ancestors[i]))
	}
	return responses, nil
}

func (s *categoryService) findCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category %d not found", id)
		}
		return nil, err
	}
	return category, nil
}
