package service

import (
	"context"
	"errors"
	"time"

	"blogapi/internal/http-api/apperr"
	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"
	"blogapi/internal/utils"

	"gorm.io/gorm"
)

type PostService interface {
	Create(ctx context.Context, req dto.CreatePostRequest, authorID string) (*dto.PostResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdatePostRequest, caller Caller) (*dto.PostResponse, error)
	Remove(ctx context.Context, id int64, caller Caller) error
	Publish(ctx context.Context, id int64, caller Caller) (*dto.PostResponse, error)
	Draft(ctx context.Context, id int64, caller Caller) (*dto.PostResponse, error)
	Like(ctx context.Context, id int64) error
	Unlike(ctx context.Context, id int64) error
	FindAll(ctx context.Context, filter repository.PostFilter) (*dto.Paginated[*dto.PostResponse], error)
	FindOne(ctx context.Context, id int64) (*dto.PostResponse, error)
	FindBySlug(ctx context.Context, slug string) (*dto.PostResponse, error)
}

type postService struct {
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
) PostService {
	return &postService{
		postRepo:     postRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *postService) Create(ctx context.Context, req dto.CreatePostRequest, authorID string) (*dto.PostResponse, error) {
	if _, err := s.userRepo.FindByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("author %s not found", authorID)
		}
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("category %d not found", *req.CategoryID)
			}
			return nil, err
		}
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Title)
	}
	if slug == "" {
		return nil, apperr.Validation("post title does not yield a usable slug")
	}

	exists, err := s.postRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("slug %q is already in use", slug)
	}

	status := req.Status
	if status == "" {
		status = models.PostStatusDraft
	}

	post := &models.Post{
		Title:         req.Title,
		Slug:          slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Status:        status,
		AuthorID:      authorID,
		CategoryID:    req.CategoryID,
	}
	if status == models.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("slug %q is already in use", slug)
		}
		return nil, err
	}

	created, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(created), nil
}

func (s *postService) Update(ctx context.Context, id int64, req dto.UpdatePostRequest, caller Caller) (*dto.PostResponse, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.CanModify(post.AuthorID) {
		return nil, apperr.Forbidden("only the post author may edit it")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("category %d not found", *req.CategoryID)
			}
			return nil, err
		}
		post.CategoryID = req.CategoryID
	}

	if req.Title != nil {
		post.Title = *req.Title
		if req.Slug == nil {
			slug := utils.GenerateSlug(*req.Title)
			if slug == "" {
				return nil, apperr.Validation("post title does not yield a usable slug")
			}
			req.Slug = &slug
		}
	}

	if req.Slug != nil && *req.Slug != post.Slug {
		exists, err := s.postRepo.SlugExists(ctx, *req.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.Conflict("slug %q is already in use", *req.Slug)
		}
		post.Slug = *req.Slug
	}

	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Status != nil && *req.Status != post.Status {
		post.Status = *req.Status
		if *req.Status == models.PostStatusPublished {
			now := time.Now()
			post.PublishedAt = &now
		}
	}

	post.Category = nil
	post.Comments = nil
	if err := s.postRepo.Update(ctx, post); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("slug %q is already in use", post.Slug)
		}
		return nil, err
	}

	updated, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(updated), nil
}

func (s *postService) Remove(ctx context.Context, id int64, caller Caller) error {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}

	if !caller.CanModify(post.AuthorID) {
		return apperr.Forbidden("only the post author may delete it")
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post %d not found", id)
		}
		return err
	}
	return nil
}

func (s *postService) Publish(ctx context.Context, id int64, caller Caller) (*dto.PostResponse, error) {
	return s.setStatus(ctx, id, models.PostStatusPublished, caller)
}

func (s *postService) Draft(ctx context.Context, id int64, caller Caller) (*dto.PostResponse, error) {
	return s.setStatus(ctx, id, models.PostStatusDraft, caller)
}

func (s *postService) setStatus(ctx context.Context, id int64, status string, caller Caller) (*dto.PostResponse, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.CanModify(post.AuthorID) {
		return nil, apperr.Forbidden("only the post author may change its status")
	}

	post.Status = status
	if status == models.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	} else {
		post.PublishedAt = nil
	}

	post.Category = nil
	post.Comments = nil
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.toResponse(post), nil
}

func (s *postService) Like(ctx context.Context, id int64) error {
	if _, err := s.findPost(ctx, id); err != nil {
		return err
	}
	return s.postRepo.IncrementLikeCount(ctx, id)
}

func (s *postService) Unlike(ctx context.Context, id int64) error {
	if _, err := s.findPost(ctx, id); err != nil {
		return err
	}
	return s.postRepo.DecrementLikeCount(ctx, id)
}

func (s *postService) FindAll(ctx context.Context, filter repository.PostFilter) (*dto.Paginated[*dto.PostResponse], error) {
	posts, total, err := s.postRepo.FindFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, dto.FromModelToPostResponse(&posts[i]))
	}
	return dto.NewPaginated(responses, int(total), filter.Page, filter.Limit), nil
}

// FindOne returns the post with rendered content and bumps the view
// counter.
func (s *postService) FindOne(ctx context.Context, id int64) (*dto.PostResponse, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.IncrementViewCount(ctx, id); err != nil {
		return nil, err
	}
	return s.toResponse(post), nil
}

func (s *postService) FindBySlug(ctx context.Context, slug string) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post with slug %q not found", slug)
		}
		return nil, err
	}
	if err := s.postRepo.IncrementViewCount(ctx, post.ID); err != nil {
		return nil, err
	}
	return s.toResponse(post), nil
}

// toResponse renders the markdown for detail views.
func (s *postService) toResponse(post *models.Post) *dto.PostResponse {
	resp := dto.FromModelToPostResponse(post)
	resp.ContentHTML = utils.RenderMarkdown(post.Content)
	return resp
}

func (s *postService) findPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post %d not found", id)
		}
		return nil, err
	}
	return post, nil
}
