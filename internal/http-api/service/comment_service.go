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

type CommentService interface {
	Create(ctx context.Context, req dto.CreateCommentRequest, authorID string) (*dto.CommentResponse, error)
	Update(ctx context.Context, id int64, content string, caller Caller) (*dto.CommentResponse, error)
	Remove(ctx context.Context, id int64, caller Caller) error
	Approve(ctx context.Context, id int64, approved bool) (*dto.CommentResponse, error)
	Like(ctx context.Context, id int64) error
	Unlike(ctx context.Context, id int64) error
	FindOne(ctx context.Context, id int64) (*dto.CommentResponse, error)
	FindByPostID(ctx context.Context, postID int64, page, limit int) (*dto.Paginated[*dto.CommentResponse], error)
	FindApprovedByPostID(ctx context.Context, postID int64) ([]*dto.CommentResponse, error)
	FindReplies(ctx context.Context, id int64) ([]*dto.CommentResponse, error)
}

// Caller identifies the authenticated user a mutation runs as.
type Caller struct {
	UserID string
	Role   string
}

// CanModify reports whether the caller may mutate a resource owned by
// ownerID. Admin is the only role that bypasses ownership.
func (c Caller) CanModify(ownerID string) bool {
	return c.Role == models.RoleAdmin || c.UserID == ownerID
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// Create attaches a comment to a post, optionally as a reply to a
// parent comment on the same post. Comments start out approved.
func (s *commentService) Create(ctx context.Context, req dto.CreateCommentRequest, authorID string) (*dto.CommentResponse, error) {
	if _, err := s.postRepo.FindByID(ctx, req.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post %d not found", req.PostID)
		}
		return nil, err
	}

	if _, err := s.userRepo.FindByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("author %s not found", authorID)
		}
		return nil, err
	}

	// A reply's parent must live on the same post; a parent on another
	// post is indistinguishable from a missing one.
	if req.ParentID != nil {
		if _, err := s.commentRepo.FindByIDAndPost(ctx, *req.ParentID, req.PostID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("parent comment %d not found on post %d", *req.ParentID, req.PostID)
			}
			return nil, err
		}
	}

	comment := &models.Comment{
		Content:    utils.SanitizeComment(req.Content),
		IsApproved: true,
		AuthorID:   authorID,
		PostID:     req.PostID,
		ParentID:   req.ParentID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(created), nil
}

// Update edits comment content. Only the author or an admin may edit.
func (s *commentService) Update(ctx context.Context, id int64, content string, caller Caller) (*dto.CommentResponse, error) {
	comment, err := s.findComment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.CanModify(comment.AuthorID) {
		return nil, apperr.Forbidden("only the comment author may edit it")
	}

	comment.Content = utils.SanitizeComment(content)
	comment.Parent = nil
	comment.Replies = nil
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(updated), nil
}

// Remove deletes a comment with no replies. Only the author or an admin
// may delete.
func (s *commentService) Remove(ctx context.Context, id int64, caller Caller) error {
	comment, err := s.findComment(ctx, id)
	if err != nil {
		return err
	}

	if !caller.CanModify(comment.AuthorID) {
		return apperr.Forbidden("only the comment author may delete it")
	}

	count, err := s.commentRepo.CountDescendants(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("comment %d has replies and cannot be deleted", id)
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("comment %d not found", id)
		}
		return err
	}
	return nil
}

func (s *commentService) Approve(ctx context.Context, id int64, approved bool) (*dto.CommentResponse, error) {
	comment, err := s.findComment(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.IsApproved = approved
	comment.Parent = nil
	comment.Replies = nil
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(updated), nil
}

func (s *commentService) Like(ctx context.Context, id int64) error {
	if _, err := s.findComment(ctx, id); err != nil {
		return err
	}
	return s.commentRepo.IncrementLikeCount(ctx, id)
}

// Unlike decrements the like counter; at zero it is a no-op.
func (s *commentService) Unlike(ctx context.Context, id int64) error {
	if _, err := s.findComment(ctx, id); err != nil {
		return err
	}
	return s.commentRepo.DecrementLikeCount(ctx, id)
}

func (s *commentService) FindOne(ctx context.Context, id int64) (*dto.CommentResponse, error) {
	comment, err := s.findComment(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) FindByPostID(ctx context.Context, postID int64, page, limit int) (*dto.Paginated[*dto.CommentResponse], error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post %d not found", postID)
		}
		return nil, err
	}

	comments, total, err := s.commentRepo.FindByPost(ctx, postID, page, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginated(responses, int(total), page, limit), nil
}

func (s *commentService) FindApprovedByPostID(ctx context.Context, postID int64) ([]*dto.CommentResponse, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post %d not found", postID)
		}
		return nil, err
	}

	comments, err := s.commentRepo.FindApprovedByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, dto.FromModelToCommentResponse(&comments[i]))
	}
	return responses, nil
}

// FindReplies returns the full reply subtree, excluding the comment
// itself.
func (s *commentService) FindReplies(ctx context.Context, id int64) ([]*dto.CommentResponse, error) {
	if _, err := s.findComment(ctx, id); err != nil {
		return nil, err
	}

	replies, err := s.commentRepo.FindDescendants(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CommentResponse, 0, len(replies))
	for i := range replies {
		responses = append(responses, dto.FromModelToCommentResponse(&replies[i]))
	}
	return responses, nil
}

func (s *commentService) findComment(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment %d not found", id)
		}
		return nil, err
	}
	return comment, nil
}
