package repository

import (
	"context"
	"fmt"

	"blogapi/internal/http-api/models"

	"gorm.io/gorm"
)

// CommentRepository persists the per-post reply trees. Closure rows are
// written at create time; comments never move between parents or posts.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	FindByIDAndPost(ctx context.Context, id, postID int64) (*models.Comment, error)
	FindByPost(ctx context.Context, postID int64, page, limit int) ([]models.Comment, int64, error)
	FindApprovedByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	FindDescendants(ctx context.Context, id int64) ([]models.Comment, error)
	CountDescendants(ctx context.Context, id int64) (int64, error)
	IncrementLikeCount(ctx context.Context, id int64) error
	DecrementLikeCount(ctx context.Context, id int64) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.CommentClosure{
			AncestorID:   comment.ID,
			DescendantID: comment.ID,
			Depth:        0,
		}).Error; err != nil {
			return err
		}

		if comment.ParentID != nil {
			return tx.Exec(`
				INSERT INTO comment_closures (ancestor_id, descendant_id, depth)
				SELECT ancestor_id, ?, depth + 1
				FROM comment_closures
				WHERE descendant_id = ?`,
				comment.ID, *comment.ParentID,
			).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ancestor_id = ? OR descendant_id = ?", id, id).
			Delete(&models.CommentClosure{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Parent").
		Preload("Replies").
		First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByIDAndPost looks up a comment constrained to a post. Used to
// validate that a reply's parent lives on the same post.
func (r *commentRepository) FindByIDAndPost(ctx context.Context, id, postID int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", id, postID).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByPost(ctx context.Context, postID int64, page, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Preload("Author").
		Preload("Parent").
		Preload("Replies").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) FindApprovedByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND is_approved = ?", postID, true).
		Preload("Author").
		Preload("Parent").
		Preload("Replies").
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("get approved comments: %w", err)
	}
	return comments, nil
}

// FindDescendants returns the full reply subtree, nearest replies first.
func (r *commentRepository) FindDescendants(ctx context.Context, id int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Joins("JOIN comment_closures cc ON cc.descendant_id = comments.id").
		Where("cc.ancestor_id = ? AND cc.depth > 0", id).
		Preload("Author").
		Order("cc.depth ASC, comments.created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("get comment replies: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) CountDescendants(ctx context.Context, id int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CommentClosure{}).
		Where("ancestor_id = ? AND depth > 0", id).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count comment replies: %w", err)
	}
	return count, nil
}

// IncrementLikeCount bumps the counter server-side so concurrent likes
// never lose updates.
func (r *commentRepository) IncrementLikeCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
}

// DecrementLikeCount is a no-op once the counter reaches zero.
func (r *commentRepository) DecrementLikeCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND like_count > 0", id).
		UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
}
