package repository

import (
	"context"
	"fmt"

	"blogapi/internal/http-api/models"

	"gorm.io/gorm"
)

// CategoryRepository persists the category tree. The parent_id column is
// the adjacency edge; category_closures holds the transitive closure and
// both are written inside one transaction so they never diverge.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	UpdateParent(ctx context.Context, id int64, parentID *int64) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	FindPaginated(ctx context.Context, page, limit int) ([]models.Category, int64, error)
	FindRoots(ctx context.Context) ([]models.Category, error)
	FindDescendants(ctx context.Context, id int64) ([]models.Category, error)
	FindAncestors(ctx context.Context, id int64) ([]models.Category, error)
	CountDescendants(ctx context.Context, id int64) (int64, error)
	IsDescendant(ctx context.Context, ancestorID, descendantID int64) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts the node and its closure rows: the depth-0 self pair
// plus one pair per ancestor inherited from the parent.
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(category).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.CategoryClosure{
			AncestorID:   category.ID,
			DescendantID: category.ID,
			Depth:        0,
		}).Error; err != nil {
			return err
		}

		if category.ParentID != nil {
			return tx.Exec(`
				INSERT INTO category_closures (ancestor_id, descendant_id, depth)
				SELECT ancestor_id, ?, depth + 1
				FROM category_closures
				WHERE descendant_id = ?`,
				category.ID, *category.ParentID,
			).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update saves scalar columns only. Parent changes go through
// UpdateParent so the closure table stays consistent.
func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// UpdateParent moves the node's subtree under the new parent: detach the
// subtree's closure rows from the old ancestor chain, then cross-join the
// new parent's ancestors with the subtree.
func (r *categoryRepository) UpdateParent(ctx context.Context, id int64, parentID *int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			DELETE FROM category_closures
			WHERE descendant_id IN (
				SELECT descendant_id FROM category_closures WHERE ancestor_id = ?
			)
			AND ancestor_id NOT IN (
				SELECT descendant_id FROM category_closures WHERE ancestor_id = ?
			)`,
			id, id,
		).Error; err != nil {
			return err
		}

		if parentID != nil {
			if err := tx.Exec(`
				INSERT INTO category_closures (ancestor_id, descendant_id, depth)
				SELECT super.ancestor_id, sub.descendant_id, super.depth + sub.depth + 1
				FROM category_closures AS super, category_closures AS sub
				WHERE super.descendant_id = ? AND sub.ancestor_id = ?`,
				*parentID, id,
			).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Category{}).Where("id = ?", id).
			Update("parent_id", parentID).Error
	})
	if err != nil {
		return fmt.Errorf("reparent category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ancestor_id = ? OR descendant_id = ?", id, id).
			Delete(&models.CategoryClosure{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Children").
		First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Children").
		Where("slug = ?", slug).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return list, nil
}

func (r *categoryRepository) FindPaginated(ctx context.Context, page, limit int) ([]models.Category, int64, error) {
	var list []models.Category
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *categoryRepository) FindRoots(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("sort_order ASC, created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get root categories: %w", err)
	}
	return list, nil
}

// FindDescendants returns every node below the given one, nearest first.
func (r *categoryRepository) FindDescendants(ctx context.Context, id int64) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Joins("JOIN category_closures cc ON cc.descendant_id = categories.id").
		Where("cc.ancestor_id = ? AND cc.depth > 0", id).
		Order("cc.depth ASC, categories.sort_order ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get category descendants: %w", err)
	}
	return list, nil
}

// FindAncestors returns the chain above the given node, root first.
func (r *categoryRepository) FindAncestors(ctx context.Context, id int64) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Joins("JOIN category_closures cc ON cc.ancestor_id = categories.id").
		Where("cc.descendant_id = ? AND cc.depth > 0", id).
		Order("cc.depth DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get category ancestors: %w", err)
	}
	return list, nil
}

func (r *categoryRepository) CountDescendants(ctx context.Context, id int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryClosure{}).
		Where("ancestor_id = ? AND depth > 0", id).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count category descendants: %w", err)
	}
	return count, nil
}

// IsDescendant reports whether descendantID sits below ancestorID. Used
// by the cycle guard before a reparent.
func (r *categoryRepository) IsDescendant(ctx context.Context, ancestorID, descendantID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryClosure{}).
		Where("ancestor_id = ? AND descendant_id = ? AND depth > 0", ancestorID, descendantID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check category descendant: %w", err)
	}
	return count > 0, nil
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return count > 0, nil
}
