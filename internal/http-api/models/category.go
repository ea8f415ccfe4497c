package models

import "time"

// Category is a node in the site-wide classification tree. The parent
// edge is the source of truth; CategoryClosure rows are maintained
// alongside it for ancestor/descendant queries.
type Category struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;size:150;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	SortOrder   int       `json:"sort_order" gorm:"default:0;not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true;not null"`
	ParentID    *int64    `json:"parent_id,omitempty" gorm:"index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Parent   *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Posts    []Post     `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryClosure holds one row per (ancestor, descendant) pair in the
// category tree, including the depth-0 self pair. Maintained inside the
// same transaction as the adjacency edge.
type CategoryClosure struct {
	AncestorID   int64 `gorm:"primaryKey;autoIncrement:false"`
	DescendantID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	Depth        int   `gorm:"not null"`
}

func (CategoryClosure) TableName() string {
	return "category_closures"
}
