package models

import "time"

// Post statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

type Post struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string     `json:"title" gorm:"size:200;not null"`
	Slug          string     `json:"slug" gorm:"uniqueIndex;size:250;not null"`
	Content       string     `json:"content" gorm:"type:text;not null"`
	Excerpt       string     `json:"excerpt,omitempty" gorm:"type:text"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	Status        string     `json:"status" gorm:"size:20;default:'draft';not null;index"`
	ViewCount     int        `json:"view_count" gorm:"default:0;not null"`
	LikeCount     int        `json:"like_count" gorm:"default:0;not null"`
	PublishedAt   *time.Time `json:"published_at,omitempty" gorm:"index"`
	AuthorID      string     `json:"author_id" gorm:"type:uuid;not null;index"`
	CategoryID    *int64     `json:"category_id,omitempty" gorm:"index"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author   User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "posts"
}
