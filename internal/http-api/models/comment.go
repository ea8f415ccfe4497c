package models

import "time"

// Comment is a node in a per-post reply tree. PostID is immutable after
// creation; a parent comment must belong to the same post.
type Comment struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsApproved bool      `json:"is_approved" gorm:"default:true;not null"`
	LikeCount  int       `json:"like_count" gorm:"default:0;not null"`
	AuthorID   string    `json:"author_id" gorm:"type:uuid;not null;index"`
	PostID     int64     `json:"post_id" gorm:"not null;index:idx_comments_post_created"`
	ParentID   *int64    `json:"parent_id,omitempty" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_comments_post_created"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author  User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Post    Post      `json:"post,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	Parent  *Comment  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Replies []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentClosure mirrors CategoryClosure for the per-post reply trees.
// Comments never reparent, so rows are written once at create time.
type CommentClosure struct {
	AncestorID   int64 `gorm:"primaryKey;autoIncrement:false"`
	DescendantID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	Depth        int   `gorm:"not null"`
}

func (CommentClosure) TableName() string {
	return "comment_closures"
}
