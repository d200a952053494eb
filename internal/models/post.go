package models

import "time"

// Post statuses
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Post represents an authored article
type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug" gorm:"uniqueIndex"`
	Content    string    `json:"content" gorm:"type:text"` // rendered HTML
	Excerpt    string    `json:"excerpt"`
	CoverImage string    `json:"cover_image"`
	Status     string    `json:"status" gorm:"size:10;index;default:'DRAFT'"`
	ReadTime   int       `json:"read_time"` // minutes
	Views      int64     `json:"views"`
	AuthorID   uint      `json:"author_id" gorm:"index"`
	Author     User      `json:"-" gorm:"foreignKey:AuthorID"`
	Tags       []Tag     `json:"tags" gorm:"many2many:tag_on_posts"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Content       string   `json:"content" validate:"required,min=1"`
	ContentFormat string   `json:"contentFormat,omitempty" validate:"omitempty,oneof=html markdown"`
	Excerpt       string   `json:"excerpt,omitempty" validate:"omitempty,max=300"`
	CoverImage    string   `json:"coverImage,omitempty" validate:"omitempty,url"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,max=5,dive,min=1,max=50"`
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Content       string   `json:"content" validate:"required,min=1"`
	ContentFormat string   `json:"contentFormat,omitempty" validate:"omitempty,oneof=html markdown"`
	Excerpt       string   `json:"excerpt,omitempty" validate:"omitempty,max=300"`
	CoverImage    string   `json:"coverImage,omitempty" validate:"omitempty,url"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,max=5,dive,min=1,max=50"`
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
}

// PostCounts carries per-post interaction totals
type PostCounts struct {
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Bookmarks int64 `json:"bookmarks"`
}
