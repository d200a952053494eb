package models

// Tag is a topic label attached to posts
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"uniqueIndex"`
	Color string `json:"color"`
}

// TagOnPost joins posts and tags
type TagOnPost struct {
	PostID uint `json:"post_id" gorm:"primaryKey;index"`
	TagID  uint `json:"tag_id" gorm:"primaryKey;index"`
}
