package repositories

import (
	"github.com/inkflow/inkflow/internal/models"
	"gorm.io/gorm"
)

// TagWithCount is a tag plus its published-post total
type TagWithCount struct {
	models.Tag
	PostCount int64 `json:"post_count"`
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	GetOrCreateByName(name string) (*models.Tag, error)
	ListTagsWithCounts() ([]TagWithCount, error)
}

// PostgresTagRepository implements TagRepository for PostgreSQL
type PostgresTagRepository struct {
	db *gorm.DB
}

// NewPostgresTagRepository creates a new PostgresTagRepository
func NewPostgresTagRepository(db *gorm.DB) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

// GetOrCreateByName finds a tag by name, creating it when absent
func (r *PostgresTagRepository) GetOrCreateByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	tag = models.Tag{Name: name}
	if err := r.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListTagsWithCounts returns all tags with their published-post totals
func (r *PostgresTagRepository) ListTagsWithCounts() ([]TagWithCount, error) {
	var tags []TagWithCount
	err := r.db.Model(&models.Tag{}).
		Select("tags.*, COUNT(DISTINCT posts.id) AS post_count").
		Joins("LEFT JOIN tag_on_posts ON tag_on_posts.tag_id = tags.id").
		Joins("LEFT JOIN posts ON posts.id = tag_on_posts.post_id AND posts.status = ?", models.StatusPublished).
		Group("tags.id").
		Order("post_count DESC").
		Scan(&tags).Error
	return tags, err
}
