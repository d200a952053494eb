package repositories

import (
	"strconv"
	"strings"
	"time"

	"github.com/inkflow/inkflow/internal/models"
	"gorm.io/gorm"
)

// PostListParams are the filters accepted by the public listing
type PostListParams struct {
	Page   int
	Limit  int
	Tag    string
	Search string
	Sort   string // "latest" or "trending"
}

// MonthlyEngagement is one month of post/view activity for the admin dashboard
type MonthlyEngagement struct {
	Month string `json:"month"`
	Posts int64  `json:"posts"`
	Views int64  `json:"views"`
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostByIDOrSlug(idOrSlug string) (*models.Post, error)
	GetPostsByAuthor(authorID uint, status string) ([]models.Post, error)
	GetPostsByIDs(ids []uint) ([]models.Post, error)
	ListPosts(params PostListParams) ([]models.Post, int64, error)
	ListAllPosts() ([]models.Post, error)
	UpdatePost(post *models.Post) error
	ReplaceTags(postID uint, tags []models.Tag) error
	DeletePost(id uint) error
	SlugExists(slug string) (bool, error)
	IncrementViews(id uint) error
	CountByStatus(status string) (int64, error)
	SumViews() (int64, error)
	GetMonthlyEngagement(months int) ([]MonthlyEngagement, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").Preload("Tags").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostByIDOrSlug resolves a path parameter that may be a numeric ID or a slug
func (r *PostgresPostRepository) GetPostByIDOrSlug(idOrSlug string) (*models.Post, error) {
	query := r.db.Preload("Author").Preload("Tags")
	if id, err := strconv.ParseUint(idOrSlug, 10, 32); err == nil {
		query = query.Where("id = ? OR slug = ?", uint(id), idOrSlug)
	} else {
		query = query.Where("slug = ?", idOrSlug)
	}

	var post models.Post
	if err := query.First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostgresPostRepository) GetPostsByAuthor(authorID uint, status string) ([]models.Post, error) {
	var posts []models.Post
	query := r.db.Preload("Author").Preload("Tags").Where("author_id = ?", authorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetPostsByIDs(ids []uint) ([]models.Post, error) {
	var posts []models.Post
	if len(ids) == 0 {
		return posts, nil
	}
	err := r.db.Preload("Author").Preload("Tags").Where("id IN ?", ids).Find(&posts).Error
	return posts, err
}

// ListPosts returns a page of published posts plus the total match count.
// Tag and search filters are ANDed when both are present.
func (r *PostgresPostRepository) ListPosts(params PostListParams) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{}).Where("status = ?", models.StatusPublished)

	if params.Tag != "" {
		query = query.Where("id IN (?)",
			r.db.Table("tag_on_posts").
				Select("tag_on_posts.post_id").
				Joins("JOIN tags ON tags.id = tag_on_posts.tag_id").
				Where("tags.name = ?", params.Tag),
		)
	}
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Sort == "trending" {
		query = query.Order("views DESC, created_at DESC")
	} else {
		query = query.Order("created_at DESC")
	}

	var posts []models.Post
	offset := (params.Page - 1) * params.Limit
	err := query.Preload("Author").Preload("Tags").
		Offset(offset).Limit(params.Limit).
		Find(&posts).Error
	return posts, total, err
}

// ListAllPosts returns every post regardless of status, newest first (admin view)
func (r *PostgresPostRepository) ListAllPosts() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Omit("Tags").Save(post).Error
}

// ReplaceTags swaps the full tag set of a post
func (r *PostgresPostRepository) ReplaceTags(postID uint, tags []models.Tag) error {
	return r.db.Model(&models.Post{ID: postID}).Association("Tags").Replace(tags)
}

func (r *PostgresPostRepository) DeletePost(id uint) error {
	if err := r.db.Where("post_id = ?", id).Delete(&models.TagOnPost{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *PostgresPostRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// IncrementViews bumps the view counter by one in a single UPDATE
func (r *PostgresPostRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *PostgresPostRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) SumViews() (int64, error) {
	var total int64
	err := r.db.Model(&models.Post{}).Select("COALESCE(SUM(views), 0)").Scan(&total).Error
	return total, err
}

// GetMonthlyEngagement aggregates published-post and view activity per calendar
// month for the trailing window, oldest month first
func (r *PostgresPostRepository) GetMonthlyEngagement(months int) ([]MonthlyEngagement, error) {
	now := time.Now()
	result := make([]MonthlyEngagement, 0, months)

	for i := months - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		var posts int64
		if err := r.db.Model(&models.Post{}).
			Where("created_at >= ? AND created_at < ? AND status = ?", start, end, models.StatusPublished).
			Count(&posts).Error; err != nil {
			return nil, err
		}

		var views int64
		if err := r.db.Model(&models.Post{}).
			Select("COALESCE(SUM(views), 0)").
			Where("created_at >= ? AND created_at < ?", start, end).
			Scan(&views).Error; err != nil {
			return nil, err
		}

		result = append(result, MonthlyEngagement{
			Month: start.Format("Jan"),
			Posts: posts,
			Views: views,
		})
	}

	return result, nil
}
