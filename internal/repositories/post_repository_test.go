package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkflow/inkflow/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.TagOnPost{},
		&models.Like{},
		&models.Bookmark{},
		&models.Follow{},
		&models.Comment{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func createPost(t *testing.T, db *gorm.DB, slug, status string) *models.Post {
	user := &models.User{Name: "Author", Email: slug + "@example.com", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create author: %v", err)
	}
	post := &models.Post{Title: "Title", Slug: slug, Content: "<p>Body</p>", Status: status, AuthorID: user.ID}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func TestGetPostByIDOrSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)

	post := createPost(t, db, "my-slug", models.StatusPublished)

	byID, err := repo.GetPostByIDOrSlug(fmt.Sprintf("%d", post.ID))
	assert.NoError(t, err)
	assert.Equal(t, post.ID, byID.ID)

	bySlug, err := repo.GetPostByIDOrSlug("my-slug")
	assert.NoError(t, err)
	assert.Equal(t, post.ID, bySlug.ID)

	_, err = repo.GetPostByIDOrSlug("missing-slug")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGetPostByIDOrSlug_NumericSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)

	// A slug that happens to be all digits still resolves
	post := createPost(t, db, "12345", models.StatusPublished)

	found, err := repo.GetPostByIDOrSlug("12345")
	assert.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)
}

func TestIncrementViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)

	post := createPost(t, db, "counted", models.StatusPublished)

	assert.NoError(t, repo.IncrementViews(post.ID))
	assert.NoError(t, repo.IncrementViews(post.ID))

	var stored models.Post
	db.First(&stored, post.ID)
	assert.Equal(t, int64(2), stored.Views)
}

func TestSlugExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)

	createPost(t, db, "taken", models.StatusDraft)

	exists, err := repo.SlugExists("taken")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists("free")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestDuplicateLikeSurfacesAsDuplicatedKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresLikeRepository(db)

	post := createPost(t, db, "liked", models.StatusPublished)

	assert.NoError(t, repo.CreateLike(&models.Like{UserID: 1, PostID: post.ID}))
	err := repo.CreateLike(&models.Like{UserID: 1, PostID: post.ID})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestGetMonthlyEngagement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)

	post := createPost(t, db, "this-month", models.StatusPublished)
	db.Model(post).Update("views", 10)
	createPost(t, db, "draft-this-month", models.StatusDraft)

	series, err := repo.GetMonthlyEngagement(6)
	assert.NoError(t, err)
	assert.Equal(t, 6, len(series))

	current := series[len(series)-1]
	assert.Equal(t, int64(1), current.Posts)
	assert.Equal(t, int64(10), current.Views)

	// Older months saw no activity
	assert.Equal(t, int64(0), series[0].Posts)
	assert.Equal(t, int64(0), series[0].Views)
}
