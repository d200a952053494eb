package handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkflow/inkflow/internal/middleware"
	"github.com/inkflow/inkflow/internal/models"
	"github.com/inkflow/inkflow/internal/repositories"
	"github.com/inkflow/inkflow/validators"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey,
	// same as the production Postgres connection
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

// setupTestServer wires every handler against the given database, mirroring
// the production route layout
func setupTestServer(db *gorm.DB) *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()

	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	tagRepo := repositories.NewPostgresTagRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	notifRepo := repositories.NewPostgresNotificationRepository(db)

	enricher := NewPostEnricher(likeRepo, commentRepo, bookmarkRepo)

	api := e.Group("/api/v1")
	public := api.Group("")
	optional := api.Group("", middleware.OptionalJWTAuthMiddleware())
	authed := api.Group("", middleware.JWTAuthMiddleware())

	NewAuthHandler(userRepo).RegisterAuthRoutes(public)
	NewPostHandler(postRepo, tagRepo, commentRepo, userRepo, enricher).RegisterPostRoutes(authed, public)
	NewUserHandler(userRepo, postRepo, followRepo, enricher).RegisterUserRoutes(public)
	NewTagHandler(tagRepo).RegisterTagRoutes(public)
	NewLikeHandler(likeRepo, bookmarkRepo, postRepo, notifRepo).RegisterLikeRoutes(authed, optional)
	NewBookmarkHandler(bookmarkRepo, postRepo, enricher).RegisterBookmarkRoutes(authed)
	NewFollowHandler(followRepo, userRepo, notifRepo).RegisterFollowRoutes(authed, optional)
	NewCommentHandler(commentRepo, postRepo, userRepo, notifRepo).RegisterCommentRoutes(authed)
	NewNotificationHandler(notifRepo).RegisterNotificationRoutes(authed, optional)
	NewAdminHandler(userRepo, postRepo, likeRepo, followRepo, enricher).RegisterAdminRoutes(authed)

	return e
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: "hashedpassword",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, authorID uint, slug, status string) *models.Post {
	post := &models.Post{
		Title:    "Test Post",
		Slug:     slug,
		Content:  "<p>Test content</p>",
		Excerpt:  "Test content",
		Status:   status,
		ReadTime: 1,
		AuthorID: authorID,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// authToken signs a JWT the auth middleware accepts with its default secret
func authToken(t *testing.T, user *models.User) string {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("supersecretjwtkey"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func doRequest(e *echo.Echo, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
