package router

import (
	"github.com/inkflow/inkflow/internal/handlers"
	"github.com/inkflow/inkflow/internal/middleware"
	"github.com/inkflow/inkflow/internal/models"
	"github.com/inkflow/inkflow/internal/repositories"
	"github.com/inkflow/inkflow/internal/storage"
	"github.com/inkflow/inkflow/pkg/config"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupRoutes migrates the schema, wires repositories into handlers and
// registers every route under /api/v1
func SetupRoutes(e *echo.Echo, db *config.DB, store storage.Storage, cfg *config.Config) error {
	if err := db.Postgres.AutoMigrate(
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
		return err
	}

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewPostgresPostRepository(db.Postgres)
	tagRepo := repositories.NewPostgresTagRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	notifRepo := repositories.NewPostgresNotificationRepository(db.Postgres)

	enricher := handlers.NewPostEnricher(likeRepo, commentRepo, bookmarkRepo)

	authHandler := handlers.NewAuthHandler(userRepo)
	postHandler := handlers.NewPostHandler(postRepo, tagRepo, commentRepo, userRepo, enricher)
	userHandler := handlers.NewUserHandler(userRepo, postRepo, followRepo, enricher)
	tagHandler := handlers.NewTagHandler(tagRepo)
	likeHandler := handlers.NewLikeHandler(likeRepo, bookmarkRepo, postRepo, notifRepo)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, postRepo, enricher)
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notifRepo)
	notificationHandler := handlers.NewNotificationHandler(notifRepo)
	adminHandler := handlers.NewAdminHandler(userRepo, postRepo, likeRepo, followRepo, enricher)
	uploadHandler := handlers.NewUploadHandler(store, cfg.MaxUploadSize)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")

	// Three access tiers: public, optional auth (claims used when present)
	// and required auth
	public := api.Group("")
	optional := api.Group("", middleware.OptionalJWTAuthMiddleware())
	authed := api.Group("", middleware.JWTAuthMiddleware())

	authHandler.RegisterAuthRoutes(public)
	postHandler.RegisterPostRoutes(authed, public)
	userHandler.RegisterUserRoutes(public)
	tagHandler.RegisterTagRoutes(public)
	likeHandler.RegisterLikeRoutes(authed, optional)
	bookmarkHandler.RegisterBookmarkRoutes(authed)
	followHandler.RegisterFollowRoutes(authed, optional)
	commentHandler.RegisterCommentRoutes(authed)
	notificationHandler.RegisterNotificationRoutes(authed, optional)
	adminHandler.RegisterAdminRoutes(authed)
	uploadHandler.RegisterUploadRoutes(authed)

	return nil
}
