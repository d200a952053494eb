package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/inkflow/inkflow/internal/models"
	"github.com/inkflow/inkflow/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler serves public author profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
	enricher         *PostEnricher
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	followRepo repositories.FollowRepository,
	enricher *PostEnricher,
) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		postRepository:   postRepo,
		followRepository: followRepo,
		enricher:         enricher,
	}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(public *echo.Group) {
	public.GET("/users/:id", h.GetProfile)
}

// ProfileResponse is a public author profile with counts and published posts
type ProfileResponse struct {
	User           models.UserCompact `json:"user"`
	Bio            string             `json:"bio"`
	PostCount      int                `json:"postCount"`
	FollowerCount  int64              `json:"followerCount"`
	FollowingCount int64              `json:"followingCount"`
	Posts          []EnrichedPost     `json:"posts"`
}

// GetProfile returns a user's public profile: identity, follower and
// following counts, and their published posts. Drafts are never exposed here.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	posts, err := h.postRepository.GetPostsByAuthor(user.ID, models.StatusPublished)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	followerCount, err := h.followRepository.GetFollowersCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}
	followingCount, err := h.followRepository.GetFollowingCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	enriched, err := h.enricher.enrichPosts(posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		User:           user.ToCompact(),
		Bio:            user.Bio,
		PostCount:      len(posts),
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		Posts:          enriched,
	})
}
