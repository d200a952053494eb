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

// LikeHandler handles like toggles and per-post interaction status
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	bookmarkRepository     repositories.BookmarkRepository
	postRepository         repositories.PostRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	bookmarkRepo repositories.BookmarkRepository,
	postRepo repositories.PostRepository,
	notifRepo repositories.NotificationRepository,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		bookmarkRepository:     bookmarkRepo,
		postRepository:         postRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterLikeRoutes registers like routes; toggling requires auth, the
// status query works for anonymous callers too
func (h *LikeHandler) RegisterLikeRoutes(authed, optional *echo.Group) {
	authed.POST("/posts/:id/like", h.ToggleLike)
	optional.GET("/posts/:id/status", h.GetInteractionStatus)
}

// ToggleLike flips the caller's like on a post and reports the new state
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(uint(postID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle like")
	}

	hasLiked, err := h.likeRepository.HasUserLikedPost(currentUserID, post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle like")
	}

	if hasLiked {
		if err := h.likeRepository.DeleteLike(currentUserID, post.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle like")
		}
		return c.JSON(http.StatusOK, echo.Map{"liked": false})
	}

	like := &models.Like{UserID: currentUserID, PostID: post.ID}
	if err := h.likeRepository.CreateLike(like); err != nil {
		// A concurrent duplicate toggle lost the race to the unique index;
		// the relation already exists, so report the active state.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusOK, echo.Map{"liked": true})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle like")
	}

	// Notify the post author, unless they liked their own post
	if post.AuthorID != currentUserID {
		notif := &models.Notification{
			Type:        models.NotificationLike,
			RecipientID: post.AuthorID,
			IssuerID:    currentUserID,
			PostID:      &post.ID,
		}
		h.notificationRepository.CreateNotification(notif)
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": true})
}

// GetInteractionStatus reports whether the caller has liked and bookmarked a
// post. Anonymous callers get false for both.
func (h *LikeHandler) GetInteractionStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if currentUserID == 0 {
		return c.JSON(http.StatusOK, echo.Map{"liked": false, "bookmarked": false})
	}

	liked, err := h.likeRepository.HasUserLikedPost(currentUserID, uint(postID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch status")
	}
	bookmarked, err := h.bookmarkRepository.IsPostBookmarked(currentUserID, uint(postID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch status")
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "bookmarked": bookmarked})
}
