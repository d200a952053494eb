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

// BookmarkHandler handles bookmark toggles and the caller's bookmark feed
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	postRepository     repositories.PostRepository
	enricher           *PostEnricher
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, postRepo repositories.PostRepository, enricher *PostEnricher) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepository: bookmarkRepo,
		postRepository:     postRepo,
		enricher:           enricher,
	}
}

// RegisterBookmarkRoutes registers bookmark-related routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(authed *echo.Group) {
	authed.POST("/posts/:id/bookmark", h.ToggleBookmark)
	authed.GET("/bookmarks", h.GetBookmarkedPosts)
}

// ToggleBookmark flips the caller's bookmark on a post and reports the new
// state. Bookmarking never notifies anyone.
func (h *BookmarkHandler) ToggleBookmark(c echo.Context) error {
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
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle bookmark")
	}

	bookmarked, err := h.bookmarkRepository.IsPostBookmarked(currentUserID, post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle bookmark")
	}

	if bookmarked {
		if err := h.bookmarkRepository.DeleteBookmark(currentUserID, post.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle bookmark")
		}
		return c.JSON(http.StatusOK, echo.Map{"bookmarked": false})
	}

	bookmark := &models.Bookmark{UserID: currentUserID, PostID: post.ID}
	if err := h.bookmarkRepository.CreateBookmark(bookmark); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusOK, echo.Map{"bookmarked": true})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle bookmark")
	}

	return c.JSON(http.StatusOK, echo.Map{"bookmarked": true})
}

// GetBookmarkedPosts returns the caller's bookmarked posts, most recently
// saved first
func (h *BookmarkHandler) GetBookmarkedPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bookmarks, err := h.bookmarkRepository.GetBookmarksByUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch bookmarks")
	}

	postIDs := make([]uint, len(bookmarks))
	for i, b := range bookmarks {
		postIDs[i] = b.PostID
	}

	posts, err := h.postRepository.GetPostsByIDs(postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch bookmarks")
	}

	// Restore bookmark order; GetPostsByIDs does not preserve it
	byID := make(map[uint]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]models.Post, 0, len(posts))
	for _, id := range postIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	enriched, err := h.enricher.enrichPosts(ordered)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch bookmarks")
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": enriched})
}
