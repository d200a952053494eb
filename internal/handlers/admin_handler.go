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

// recentUsersLimit caps the recent-signups list on the admin dashboard
const recentUsersLimit = 10

// engagementMonths is the window of the monthly engagement series
const engagementMonths = 6

// AdminHandler serves the moderation dashboard and user management
type AdminHandler struct {
	userRepository   repositories.UserRepository
	postRepository   repositories.PostRepository
	likeRepository   repositories.LikeRepository
	followRepository repositories.FollowRepository
	enricher         *PostEnricher
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	followRepo repositories.FollowRepository,
	enricher *PostEnricher,
) *AdminHandler {
	return &AdminHandler{
		userRepository:   userRepo,
		postRepository:   postRepo,
		likeRepository:   likeRepo,
		followRepository: followRepo,
		enricher:         enricher,
	}
}

// RegisterAdminRoutes registers admin routes; every operation requires the
// ADMIN role
func (h *AdminHandler) RegisterAdminRoutes(authed *echo.Group) {
	authed.GET("/admin/stats", h.GetStats)
	authed.GET("/admin/posts", h.ListAllPosts)
	authed.PUT("/admin/users/:id", h.UpdateUserRole)
	authed.DELETE("/admin/users/:id", h.DeleteUser)
}

// requireAdmin resolves the caller against the database and rejects non-admin
// roles. The role check always reads fresh state rather than token claims, so
// a demotion takes effect immediately.
func (h *AdminHandler) requireAdmin(c echo.Context) (uint, error) {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}
	if user.Role != models.RoleAdmin {
		return 0, echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}
	return currentUserID, nil
}

// GetStats returns platform totals, recent signups and a monthly engagement
// series for the dashboard
func (h *AdminHandler) GetStats(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}

	totalUsers, err := h.userRepository.CountUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stats")
	}
	publishedPosts, err := h.postRepository.CountByStatus(models.StatusPublished)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stats")
	}
	draftPosts, err := h.postRepository.CountByStatus(models.StatusDraft)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stats")
	}
	totalViews, err := h.postRepository.SumViews()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stats")
	}
	totalLikes, err := h.likeRepository.CountLikes()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stats")
	}
	totalFollows, err := h.followRepository.CountFollows()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stats")
	}

	recentUsers, err := h.userRepository.GetRecentUsers(recentUsersLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stats")
	}

	engagement, err := h.postRepository.GetMonthlyEngagement(engagementMonths)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stats")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totals": echo.Map{
			"users":          totalUsers,
			"publishedPosts": publishedPosts,
			"draftPosts":     draftPosts,
			"views":          totalViews,
			"likes":          totalLikes,
			"follows":        totalFollows,
		},
		"recentUsers": recentUsers,
		"engagement":  engagement,
	})
}

// ListAllPosts returns every post regardless of status, for moderation
func (h *AdminHandler) ListAllPosts(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}

	posts, err := h.postRepository.ListAllPosts()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}

	enriched, err := h.enricher.enrichPosts(posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": enriched})
}

// UpdateUserRole promotes or demotes a user
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	var req models.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(uint(targetID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}

	if err := h.userRepository.UpdateRole(user.ID, req.Role); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}
	user.Role = req.Role

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// DeleteUser removes a user account. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	currentUserID, err := h.requireAdmin(c)
	if err != nil {
		return err
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if uint(targetID) == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot delete your own account")
	}

	if _, err := h.userRepository.GetUserByID(uint(targetID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}

	if err := h.userRepository.DeleteUser(uint(targetID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
