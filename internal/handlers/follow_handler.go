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

// FollowHandler handles follow toggles and follow-state queries
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes; the state query is
// available to anonymous callers
func (h *FollowHandler) RegisterFollowRoutes(authed, optional *echo.Group) {
	authed.POST("/users/:id/follow", h.ToggleFollow)
	optional.GET("/users/:id/follow", h.GetFollowStatus)
}

// ToggleFollow flips the caller's follow relation on a user and reports the
// new state
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if currentUserID == uint(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(uint(targetID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle follow")
	}

	isFollowing, err := h.followRepository.IsFollowing(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle follow")
	}

	if isFollowing {
		if err := h.followRepository.DeleteFollow(currentUserID, uint(targetID)); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle follow")
		}
		return c.JSON(http.StatusOK, echo.Map{"following": false})
	}

	follow := &models.Follow{FollowerID: currentUserID, FollowingID: uint(targetID)}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusOK, echo.Map{"following": true})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle follow")
	}

	notif := &models.Notification{
		Type:        models.NotificationFollow,
		RecipientID: uint(targetID),
		IssuerID:    currentUserID,
	}
	h.notificationRepository.CreateNotification(notif)

	return c.JSON(http.StatusOK, echo.Map{"following": true})
}

// GetFollowStatus reports whether the caller follows the target user; false
// for anonymous callers
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if currentUserID == 0 {
		return c.JSON(http.StatusOK, echo.Map{"following": false})
	}

	following, err := h.followRepository.IsFollowing(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch follow status")
	}

	return c.JSON(http.StatusOK, echo.Map{"following": following})
}
