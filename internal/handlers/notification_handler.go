package handlers

import (
	"net/http"

	"github.com/inkflow/inkflow/internal/models"
	"github.com/inkflow/inkflow/internal/repositories"
	"github.com/labstack/echo/v4"
)

// notificationFeedLimit caps the always-recent notification window
const notificationFeedLimit = 30

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes; listing works for
// anonymous callers (empty feed), marking read requires auth
func (h *NotificationHandler) RegisterNotificationRoutes(authed, optional *echo.Group) {
	optional.GET("/notifications", h.GetNotifications)
	authed.POST("/notifications/read", h.MarkAllAsRead)
}

// NotificationPost carries the related post's display fields
type NotificationPost struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// EnrichedNotification includes issuer identity and the related post
type EnrichedNotification struct {
	models.Notification
	Issuer models.UserCompact `json:"issuer"`
	Post   *NotificationPost  `json:"post,omitempty"`
}

// GetNotifications returns the caller's most recent notifications, newest
// first, plus the unread count. Anonymous callers get an empty feed.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return c.JSON(http.StatusOK, echo.Map{"notifications": []EnrichedNotification{}, "unreadCount": 0})
	}

	notifications, err := h.notificationRepository.GetByRecipientID(currentUserID, notificationFeedLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}

	unreadCount, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}

	enriched := make([]EnrichedNotification, len(notifications))
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{
			Notification: n,
			Issuer:       n.Issuer.ToCompact(),
		}
		if n.Post != nil {
			enriched[i].Post = &NotificationPost{Title: n.Post.Title, Slug: n.Post.Slug}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": enriched, "unreadCount": unreadCount})
}

// MarkAllAsRead flips every unread notification of the caller to read.
// Idempotent: a caller with nothing unread still gets a success response.
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications as read")
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
