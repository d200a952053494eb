package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkflow/inkflow/internal/models"
)

func TestGetNotifications_NewestFirstWithUnreadCount(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	recipient := createTestUser(t, db, "recipient@example.com", models.RoleUser)
	issuer := createTestUser(t, db, "issuer@example.com", models.RoleUser)
	post := createTestPost(t, db, issuer.ID, "test-post", models.StatusPublished)
	token := authToken(t, recipient)

	db.Create(&models.Notification{Type: models.NotificationFollow, RecipientID: recipient.ID, IssuerID: issuer.ID})
	db.Create(&models.Notification{Type: models.NotificationLike, RecipientID: recipient.ID, IssuerID: issuer.ID, PostID: &post.ID})

	rec := doRequest(e, http.MethodGet, "/api/v1/notifications", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notifications []EnrichedNotification `json:"notifications"`
		UnreadCount   int64                  `json:"unreadCount"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Equal(t, 2, len(body.Notifications))
	assert.Equal(t, int64(2), body.UnreadCount)
	assert.Equal(t, issuer.ID, body.Notifications[0].Issuer.ID)

	// The like notification carries its post's display fields
	for _, n := range body.Notifications {
		if n.Type == models.NotificationLike {
			assert.NotNil(t, n.Post)
			assert.Equal(t, post.Slug, n.Post.Slug)
		}
	}
}

func TestGetNotifications_CappedAtFeedLimit(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	recipient := createTestUser(t, db, "recipient@example.com", models.RoleUser)
	issuer := createTestUser(t, db, "issuer@example.com", models.RoleUser)
	token := authToken(t, recipient)

	for i := 0; i < notificationFeedLimit+5; i++ {
		db.Create(&models.Notification{Type: models.NotificationFollow, RecipientID: recipient.ID, IssuerID: issuer.ID})
	}

	rec := doRequest(e, http.MethodGet, "/api/v1/notifications", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notifications []EnrichedNotification `json:"notifications"`
		UnreadCount   int64                  `json:"unreadCount"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Equal(t, notificationFeedLimit, len(body.Notifications))
	// The unread count is not limited by the feed window
	assert.Equal(t, int64(notificationFeedLimit+5), body.UnreadCount)
}

func TestGetNotifications_Anonymous(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	rec := doRequest(e, http.MethodGet, "/api/v1/notifications", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notifications []EnrichedNotification `json:"notifications"`
		UnreadCount   int64                  `json:"unreadCount"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Equal(t, 0, len(body.Notifications))
	assert.Equal(t, int64(0), body.UnreadCount)
}

func TestMarkAllAsRead_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	recipient := createTestUser(t, db, "recipient@example.com", models.RoleUser)
	issuer := createTestUser(t, db, "issuer@example.com", models.RoleUser)
	other := createTestUser(t, db, "other@example.com", models.RoleUser)
	token := authToken(t, recipient)

	db.Create(&models.Notification{Type: models.NotificationFollow, RecipientID: recipient.ID, IssuerID: issuer.ID})
	db.Create(&models.Notification{Type: models.NotificationFollow, RecipientID: other.ID, IssuerID: issuer.ID})

	rec := doRequest(e, http.MethodPost, "/api/v1/notifications/read", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var unread int64
	db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipient.ID, false).Count(&unread)
	assert.Equal(t, int64(0), unread)

	// Other recipients are untouched
	db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", other.ID, false).Count(&unread)
	assert.Equal(t, int64(1), unread)

	// A second call with nothing unread still succeeds
	rec = doRequest(e, http.MethodPost, "/api/v1/notifications/read", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMarkAllAsRead_RequiresAuth(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	rec := doRequest(e, http.MethodPost, "/api/v1/notifications/read", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
