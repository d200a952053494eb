package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkflow/inkflow/internal/models"
)

func TestToggleFollow_OnThenOff(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	follower := createTestUser(t, db, "follower@example.com", models.RoleUser)
	target := createTestUser(t, db, "target@example.com", models.RoleUser)
	token := authToken(t, follower)

	rec := doRequest(e, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", target.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.True(t, body["following"])

	rec = doRequest(e, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", target.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.False(t, body["following"])

	var count int64
	db.Model(&models.Follow{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggleFollow_Self(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	user := createTestUser(t, db, "user@example.com", models.RoleUser)
	token := authToken(t, user)

	rec := doRequest(e, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", user.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleFollow_TargetNotFound(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	user := createTestUser(t, db, "user@example.com", models.RoleUser)
	token := authToken(t, user)

	rec := doRequest(e, http.MethodPost, "/api/v1/users/999/follow", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleFollow_UnfollowKeepsNotification(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	follower := createTestUser(t, db, "follower@example.com", models.RoleUser)
	target := createTestUser(t, db, "target@example.com", models.RoleUser)
	token := authToken(t, follower)

	doRequest(e, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", target.ID), token, nil)
	doRequest(e, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", target.ID), token, nil)

	var notifications []models.Notification
	db.Find(&notifications)
	assert.Equal(t, 1, len(notifications))
	assert.Equal(t, models.NotificationFollow, notifications[0].Type)
	assert.Equal(t, target.ID, notifications[0].RecipientID)
	assert.Nil(t, notifications[0].PostID)
}

func TestGetFollowStatus_Anonymous(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	target := createTestUser(t, db, "target@example.com", models.RoleUser)

	rec := doRequest(e, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/follow", target.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.False(t, body["following"])
}
