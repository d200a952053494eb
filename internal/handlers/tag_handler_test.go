package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkflow/inkflow/internal/models"
	"github.com/inkflow/inkflow/internal/repositories"
)

func TestListTags_CountsPublishedOnly(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	author := createTestUser(t, db, "author@example.com", models.RoleUser)
	golang := models.Tag{Name: "golang"}
	unused := models.Tag{Name: "unused"}
	db.Create(&golang)
	db.Create(&unused)

	published := createTestPost(t, db, author.ID, "published-post", models.StatusPublished)
	draft := createTestPost(t, db, author.ID, "draft-post", models.StatusDraft)
	db.Create(&models.TagOnPost{PostID: published.ID, TagID: golang.ID})
	db.Create(&models.TagOnPost{PostID: draft.ID, TagID: golang.ID})

	rec := doRequest(e, http.MethodGet, "/api/v1/tags", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tags []repositories.TagWithCount `json:"tags"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Equal(t, 2, len(body.Tags))

	// Draft attachments do not count; the used tag sorts first
	assert.Equal(t, "golang", body.Tags[0].Name)
	assert.Equal(t, int64(1), body.Tags[0].PostCount)
	assert.Equal(t, int64(0), body.Tags[1].PostCount)
}
