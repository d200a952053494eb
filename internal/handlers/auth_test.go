package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkflow/inkflow/internal/models"
)

func TestRegister_Success(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	rec := doRequest(e, http.MethodPost, "/api/v1/auth/register", "",
		jsonBody(`{"name": "Ada", "email": "ada@example.com", "password": "secret123"}`))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "ada@example.com", body.User.Email)
	assert.Equal(t, models.RoleUser, body.User.Role)

	// Password is stored hashed and never serialized
	var stored models.User
	db.First(&stored)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NotContains(t, rec.Body.String(), "secret123")
	assert.NotContains(t, rec.Body.String(), stored.Password)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	createTestUser(t, db, "taken@example.com", models.RoleUser)

	rec := doRequest(e, http.MethodPost, "/api/v1/auth/register", "",
		jsonBody(`{"name": "Imposter", "email": "taken@example.com", "password": "secret123"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_InvalidPayload(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	rec := doRequest(e, http.MethodPost, "/api/v1/auth/register", "",
		jsonBody(`{"name": "A", "email": "not-an-email", "password": "123"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_Success(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{Name: "Ada", Email: "ada@example.com", Password: string(hash), Role: models.RoleUser})

	rec := doRequest(e, http.MethodPost, "/api/v1/auth/login", "",
		jsonBody(`{"email": "ada@example.com", "password": "secret123"}`))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.NotEmpty(t, body.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{Name: "Ada", Email: "ada@example.com", Password: string(hash), Role: models.RoleUser})

	rec := doRequest(e, http.MethodPost, "/api/v1/auth/login", "",
		jsonBody(`{"email": "ada@example.com", "password": "wrongpass"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	rec := doRequest(e, http.MethodPost, "/api/v1/auth/login", "",
		jsonBody(`{"email": "ghost@example.com", "password": "whatever"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisteredTokenAuthenticatesRequests(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(db)

	rec := doRequest(e, http.MethodPost, "/api/v1/auth/register", "",
		jsonBody(`{"name": "Ada", "email": "ada@example.com", "password": "secret123"}`))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)

	rec = doRequest(e, http.MethodGet, "/api/v1/bookmarks", body.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
