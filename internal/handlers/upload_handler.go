package handlers

import (
	"net/http"

	"github.com/inkflow/inkflow/internal/storage"
	"github.com/labstack/echo/v4"
)

// UploadHandler accepts cover image uploads and stores them in object storage
type UploadHandler struct {
	storage       storage.Storage
	maxUploadSize int64
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store storage.Storage, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{storage: store, maxUploadSize: maxUploadSize}
}

// RegisterUploadRoutes registers upload routes
func (h *UploadHandler) RegisterUploadRoutes(authed *echo.Group) {
	authed.POST("/uploads/cover", h.UploadCover)
}

// UploadCover stores a multipart cover image and returns its public URL
func (h *UploadHandler) UploadCover(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file in request")
	}
	if fileHeader.Size > h.maxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File exceeds the maximum upload size")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read uploaded file")
	}
	defer file.Close()

	url, err := h.storage.UploadCover(c.Request().Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store uploaded file")
	}

	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
