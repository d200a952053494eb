package handlers

import (
	"net/http"

	"github.com/inkflow/inkflow/internal/repositories"
	"github.com/labstack/echo/v4"
)

// TagHandler serves the public tag directory
type TagHandler struct {
	tagRepository repositories.TagRepository
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagRepo repositories.TagRepository) *TagHandler {
	return &TagHandler{tagRepository: tagRepo}
}

// RegisterTagRoutes registers tag-related routes
func (h *TagHandler) RegisterTagRoutes(public *echo.Group) {
	public.GET("/tags", h.ListTags)
}

// ListTags returns all tags with their published-post counts, most used first
func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.tagRepository.ListTagsWithCounts()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch tags")
	}
	return c.JSON(http.StatusOK, echo.Map{"tags": tags})
}
