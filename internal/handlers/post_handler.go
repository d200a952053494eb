package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/inkflow/inkflow/internal/models"
	"github.com/inkflow/inkflow/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // allow raw HTML passthrough in Markdown
	),
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
var slugInvalidPattern = regexp.MustCompile(`[^\w\s-]`)
var slugSeparatorPattern = regexp.MustCompile(`[\s_-]+`)

// slugify generates a URL-friendly slug from a title
func slugify(text string) string {
	slug := strings.ToLower(text)
	slug = slugInvalidPattern.ReplaceAllString(slug, "")
	slug = slugSeparatorPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// stripHTML removes markup so word counts and excerpts see only text
func stripHTML(content string) string {
	return htmlTagPattern.ReplaceAllString(content, "")
}

// calculateReadTime estimates reading minutes at 200 words per minute
func calculateReadTime(content string) int {
	words := len(strings.Fields(stripHTML(content)))
	minutes := int(math.Ceil(float64(words) / 200.0))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// makeExcerpt derives a fallback excerpt from the first 200 characters of text
func makeExcerpt(content string) string {
	text := strings.TrimSpace(stripHTML(content))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// renderMarkdown converts markdown source to HTML
func renderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PostEnricher decorates posts with author identity and interaction counts
type PostEnricher struct {
	likeRepository     repositories.LikeRepository
	commentRepository  repositories.CommentRepository
	bookmarkRepository repositories.BookmarkRepository
}

func NewPostEnricher(
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	bookmarkRepo repositories.BookmarkRepository,
) *PostEnricher {
	return &PostEnricher{
		likeRepository:     likeRepo,
		commentRepository:  commentRepo,
		bookmarkRepository: bookmarkRepo,
	}
}

// EnrichedPost is a post with author info and interaction counts
type EnrichedPost struct {
	models.Post
	Author models.UserCompact `json:"author"`
	Counts models.PostCounts  `json:"counts"`
}

func (e *PostEnricher) enrichPosts(posts []models.Post) ([]EnrichedPost, error) {
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likeCounts, err := e.likeRepository.GetLikeCountsByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := e.commentRepository.GetCommentCountsByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}
	bookmarkCounts, err := e.bookmarkRepository.GetBookmarkCountsByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		enriched[i] = EnrichedPost{
			Post:   p,
			Author: p.Author.ToCompact(),
			Counts: models.PostCounts{
				Likes:     likeCounts[p.ID],
				Comments:  commentCounts[p.ID],
				Bookmarks: bookmarkCounts[p.ID],
			},
		}
	}
	return enriched, nil
}

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	tagRepository     repositories.TagRepository
	commentRepository repositories.CommentRepository
	userRepository    repositories.UserRepository
	enricher          *PostEnricher
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	tagRepo repositories.TagRepository,
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	enricher *PostEnricher,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		tagRepository:     tagRepo,
		commentRepository: commentRepo,
		userRepository:    userRepo,
		enricher:          enricher,
	}
}

// RegisterPostRoutes registers post-related routes; listing and reading are
// public, writes require auth
func (h *PostHandler) RegisterPostRoutes(authed, public *echo.Group) {
	public.GET("/posts", h.ListPosts)
	public.GET("/posts/:id", h.GetPost)
	authed.POST("/posts", h.CreatePost)
	authed.PUT("/posts/:id", h.UpdatePost)
	authed.DELETE("/posts/:id", h.DeletePost)
}

// ListPosts serves the public listing: published posts only, optional tag and
// case-insensitive text filters (ANDed), latest or trending sort, offset
// pagination
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	params := repositories.PostListParams{
		Page:   page,
		Limit:  limit,
		Tag:    c.QueryParam("tag"),
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
	}

	posts, total, err := h.postRepository.ListPosts(params)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}

	enriched, err := h.enricher.enrichPosts(posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"posts": enriched,
		"pagination": echo.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// PostDetail is a single post with author, comments and counts
type PostDetail struct {
	EnrichedPost
	AuthorBio string            `json:"author_bio"`
	Comments  []CommentResponse `json:"comments"`
}

// GetPost fetches a single post by numeric ID or slug. Every successful fetch
// increments the view counter by one, with no viewer deduplication.
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByIDOrSlug(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}

	if err := h.postRepository.IncrementViews(post.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}
	post.Views++

	comments, err := h.commentRepository.GetCommentsByPostID(post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}
	commentResponses := make([]CommentResponse, len(comments))
	for i, cm := range comments {
		commentResponses[i] = CommentResponse{Comment: cm, Author: cm.Author.ToCompact()}
	}

	enriched, err := h.enricher.enrichPosts([]models.Post{*post})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"post": PostDetail{
			EnrichedPost: enriched[0],
			AuthorBio:    post.Author.Bio,
			Comments:     commentResponses,
		},
	})
}

// CreatePost creates a new post for the authenticated author
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	content := req.Content
	if req.ContentFormat == "markdown" {
		rendered, err := renderMarkdown(content)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to render markdown")
		}
		content = rendered
	}

	slug := slugify(req.Title)
	exists, err := h.postRepository.SlugExists(slug)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}
	if exists {
		slug = fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	excerpt := req.Excerpt
	if excerpt == "" {
		excerpt = makeExcerpt(content)
	}

	post := &models.Post{
		Title:      req.Title,
		Slug:       slug,
		Content:    content,
		Excerpt:    excerpt,
		CoverImage: req.CoverImage,
		Status:     status,
		ReadTime:   calculateReadTime(content),
		AuthorID:   currentUserID,
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}

	if len(req.Tags) > 0 {
		tags, err := h.resolveTags(req.Tags)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
		}
		if err := h.postRepository.ReplaceTags(post.ID, tags); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
		}
		post.Tags = tags
	}

	return c.JSON(http.StatusCreated, echo.Map{"post": post})
}

// UpdatePost updates an existing post. Only the author or an admin may update.
func (h *PostHandler) UpdatePost(c echo.Context) error {
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
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post")
	}

	if err := h.authorizePostWrite(post, currentUserID); err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	content := req.Content
	if req.ContentFormat == "markdown" {
		rendered, err := renderMarkdown(content)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to render markdown")
		}
		content = rendered
	}

	post.Title = req.Title
	post.Content = content
	post.CoverImage = req.CoverImage
	post.ReadTime = calculateReadTime(content)
	if req.Status != "" {
		post.Status = req.Status
	}
	if req.Excerpt != "" {
		post.Excerpt = req.Excerpt
	} else {
		post.Excerpt = makeExcerpt(content)
	}

	if err := h.postRepository.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post")
	}

	// Replace the full tag set
	tags, err := h.resolveTags(req.Tags)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post")
	}
	if err := h.postRepository.ReplaceTags(post.ID, tags); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post")
	}
	post.Tags = tags

	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

// DeletePost deletes a post. Only the author or an admin may delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
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
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}

	if err := h.authorizePostWrite(post, currentUserID); err != nil {
		return err
	}

	if err := h.postRepository.DeletePost(post.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// authorizePostWrite permits the post's author or an admin
func (h *PostHandler) authorizePostWrite(post *models.Post, currentUserID uint) error {
	if post.AuthorID == currentUserID {
		return nil
	}
	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}
	if user.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this post")
	}
	return nil
}

func (h *PostHandler) resolveTags(names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := h.tagRepository.GetOrCreateByName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}
