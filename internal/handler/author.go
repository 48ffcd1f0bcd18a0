package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/service"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/validation"
)

type AuthorService interface {
	Create(ctx context.Context, input service.CreateAuthorInput) (*model.Author, error)
	List(ctx context.Context) ([]model.Author, error)
	GetByID(ctx context.Context, id uint) (*model.Author, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]model.Author, error)
	SearchByFullName(ctx context.Context, name string) ([]model.Author, error)
	Update(ctx context.Context, id uint, input service.UpdateAuthorInput) (*model.Author, error)
	Delete(ctx context.Context, id uint) error
	AuthorsWithBooks(ctx context.Context) ([]model.Author, error)
	Stats(ctx context.Context, id uint) (*service.AuthorStats, error)
}

type AuthorHandler struct {
	svc AuthorService
}

func NewAuthorHandler(svc AuthorService) *AuthorHandler {
	return &AuthorHandler{svc: svc}
}

func (h *AuthorHandler) RegisterRoutes(r *gin.RouterGroup) {
	authors := r.Group("/authors")
	{
		authors.POST("", h.CreateAuthor)
		authors.GET("", h.ListAuthors)
		authors.GET("/search", h.SearchAuthors)
		authors.GET("/with-books", h.ListAuthorsWithBooks)
		authors.GET("/:id", h.GetAuthorByID)
		authors.GET("/:id/stats", h.GetAuthorStats)
		authors.PATCH("/:id", h.UpdateAuthor)
		authors.DELETE("/:id", h.DeleteAuthor)
	}
}

// CreateAuthor godoc
// @Summary      Create an author
// @Description  Create a new author with first and last name, optional bio and birth date
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateAuthorRequest        true  "Author to create"
// @Success      201      {object}  AuthorResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /authors [post]
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req CreateAuthorRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	author, err := h.svc.Create(c.Request.Context(), service.CreateAuthorInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		BirthDate: fromDate(req.BirthDate),
	})
	if err != nil {
		writeServiceError(c, err, "AUTHOR_CREATE_FAILED", "failed to create author")
		return
	}

	c.JSON(http.StatusCreated, AuthorResponse{Data: toAuthor(*author)})
}

// ListAuthors godoc
// @Summary      List authors
// @Description  List authors with their books, newest first. first_name and last_name filter by substring and combine with AND.
// @Tags         authors
// @Produce      json
// @Param        first_name  query     string  false  "First name contains"
// @Param        last_name   query     string  false  "Last name contains"
// @Success      200  {object}  ListAuthorsResponse
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /authors [get]
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	ctx := c.Request.Context()

	firstName := c.Query("first_name")
	lastName := c.Query("last_name")

	var (
		authors []model.Author
		err     error
	)
	if firstName != "" || lastName != "" {
		authors, err = h.svc.FindByName(ctx, firstName, lastName)
	} else {
		authors, err = h.svc.List(ctx)
	}
	if err != nil {
		writeServiceError(c, err, "AUTHOR_LIST_FAILED", "failed to list authors")
		return
	}

	c.JSON(http.StatusOK, toAuthors(authors))
}

// SearchAuthors godoc
// @Summary      Search authors by name
// @Description  Match name against the full name, the first name or the last name
// @Tags         authors
// @Produce      json
// @Param        name  query     string  true  "Name fragment"
// @Success      200   {object}  ListAuthorsResponse
// @Failure      400   {object}  validation.ErrorResponse   "Missing name"
// @Failure      500   {object}  validation.ErrorResponse   "Internal server error"
// @Router       /authors/search [get]
func (h *AuthorHandler) SearchAuthors(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		writeError(c, http.StatusBadRequest,
			"AUTHOR_SEARCH_NAME_REQUIRED",
			"name query parameter is required",
		)
		return
	}

	authors, err := h.svc.SearchByFullName(c.Request.Context(), name)
	if err != nil {
		writeServiceError(c, err, "AUTHOR_SEARCH_FAILED", "failed to search authors")
		return
	}

	c.JSON(http.StatusOK, toAuthors(authors))
}

// ListAuthorsWithBooks godoc
// @Summary      List authors that have books
// @Tags         authors
// @Produce      json
// @Success      200  {object}  ListAuthorsResponse
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /authors/with-books [get]
func (h *AuthorHandler) ListAuthorsWithBooks(c *gin.Context) {
	authors, err := h.svc.AuthorsWithBooks(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "AUTHOR_LIST_FAILED", "failed to list authors")
		return
	}

	c.JSON(http.StatusOK, toAuthors(authors))
}

// GetAuthorByID godoc
// @Summary      Get author by ID
// @Description  Get a single author with its books
// @Tags         authors
// @Produce      json
// @Param        id   path      int                       true  "Author ID"
// @Success      200  {object}  AuthorResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Author not found"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /authors/{id} [get]
func (h *AuthorHandler) GetAuthorByID(c *gin.Context) {
	id, ok := parseID(c, "AUTHOR_INVALID_ID", "invalid author id")
	if !ok {
		return
	}

	author, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "AUTHOR_FETCH_FAILED", "failed to fetch author")
		return
	}

	c.JSON(http.StatusOK, AuthorResponse{Data: toAuthor(*author)})
}

// GetAuthorStats godoc
// @Summary      Get author book statistics
// @Description  Count an author's books per status
// @Tags         authors
// @Produce      json
// @Param        id   path      int                       true  "Author ID"
// @Success      200  {object}  AuthorStatsResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Author not found"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /authors/{id}/stats [get]
func (h *AuthorHandler) GetAuthorStats(c *gin.Context) {
	id, ok := parseID(c, "AUTHOR_INVALID_ID", "invalid author id")
	if !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "AUTHOR_STATS_FAILED", "failed to compute author stats")
		return
	}

	c.JSON(http.StatusOK, AuthorStatsResponse{Data: toAuthorStats(*stats)})
}

// UpdateAuthor godoc
// @Summary      Update an author
// @Description  Partially update an existing author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Author ID"
// @Param        payload  body      UpdateAuthorRequest  true  "Author fields to update"
// @Success      200      {object}  AuthorResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Author not found"
// @Failure      500      {object}  validation.ErrorResponse  "Internal server error"
// @Router       /authors/{id} [patch]
func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	id, ok := parseID(c, "AUTHOR_INVALID_ID", "invalid author id")
	if !ok {
		return
	}

	var req UpdateAuthorRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	author, err := h.svc.Update(c.Request.Context(), id, service.UpdateAuthorInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Bio:            req.Bio,
		BirthDate:      fromDate(req.BirthDate),
		ClearBirthDate: clearsDate(req.BirthDate),
	})
	if err != nil {
		writeServiceError(c, err, "AUTHOR_UPDATE_FAILED", "failed to update author")
		return
	}

	c.JSON(http.StatusOK, AuthorResponse{Data: toAuthor(*author)})
}

// DeleteAuthor godoc
// @Summary      Delete an author
// @Description  Delete an author by ID. Authors that still have books cannot be deleted.
// @Tags         authors
// @Produce      json
// @Param        id   path      int                       true  "Author ID"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Author not found"
// @Failure      409  {object}  validation.ErrorResponse  "Author still has books"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /authors/{id} [delete]
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	id, ok := parseID(c, "AUTHOR_INVALID_ID", "invalid author id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "AUTHOR_DELETE_FAILED", "failed to delete author")
		return
	}

	c.Status(http.StatusNoContent)
}
