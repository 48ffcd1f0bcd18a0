package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/service"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/validation"
)

type BookService interface {
	Create(ctx context.Context, input service.CreateBookInput) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	GetByID(ctx context.Context, id uint) (*model.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)
	FindByAuthorName(ctx context.Context, name string) ([]model.Book, error)
	FindByAuthorID(ctx context.Context, authorID uint) ([]model.Book, error)
	SearchByTitle(ctx context.Context, title string) ([]model.Book, error)
	Update(ctx context.Context, id uint, input service.UpdateBookInput) (*model.Book, error)
	Delete(ctx context.Context, id uint) error
	UpdateStatus(ctx context.Context, id uint, status model.BookStatus) (*model.Book, error)
	Available(ctx context.Context) ([]model.Book, error)
}

type BookHandler struct {
	svc BookService
}

func NewBookHandler(svc BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/available", h.ListAvailableBooks)
		books.GET("/isbn/:isbn", h.GetBookByISBN)
		books.GET("/:id", h.GetBookByID)
		books.PATCH("/:id", h.UpdateBook)
		books.PATCH("/:id/status", h.UpdateBookStatus)
		books.DELETE("/:id", h.DeleteBook)
		books.POST("", h.CreateBook)
	}
}

// CreateBook godoc
// @Summary      Create a book
// @Description  Create a new book. Status defaults to available; the ISBN must be unique.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateBookRequest          true  "Book to create"
// @Success      201      {object}  BookResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error or unknown author"
// @Failure      409      {object}  validation.ErrorResponse   "ISBN already in use"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	book, err := h.svc.Create(c.Request.Context(), service.CreateBookInput{
		Title:         req.Title,
		ISBN:          req.ISBN,
		AuthorID:      req.AuthorID,
		AuthorName:    req.AuthorName,
		Description:   req.Description,
		PublishedDate: fromDate(req.PublishedDate),
		Status:        req.Status,
	})
	if err != nil {
		writeServiceError(c, err, "BOOK_CREATE_FAILED", "failed to create book")
		return
	}

	c.JSON(http.StatusCreated, BookResponse{Data: toBook(*book)})
}

// ListBooks godoc
// @Summary      List books
// @Description  List books, newest first. At most one filter applies, checked in the order author, author_id, title.
// @Tags         books
// @Produce      json
// @Param        author     query     string  false  "Exact author_name match"
// @Param        author_id  query     int     false  "Books of this author"
// @Param        title      query     string  false  "Title contains"
// @Success      200  {object}  ListBooksResponse
// @Failure      400  {object}  validation.ErrorResponse   "Invalid query parameters"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		books []model.Book
		err   error
	)

	switch {
	case c.Query("author") != "":
		books, err = h.svc.FindByAuthorName(ctx, c.Query("author"))
	case c.Query("author_id") != "":
		authorID, perr := strconv.ParseUint(c.Query("author_id"), 10, 0)
		if perr != nil || authorID == 0 {
			writeError(c, http.StatusBadRequest,
				"INVALID_AUTHOR_ID",
				"author_id must be a positive integer",
			)
			return
		}
		books, err = h.svc.FindByAuthorID(ctx, uint(authorID))
	case c.Query("title") != "":
		books, err = h.svc.SearchByTitle(ctx, c.Query("title"))
	default:
		books, err = h.svc.List(ctx)
	}
	if err != nil {
		writeServiceError(c, err, "BOOK_LIST_FAILED", "failed to fetch books")
		return
	}

	c.JSON(http.StatusOK, toBooks(books))
}

// ListAvailableBooks godoc
// @Summary      List available books
// @Tags         books
// @Produce      json
// @Success      200  {object}  ListBooksResponse
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/available [get]
func (h *BookHandler) ListAvailableBooks(c *gin.Context) {
	books, err := h.svc.Available(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "BOOK_LIST_FAILED", "failed to fetch books")
		return
	}

	c.JSON(http.StatusOK, toBooks(books))
}

// GetBookByISBN godoc
// @Summary      Get a book by ISBN
// @Tags         books
// @Produce      json
// @Param        isbn  path      string  true  "ISBN, exactly as stored"
// @Success      200   {object}  BookResponse
// @Failure      404   {object}  validation.ErrorResponse   "Book not found"
// @Failure      500   {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/isbn/{isbn} [get]
func (h *BookHandler) GetBookByISBN(c *gin.Context) {
	book, err := h.svc.GetByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		writeServiceError(c, err, "BOOK_FETCH_FAILED", "failed to fetch book")
		return
	}

	c.JSON(http.StatusOK, BookResponse{Data: toBook(*book)})
}

// GetBookByID godoc
// @Summary      Get a book by ID
// @Tags         books
// @Produce      json
// @Param        id   path      int     true  "Book ID"
// @Success      200  {object}  BookResponse
// @Failure      400  {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBookByID(c *gin.Context) {
	id, ok := parseID(c, "BOOK_INVALID_ID", "invalid book id")
	if !ok {
		return
	}

	book, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "BOOK_FETCH_FAILED", "failed to fetch book")
		return
	}

	c.JSON(http.StatusOK, BookResponse{Data: toBook(*book)})
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Partially update a book by its ID
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Book ID"
// @Param        payload  body      UpdateBookRequest   true  "Fields to update"
// @Success      200      {object}  BookResponse
// @Failure      400      {object}  validation.ErrorResponse   "Invalid ID or payload"
// @Failure      404      {object}  validation.ErrorResponse   "Book not found"
// @Failure      409      {object}  validation.ErrorResponse   "ISBN already in use"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c, "BOOK_INVALID_ID", "invalid book id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	if req.Title == nil && req.ISBN == nil && req.AuthorID == nil && req.AuthorName == nil &&
		req.Description == nil && req.PublishedDate == nil && req.Status == nil {
		writeError(c, http.StatusBadRequest,
			"NO_FIELDS_TO_UPDATE",
			"at least one field must be provided to update",
		)
		return
	}

	book, err := h.svc.Update(c.Request.Context(), id, service.UpdateBookInput{
		Title:              req.Title,
		ISBN:               req.ISBN,
		AuthorID:           req.AuthorID,
		AuthorName:         req.AuthorName,
		Description:        req.Description,
		PublishedDate:      fromDate(req.PublishedDate),
		Status:             req.Status,
		ClearPublishedDate: clearsDate(req.PublishedDate),
	})
	if err != nil {
		writeServiceError(c, err, "BOOK_UPDATE_FAILED", "failed to update book")
		return
	}

	c.JSON(http.StatusOK, BookResponse{Data: toBook(*book)})
}

// UpdateBookStatus godoc
// @Summary      Change a book's status
// @Description  Any status may move to any other status
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "Book ID"
// @Param        payload  body      UpdateBookStatusRequest  true  "New status"
// @Success      200      {object}  BookResponse
// @Failure      400      {object}  validation.ErrorResponse   "Invalid ID or status"
// @Failure      404      {object}  validation.ErrorResponse   "Book not found"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id}/status [patch]
func (h *BookHandler) UpdateBookStatus(c *gin.Context) {
	id, ok := parseID(c, "BOOK_INVALID_ID", "invalid book id")
	if !ok {
		return
	}

	var req UpdateBookStatusRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	book, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeServiceError(c, err, "BOOK_UPDATE_FAILED", "failed to update book status")
		return
	}

	c.JSON(http.StatusOK, BookResponse{Data: toBook(*book)})
}

// DeleteBook godoc
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Param        id   path      int     true  "Book ID"
// @Success      204  {string}  string  "No content"
// @Failure      400  {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c, "BOOK_INVALID_ID", "invalid book id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "BOOK_DELETE_FAILED", "failed to delete book")
		return
	}

	c.Status(http.StatusNoContent)
}
