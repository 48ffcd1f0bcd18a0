package service

import (
	"context"
	"fmt"
	"time"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/repository"
	"go.opentelemetry.io/otel/attribute"
)

type CreateBookInput struct {
	Title         string           `json:"title" validate:"required,max=255"`
	ISBN          string           `json:"isbn" validate:"required,isbn"`
	AuthorID      *uint            `json:"author_id" validate:"omitempty,min=1"`
	AuthorName    string           `json:"author_name" validate:"max=255"`
	Description   string           `json:"description" validate:"max=5000"`
	PublishedDate *time.Time       `json:"published_date"`
	Status        model.BookStatus `json:"status" validate:"omitempty,oneof=available borrowed reserved"`
}

// UpdateBookInput is a partial update: nil fields are left unchanged.
type UpdateBookInput struct {
	Title         *string           `json:"title" validate:"omitempty,min=1,max=255"`
	ISBN          *string           `json:"isbn" validate:"omitempty,isbn"`
	AuthorID      *uint             `json:"author_id" validate:"omitempty,min=1"`
	AuthorName    *string           `json:"author_name" validate:"omitempty,max=255"`
	Description   *string           `json:"description" validate:"omitempty,max=5000"`
	PublishedDate *time.Time        `json:"published_date"`
	Status        *model.BookStatus `json:"status" validate:"omitempty,oneof=available borrowed reserved"`
	// ClearPublishedDate removes a stored date; it wins over PublishedDate.
	ClearPublishedDate bool `json:"-"`
}

type BookService struct {
	books repository.BookRepository
}

func NewBookService(books repository.BookRepository) *BookService {
	return &BookService{books: books}
}

func (s *BookService) Create(ctx context.Context, input CreateBookInput) (_ *model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.Create", attribute.String("book.isbn", input.ISBN))
	defer func() { endSpan(span, err) }()

	if err := checkInput(input); err != nil {
		return nil, err
	}
	if err := s.checkAuthor(ctx, input.AuthorID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.BookStatusAvailable
	}

	book := model.Book{
		Title:         input.Title,
		ISBN:          model.NormalizeISBN(input.ISBN),
		AuthorID:      input.AuthorID,
		AuthorName:    input.AuthorName,
		Description:   input.Description,
		PublishedDate: input.PublishedDate,
		Status:        status,
	}

	if err := s.books.Create(ctx, &book); err != nil {
		return nil, translateWriteError(err, "create book")
	}

	return &book, nil
}

// List returns every book, newest first.
func (s *BookService) List(ctx context.Context) (_ []model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.List")
	defer func() { endSpan(span, err) }()

	return s.find(ctx, nil)
}

func (s *BookService) GetByID(ctx context.Context, id uint) (_ *model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.GetByID", attribute.Int64("book.id", int64(id)))
	defer func() { endSpan(span, err) }()

	return s.load(ctx, id)
}

func (s *BookService) GetByISBN(ctx context.Context, isbn string) (_ *model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.GetByISBN", attribute.String("book.isbn", isbn))
	defer func() { endSpan(span, err) }()

	book, err := s.books.FindOne(ctx, repository.Eq{Field: repository.FieldISBN, Value: model.NormalizeISBN(isbn)})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, bookNotFound("isbn", isbn)
		}
		return nil, fmt.Errorf("find book by isbn %q: %w", isbn, err)
	}
	return book, nil
}

// FindByAuthorName matches the denormalized author_name exactly.
func (s *BookService) FindByAuthorName(ctx context.Context, name string) (_ []model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.FindByAuthorName")
	defer func() { endSpan(span, err) }()

	return s.find(ctx, repository.Eq{Field: repository.FieldAuthorName, Value: name})
}

func (s *BookService) FindByAuthorID(ctx context.Context, authorID uint) (_ []model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.FindByAuthorID", attribute.Int64("author.id", int64(authorID)))
	defer func() { endSpan(span, err) }()

	return s.find(ctx, repository.Eq{Field: repository.FieldAuthorID, Value: authorID})
}

func (s *BookService) SearchByTitle(ctx context.Context, title string) (_ []model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.SearchByTitle")
	defer func() { endSpan(span, err) }()

	return s.find(ctx, repository.Contains{Field: repository.FieldTitle, Value: title})
}

func (s *BookService) Update(ctx context.Context, id uint, input UpdateBookInput) (_ *model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.Update", attribute.Int64("book.id", int64(id)))
	defer func() { endSpan(span, err) }()

	if err := checkInput(input); err != nil {
		return nil, err
	}

	book, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.AuthorID != nil {
		if err := s.checkAuthor(ctx, input.AuthorID); err != nil {
			return nil, err
		}
		book.AuthorID = input.AuthorID
	}
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.ISBN != nil {
		book.ISBN = model.NormalizeISBN(*input.ISBN)
	}
	if input.AuthorName != nil {
		book.AuthorName = *input.AuthorName
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.PublishedDate != nil {
		book.PublishedDate = input.PublishedDate
	}
	if input.ClearPublishedDate {
		book.PublishedDate = nil
	}
	if input.Status != nil {
		book.Status = *input.Status
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, translateWriteError(err, fmt.Sprintf("update book %d", id))
	}

	return book, nil
}

// Delete removes a book unconditionally.
func (s *BookService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "BookService.Delete", attribute.Int64("book.id", int64(id)))
	defer func() { endSpan(span, err) }()

	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.books.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return bookNotFound("id", id)
		}
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}

// UpdateStatus sets the status without any transition rules; setting the
// current status again is a no-op apart from updated_at.
func (s *BookService) UpdateStatus(ctx context.Context, id uint, status model.BookStatus) (_ *model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.UpdateStatus",
		attribute.Int64("book.id", int64(id)),
		attribute.String("book.status", string(status)),
	)
	defer func() { endSpan(span, err) }()

	if !status.Valid() {
		return nil, invalidField("status", "oneof",
			"status must be one of: available borrowed reserved")
	}

	book, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	book.Status = status
	if err := s.books.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book %d status: %w", id, err)
	}

	return book, nil
}

// Available returns books whose status is available, newest first.
func (s *BookService) Available(ctx context.Context) (_ []model.Book, err error) {
	ctx, span := startSpan(ctx, "BookService.Available")
	defer func() { endSpan(span, err) }()

	return s.find(ctx, repository.Eq{Field: repository.FieldStatus, Value: model.BookStatusAvailable})
}

// checkAuthor rejects an author_id that references no author.
func (s *BookService) checkAuthor(ctx context.Context, authorID *uint) error {
	if authorID == nil {
		return nil
	}

	ok, err := s.books.AuthorExists(ctx, *authorID)
	if err != nil {
		return fmt.Errorf("check author %d: %w", *authorID, err)
	}
	if !ok {
		return unknownAuthor(*authorID)
	}
	return nil
}

func (s *BookService) load(ctx context.Context, id uint) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, bookNotFound("id", id)
		}
		return nil, fmt.Errorf("find book %d: %w", id, err)
	}
	return book, nil
}

func (s *BookService) find(ctx context.Context, filter repository.Filter) ([]model.Book, error) {
	books, err := s.books.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return books, nil
}

func translateWriteError(err error, op string) error {
	switch {
	case repository.IsDuplicateKey(err):
		return duplicateISBN()
	case repository.IsForeignKeyViolation(err):
		return invalidField("author_id", "exists", "author_id references an unknown author")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unknownAuthor(id uint) error {
	return invalidField("author_id", "exists", fmt.Sprintf("author %d does not exist", id))
}
