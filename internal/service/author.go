package service

import (
	"context"
	"fmt"
	"time"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/repository"
	"go.opentelemetry.io/otel/attribute"
)

type CreateAuthorInput struct {
	FirstName string     `json:"first_name" validate:"required,max=255"`
	LastName  string     `json:"last_name" validate:"required,max=255"`
	Bio       string     `json:"bio" validate:"max=2000"`
	BirthDate *time.Time `json:"birth_date"`
}

// UpdateAuthorInput is a partial update: nil fields are left unchanged.
type UpdateAuthorInput struct {
	FirstName *string    `json:"first_name" validate:"omitempty,min=1,max=255"`
	LastName  *string    `json:"last_name" validate:"omitempty,min=1,max=255"`
	Bio       *string    `json:"bio" validate:"omitempty,max=2000"`
	BirthDate *time.Time `json:"birth_date"`
	// ClearBirthDate removes a stored birth date; it wins over BirthDate.
	ClearBirthDate bool `json:"-"`
}

type AuthorStats struct {
	Author         model.Author
	TotalBooks     int
	AvailableBooks int
	BorrowedBooks  int
	ReservedBooks  int
}

type AuthorService struct {
	authors repository.AuthorRepository
}

func NewAuthorService(authors repository.AuthorRepository) *AuthorService {
	return &AuthorService{authors: authors}
}

func (s *AuthorService) Create(ctx context.Context, input CreateAuthorInput) (_ *model.Author, err error) {
	ctx, span := startSpan(ctx, "AuthorService.Create")
	defer func() { endSpan(span, err) }()

	if err := checkInput(input); err != nil {
		return nil, err
	}

	author := model.Author{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		BirthDate: input.BirthDate,
	}

	if err := s.authors.Create(ctx, &author); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	author.Books = []model.Book{}
	return &author, nil
}

// List returns every author with books, newest first.
func (s *AuthorService) List(ctx context.Context) (_ []model.Author, err error) {
	ctx, span := startSpan(ctx, "AuthorService.List")
	defer func() { endSpan(span, err) }()

	return s.find(ctx, nil)
}

func (s *AuthorService) GetByID(ctx context.Context, id uint) (_ *model.Author, err error) {
	ctx, span := startSpan(ctx, "AuthorService.GetByID", attribute.Int64("author.id", int64(id)))
	defer func() { endSpan(span, err) }()

	return s.load(ctx, id)
}

// FindByName matches authors whose first and/or last name contain the given
// fragments. Empty fragments are ignored; with both empty every author is
// returned.
func (s *AuthorService) FindByName(ctx context.Context, firstName, lastName string) (_ []model.Author, err error) {
	ctx, span := startSpan(ctx, "AuthorService.FindByName")
	defer func() { endSpan(span, err) }()

	var filters []repository.Filter
	if firstName != "" {
		filters = append(filters, repository.Contains{Field: repository.FieldFirstName, Value: firstName})
	}
	if lastName != "" {
		filters = append(filters, repository.Contains{Field: repository.FieldLastName, Value: lastName})
	}

	return s.find(ctx, repository.All(filters...))
}

// SearchByFullName matches name against "first last", the first name or the
// last name.
func (s *AuthorService) SearchByFullName(ctx context.Context, name string) (_ []model.Author, err error) {
	ctx, span := startSpan(ctx, "AuthorService.SearchByFullName")
	defer func() { endSpan(span, err) }()

	return s.find(ctx, repository.Any(
		repository.Contains{Field: repository.FieldFullName, Value: name},
		repository.Contains{Field: repository.FieldFirstName, Value: name},
		repository.Contains{Field: repository.FieldLastName, Value: name},
	))
}

func (s *AuthorService) Update(ctx context.Context, id uint, input UpdateAuthorInput) (_ *model.Author, err error) {
	ctx, span := startSpan(ctx, "AuthorService.Update", attribute.Int64("author.id", int64(id)))
	defer func() { endSpan(span, err) }()

	if err := checkInput(input); err != nil {
		return nil, err
	}

	author, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		author.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		author.LastName = *input.LastName
	}
	if input.Bio != nil {
		author.Bio = *input.Bio
	}
	if input.BirthDate != nil {
		author.BirthDate = input.BirthDate
	}
	if input.ClearBirthDate {
		author.BirthDate = nil
	}

	if err := s.authors.Update(ctx, author); err != nil {
		return nil, fmt.Errorf("update author %d: %w", id, err)
	}

	return author, nil
}

// Delete removes an author that owns no books. Books are never cascaded.
func (s *AuthorService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "AuthorService.Delete", attribute.Int64("author.id", int64(id)))
	defer func() { endSpan(span, err) }()

	author, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if n := len(author.Books); n > 0 {
		span.SetAttributes(attribute.Int("author.books", n))
		return &ConflictError{
			Reason:    ConflictAuthorHasBooks,
			Message:   fmt.Sprintf("cannot delete author %d: author has %d book(s)", id, n),
			BookCount: n,
		}
	}

	if err := s.authors.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return authorNotFound(id)
		}
		return fmt.Errorf("delete author %d: %w", id, err)
	}

	return nil
}

// AuthorsWithBooks returns only authors that own at least one book.
func (s *AuthorService) AuthorsWithBooks(ctx context.Context) (_ []model.Author, err error) {
	ctx, span := startSpan(ctx, "AuthorService.AuthorsWithBooks")
	defer func() { endSpan(span, err) }()

	return s.find(ctx, repository.HasBooks{})
}

func (s *AuthorService) Stats(ctx context.Context, id uint) (_ *AuthorStats, err error) {
	ctx, span := startSpan(ctx, "AuthorService.Stats", attribute.Int64("author.id", int64(id)))
	defer func() { endSpan(span, err) }()

	author, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := CountBooks(author.Books)
	stats.Author = *author
	return &stats, nil
}

// CountBooks tallies books per status. Books with a status outside the
// known set are counted in TotalBooks only.
func CountBooks(books []model.Book) AuthorStats {
	stats := AuthorStats{TotalBooks: len(books)}
	for _, b := range books {
		switch b.Status {
		case model.BookStatusAvailable:
			stats.AvailableBooks++
		case model.BookStatusBorrowed:
			stats.BorrowedBooks++
		case model.BookStatusReserved:
			stats.ReservedBooks++
		}
	}
	return stats
}

func (s *AuthorService) load(ctx context.Context, id uint) (*model.Author, error) {
	author, err := s.authors.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, authorNotFound(id)
		}
		return nil, fmt.Errorf("find author %d: %w", id, err)
	}
	return author, nil
}

func (s *AuthorService) find(ctx context.Context, filter repository.Filter) ([]model.Author, error) {
	authors, err := s.authors.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	return authors, nil
}
