package service

import (
	"context"
	"errors"
	"testing"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBookRepo struct {
	CreateFn       func(ctx context.Context, b *model.Book) error
	FindByIDFn     func(ctx context.Context, id uint) (*model.Book, error)
	FindOneFn      func(ctx context.Context, filter repository.Filter) (*model.Book, error)
	FindFn         func(ctx context.Context, filter repository.Filter) ([]model.Book, error)
	UpdateFn       func(ctx context.Context, b *model.Book) error
	DeleteFn       func(ctx context.Context, id uint) error
	AuthorExistsFn func(ctx context.Context, authorID uint) (bool, error)
}

func (f *fakeBookRepo) Create(ctx context.Context, b *model.Book) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, b)
	}
	return nil
}

func (f *fakeBookRepo) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	if f.FindByIDFn != nil {
		return f.FindByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBookRepo) FindOne(ctx context.Context, filter repository.Filter) (*model.Book, error) {
	if f.FindOneFn != nil {
		return f.FindOneFn(ctx, filter)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBookRepo) Find(ctx context.Context, filter repository.Filter) ([]model.Book, error) {
	if f.FindFn != nil {
		return f.FindFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeBookRepo) Update(ctx context.Context, b *model.Book) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, b)
	}
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeBookRepo) AuthorExists(ctx context.Context, authorID uint) (bool, error) {
	if f.AuthorExistsFn != nil {
		return f.AuthorExistsFn(ctx, authorID)
	}
	return true, nil
}

func TestBookService_CreateDefaultsToAvailable(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	created, err := s.books.Create(ctx, CreateBookInput{
		Title:      "The Great Gatsby",
		ISBN:       "978-0-7432-7356-5",
		AuthorName: "F. Scott Fitzgerald",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, model.BookStatusAvailable, created.Status)
	assert.Nil(t, created.AuthorID)

	got, err := s.books.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Great Gatsby", got.Title)
	assert.Equal(t, "9780743273565", got.ISBN)
	assert.Equal(t, "F. Scott Fitzgerald", got.AuthorName)
	assert.Equal(t, model.BookStatusAvailable, got.Status)
}

func TestBookService_Create_InvalidInput(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.books.Create(ctx, CreateBookInput{Title: "Bad", ISBN: "978-0-452-28423-5"})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "isbn", verr.Fields[0].Field)

	_, err = s.books.Create(ctx, CreateBookInput{Title: "Bad", ISBN: "0-306-40615-2", Status: "lost"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.books.Create(ctx, CreateBookInput{ISBN: "0-306-40615-2"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestBookService_Create_UnknownAuthor(t *testing.T) {
	s := newServices(t)

	_, err := s.books.Create(context.Background(), CreateBookInput{
		Title:    "Orphan",
		ISBN:     "0-306-40615-2",
		AuthorID: ptr(uint(404)),
	})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "author_id", verr.Fields[0].Field)
	assert.Equal(t, "exists", verr.Fields[0].Rule)
}

func TestBookService_DuplicateISBNScenario(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.books.Create(ctx, CreateBookInput{Title: "1984", ISBN: "978-0-452-28423-4"})
	require.NoError(t, err)

	_, err = s.books.Create(ctx, CreateBookInput{Title: "Nineteen Eighty-Four", ISBN: "978-0-452-28423-4"})
	require.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "a book with this ISBN already exists")

	books, err := s.books.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestBookService_Create_DuplicateISBNAcrossFormats(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	first, err := s.books.Create(ctx, CreateBookInput{Title: "1984", ISBN: "978-0-452-28423-4"})
	require.NoError(t, err)
	assert.Equal(t, "9780452284234", first.ISBN)

	_, err = s.books.Create(ctx, CreateBookInput{Title: "Nineteen Eighty-Four", ISBN: "9780452284234"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = s.books.Create(ctx, CreateBookInput{Title: "Bad Luck", ISBN: "0-306-40615-2"})
	require.NoError(t, err)
	_, err = s.books.Create(ctx, CreateBookInput{Title: "Bad Luck Again", ISBN: "0 306 40615 2"})
	require.ErrorIs(t, err, ErrConflict)

	got, err := s.books.GetByISBN(ctx, "978 0 452 28423 4")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestBookService_Update_ISBNIsNormalized(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.books.Create(ctx, CreateBookInput{Title: "1984", ISBN: "9780452284234"})
	require.NoError(t, err)
	other, err := s.books.Create(ctx, CreateBookInput{Title: "Gatsby", ISBN: "978-0-7432-7356-5"})
	require.NoError(t, err)

	_, err = s.books.Update(ctx, other.ID, UpdateBookInput{ISBN: ptr("978-0-452-28423-4")})
	require.ErrorIs(t, err, ErrConflict)

	updated, err := s.books.Update(ctx, other.ID, UpdateBookInput{ISBN: ptr("0-306-40615-2")})
	require.NoError(t, err)
	assert.Equal(t, "0306406152", updated.ISBN)
}

func TestBookService_Update_DuplicateISBNLeavesDataUntouched(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.books.Create(ctx, CreateBookInput{Title: "1984", ISBN: "978-0-452-28423-4"})
	require.NoError(t, err)
	other, err := s.books.Create(ctx, CreateBookInput{Title: "Gatsby", ISBN: "978-0-7432-7356-5"})
	require.NoError(t, err)

	_, err = s.books.Update(ctx, other.ID, UpdateBookInput{
		Title: ptr("Renamed"),
		ISBN:  ptr("978-0-452-28423-4"),
	})
	require.ErrorIs(t, err, ErrConflict)

	stored, err := s.books.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gatsby", stored.Title)
	assert.Equal(t, "9780743273565", stored.ISBN)
}

func TestBookService_Create_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewBookService(&fakeBookRepo{
		CreateFn: func(ctx context.Context, b *model.Book) error { return boom },
	})

	_, err := svc.Create(context.Background(), CreateBookInput{Title: "X", ISBN: "0-306-40615-2"})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestBookService_GetByISBN(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	created, err := s.books.Create(ctx, CreateBookInput{Title: "1984", ISBN: "978-0-452-28423-4"})
	require.NoError(t, err)

	got, err := s.books.GetByISBN(ctx, "978-0-452-28423-4")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.books.GetByISBN(ctx, "0-306-40615-2")
	require.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "isbn", nf.Key)
	assert.Equal(t, "0-306-40615-2", nf.Value)
}

func TestBookService_FindByAuthorNameIsExact(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.books.Create(ctx, CreateBookInput{Title: "1984", ISBN: "978-0-452-28423-4", AuthorName: "George Orwell"})
	require.NoError(t, err)
	_, err = s.books.Create(ctx, CreateBookInput{Title: "Middlemarch", ISBN: "0-306-40615-2", AuthorName: "George Eliot"})
	require.NoError(t, err)

	exact, err := s.books.FindByAuthorName(ctx, "George Orwell")
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, "1984", exact[0].Title)

	partial, err := s.books.FindByAuthorName(ctx, "George")
	require.NoError(t, err)
	assert.Empty(t, partial)
}

func TestBookService_SearchByTitleScenario(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.books.Create(ctx, CreateBookInput{Title: "The Great Gatsby", ISBN: "978-0-7432-7356-5"})
	require.NoError(t, err)
	_, err = s.books.Create(ctx, CreateBookInput{Title: "1984", ISBN: "978-0-452-28423-4"})
	require.NoError(t, err)

	books, err := s.books.SearchByTitle(ctx, "Gatsby")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "The Great Gatsby", books[0].Title)
}

func TestBookService_UpdateOnlySuppliedFields(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	author, err := s.authors.Create(ctx, CreateAuthorInput{FirstName: "George", LastName: "Orwell"})
	require.NoError(t, err)
	created, err := s.books.Create(ctx, CreateBookInput{
		Title:       "1984",
		ISBN:        "978-0-452-28423-4",
		Description: "dystopia",
	})
	require.NoError(t, err)

	updated, err := s.books.Update(ctx, created.ID, UpdateBookInput{AuthorID: &author.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.AuthorID)
	assert.Equal(t, author.ID, *updated.AuthorID)
	assert.Equal(t, "1984", updated.Title)
	assert.Equal(t, "dystopia", updated.Description)

	_, err = s.books.Update(ctx, created.ID, UpdateBookInput{AuthorID: ptr(uint(999))})
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.books.Update(ctx, 999, UpdateBookInput{Title: ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBookService_Delete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	created, err := s.books.Create(ctx, CreateBookInput{Title: "1984", ISBN: "978-0-452-28423-4"})
	require.NoError(t, err)

	require.NoError(t, s.books.Delete(ctx, created.ID))

	_, err = s.books.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.books.Delete(ctx, created.ID), ErrNotFound)
}

func TestBookService_UpdateStatusAndAvailable(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	gatsby, err := s.books.Create(ctx, CreateBookInput{Title: "The Great Gatsby", ISBN: "978-0-7432-7356-5"})
	require.NoError(t, err)
	orwell, err := s.books.Create(ctx, CreateBookInput{Title: "1984", ISBN: "978-0-452-28423-4"})
	require.NoError(t, err)

	updated, err := s.books.UpdateStatus(ctx, gatsby.ID, model.BookStatusBorrowed)
	require.NoError(t, err)
	assert.Equal(t, model.BookStatusBorrowed, updated.Status)

	available, err := s.books.Available(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, orwell.ID, available[0].ID)

	_, err = s.books.UpdateStatus(ctx, gatsby.ID, "lost")
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.books.UpdateStatus(ctx, 999, model.BookStatusReserved)
	require.ErrorIs(t, err, ErrNotFound)
}
