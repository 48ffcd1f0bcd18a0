package handler

import (
	"time"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/service"
)

func toDate(t *time.Time) *model.Date {
	if t == nil || t.IsZero() {
		return nil
	}
	return &model.Date{Time: *t}
}

func fromDate(d *model.Date) *time.Time {
	if d == nil || d.Time.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// clearsDate reports whether a supplied date asks to remove the stored value.
func clearsDate(d *model.Date) bool {
	return d != nil && d.Time.IsZero()
}

func toAuthor(a model.Author) Author {
	books := make([]BookSummary, 0, len(a.Books))
	for _, b := range a.Books {
		books = append(books, toBookSummary(b))
	}

	return Author{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		FullName:  a.FullName(),
		Bio:       a.Bio,
		BirthDate: toDate(a.BirthDate),
		Books:     books,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAuthors(authors []model.Author) ListAuthorsResponse {
	data := make([]Author, 0, len(authors))
	for _, a := range authors {
		data = append(data, toAuthor(a))
	}
	return ListAuthorsResponse{Data: data}
}

func toAuthorStats(s service.AuthorStats) AuthorStats {
	return AuthorStats{
		Author:         toAuthor(s.Author),
		TotalBooks:     s.TotalBooks,
		AvailableBooks: s.AvailableBooks,
		BorrowedBooks:  s.BorrowedBooks,
		ReservedBooks:  s.ReservedBooks,
	}
}

func toBook(b model.Book) Book {
	return Book{
		ID:            b.ID,
		Title:         b.Title,
		ISBN:          b.ISBN,
		AuthorID:      b.AuthorID,
		AuthorName:    b.AuthorName,
		Description:   b.Description,
		PublishedDate: toDate(b.PublishedDate),
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBooks(books []model.Book) ListBooksResponse {
	data := make([]Book, 0, len(books))
	for _, b := range books {
		data = append(data, toBook(b))
	}
	return ListBooksResponse{Data: data}
}

func toBookSummary(b model.Book) BookSummary {
	return BookSummary{
		ID:            b.ID,
		Title:         b.Title,
		ISBN:          b.ISBN,
		Status:        b.Status,
		PublishedDate: toDate(b.PublishedDate),
	}
}
