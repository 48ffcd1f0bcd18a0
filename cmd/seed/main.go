// Command seed loads a small catalog of authors and books. Running it again
// reuses existing authors and skips books whose ISBN is already stored.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/db"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/logging"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/service"
)

type seedBook struct {
	title     string
	isbn      string
	published string
	status    model.BookStatus
}

type seedAuthor struct {
	firstName string
	lastName  string
	bio       string
	born      string
	books     []seedBook
}

var catalog = []seedAuthor{
	{
		firstName: "George",
		lastName:  "Orwell",
		bio:       "English novelist and essayist.",
		born:      "1903-06-25",
		books: []seedBook{
			{title: "1984", isbn: "978-0-452-28423-4", published: "1949-06-08"},
			{title: "Animal Farm", isbn: "0-19-852663-6", published: "1945-08-17", status: model.BookStatusBorrowed},
		},
	},
	{
		firstName: "F. Scott",
		lastName:  "Fitzgerald",
		bio:       "American novelist of the Jazz Age.",
		born:      "1896-09-24",
		books: []seedBook{
			{title: "The Great Gatsby", isbn: "978-0-7432-7356-5", published: "1925-04-10", status: model.BookStatusReserved},
		},
	},
	{
		firstName: "Robert C.",
		lastName:  "Martin",
		books: []seedBook{
			{title: "Clean Code", isbn: "978-0132350884", published: "2008-08-01"},
		},
	},
	{
		firstName: "Martin",
		lastName:  "Fowler",
		books: []seedBook{
			{title: "Refactoring", isbn: "978-0134494166", published: "2018-11-20"},
			{title: "UML Distilled", isbn: "978-0321193681", published: "2003-09-15"},
		},
	},
	{
		firstName: "Ursula K.",
		lastName:  "Le Guin",
		bio:       "Author of Earthsea. No books catalogued yet.",
		born:      "1929-10-21",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	database, err := db.ConnectWithRetry(ctx, cfg, db.DefaultRetry)
	if err != nil {
		logger.Error("connect", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(database); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	authors := service.NewAuthorService(repository.NewAuthorRepository(database))
	books := service.NewBookService(repository.NewGormBookRepository(database))

	created, skipped, err := seed(ctx, authors, books)
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seed complete", "books_created", created, "books_skipped", skipped)
}

func seed(ctx context.Context, authors *service.AuthorService, books *service.BookService) (created, skipped int, err error) {
	for _, sa := range catalog {
		author, err := ensureAuthor(ctx, authors, sa)
		if err != nil {
			return created, skipped, err
		}

		for _, sb := range sa.books {
			_, err := books.Create(ctx, service.CreateBookInput{
				Title:         sb.title,
				ISBN:          sb.isbn,
				AuthorID:      &author.ID,
				AuthorName:    author.FullName(),
				PublishedDate: date(sb.published),
				Status:        sb.status,
			})
			switch {
			case err == nil:
				created++
			case errors.Is(err, service.ErrConflict):
				skipped++
			default:
				return created, skipped, err
			}
		}
	}
	return created, skipped, nil
}

func ensureAuthor(ctx context.Context, authors *service.AuthorService, sa seedAuthor) (*model.Author, error) {
	existing, err := authors.FindByName(ctx, sa.firstName, sa.lastName)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].FirstName == sa.firstName && existing[i].LastName == sa.lastName {
			return &existing[i], nil
		}
	}

	return authors.Create(ctx, service.CreateAuthorInput{
		FirstName: sa.firstName,
		LastName:  sa.lastName,
		Bio:       sa.bio,
		BirthDate: date(sa.born),
	})
}

func date(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &t
}
