// Package testutil provides an in-memory SQLite database and seed helpers
// shared by the package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a fresh, migrated in-memory database that is closed when
// the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := openMemoryDB(t, "testdb_")

	if err := db.AutoMigrate(&model.Author{}, &model.Book{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// NewUnmigratedDB opens an in-memory database without any tables, so every
// query against it fails.
func NewUnmigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openMemoryDB(t, "errdb_")
}

func openMemoryDB(t *testing.T, prefix string) *gorm.DB {
	t.Helper()

	dsn := "file:" + prefix + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func SeedAuthor(t *testing.T, db *gorm.DB, firstName, lastName string) model.Author {
	t.Helper()

	author := model.Author{
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := db.Omit("Books").Create(&author).Error; err != nil {
		t.Fatalf("failed to seed author %q: %v", model.FullName(firstName, lastName), err)
	}

	return author
}

// SeedBook inserts an available book. A nil author leaves author_id empty.
func SeedBook(t *testing.T, db *gorm.DB, author *model.Author, title, isbn string) model.Book {
	t.Helper()
	return SeedBookWith(t, db, model.Book{
		Title:    title,
		ISBN:     isbn,
		AuthorID: authorID(author),
	})
}

// SeedBookWith inserts book as given, filling in status and timestamps when
// they are zero.
func SeedBookWith(t *testing.T, db *gorm.DB, book model.Book) model.Book {
	t.Helper()

	book.ISBN = model.NormalizeISBN(book.ISBN)
	if book.Status == "" {
		book.Status = model.BookStatusAvailable
	}
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now()
	}
	if book.UpdatedAt.IsZero() {
		book.UpdatedAt = book.CreatedAt
	}

	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", book.Title, err)
	}

	return book
}

func authorID(a *model.Author) *uint {
	if a == nil {
		return nil
	}
	id := a.ID
	return &id
}
