package service

import (
	"testing"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/testutil"
	"gorm.io/gorm"
)

type services struct {
	db      *gorm.DB
	authors *AuthorService
	books   *BookService
}

func newServices(t *testing.T) services {
	t.Helper()

	db := testutil.NewTestDB(t)
	return services{
		db:      db,
		authors: NewAuthorService(repository.NewAuthorRepository(db)),
		books:   NewBookService(repository.NewGormBookRepository(db)),
	}
}

func ptr[T any](v T) *T {
	return &v
}
