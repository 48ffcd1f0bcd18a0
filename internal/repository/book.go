package repository

import (
	"context"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uint) (*model.Book, error)
	FindOne(ctx context.Context, filter Filter) (*model.Book, error)
	Find(ctx context.Context, filter Filter) ([]model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uint) error
	AuthorExists(ctx context.Context, authorID uint) (bool, error)
}

type GormBookRepository struct {
	db *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

func (r *GormBookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *GormBookRepository) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindOne returns the first book matching filter, or gorm.ErrRecordNotFound.
func (r *GormBookRepository) FindOne(ctx context.Context, filter Filter) (*model.Book, error) {
	q := r.db.WithContext(ctx)
	if filter != nil {
		q = q.Where(filter.expression())
	}

	var book model.Book
	if err := q.Take(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Find returns matching books, newest first.
func (r *GormBookRepository) Find(ctx context.Context, filter Filter) ([]model.Book, error) {
	q := orderBooks(r.db.WithContext(ctx))
	if filter != nil {
		q = q.Where(filter.expression())
	}

	books := []model.Book{}
	if err := q.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *GormBookRepository) Update(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).
		Model(book).
		Select("title", "isbn", "author_id", "author_name", "description",
			"published_date", "status", "updated_at").
		Updates(book).Error
}

func (r *GormBookRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Book{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormBookRepository) AuthorExists(ctx context.Context, authorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Author{}).
		Where("id = ?", authorID).
		Count(&count).Error; err != nil {

		return false, err
	}
	return count > 0, nil
}
