package repository

import (
	"context"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"gorm.io/gorm"
)

type AuthorRepository interface {
	Create(ctx context.Context, author *model.Author) error
	FindByID(ctx context.Context, id uint) (*model.Author, error)
	Find(ctx context.Context, filter Filter) ([]model.Author, error)
	Update(ctx context.Context, author *model.Author) error
	Delete(ctx context.Context, id uint) error
}

type GormAuthorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) *GormAuthorRepository {
	return &GormAuthorRepository{db: db}
}

func (r *GormAuthorRepository) Create(ctx context.Context, author *model.Author) error {
	return r.db.WithContext(ctx).Omit("Books").Create(author).Error
}

// FindByID loads the author with its books.
func (r *GormAuthorRepository) FindByID(ctx context.Context, id uint) (*model.Author, error) {
	var author model.Author
	if err := r.db.WithContext(ctx).
		Preload("Books", orderBooks).
		First(&author, "id = ?", id).Error; err != nil {

		return nil, err
	}
	return &author, nil
}

// Find returns matching authors with their books, newest first.
func (r *GormAuthorRepository) Find(ctx context.Context, filter Filter) ([]model.Author, error) {
	q := r.db.WithContext(ctx).
		Preload("Books", orderBooks).
		Order("created_at DESC").
		Order("id DESC")
	if filter != nil {
		q = q.Where(filter.expression())
	}

	authors := []model.Author{}
	if err := q.Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *GormAuthorRepository) Update(ctx context.Context, author *model.Author) error {
	return r.db.WithContext(ctx).
		Model(author).
		Select("first_name", "last_name", "bio", "birth_date", "updated_at").
		Updates(author).Error
}

func (r *GormAuthorRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Author{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func orderBooks(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}
