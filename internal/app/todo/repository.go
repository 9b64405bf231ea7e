package todo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, offset, limit int) ([]*Todo, error)
	GetByID(ctx context.Context, id uint64) (*Todo, error)
	Create(ctx context.Context, todo *Todo) error
	UpdateTitle(ctx context.Context, id uint64, title string) (*Todo, error)
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, offset, limit int) ([]*Todo, error) {
	todos := make([]*Todo, 0, limit)
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&todos).Error
	return todos, err
}

func (r *repository) GetByID(ctx context.Context, id uint64) (*Todo, error) {
	var todo Todo
	err := r.db.WithContext(ctx).First(&todo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *repository) Create(ctx context.Context, todo *Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *repository) UpdateTitle(ctx context.Context, id uint64, title string) (*Todo, error) {
	var todo Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&todo, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(id)
			}
			return err
		}
		return tx.Model(&todo).Update("title", title).Error
	})
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *repository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&Todo{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Todo{}).Count(&count).Error
	return count, err
}
