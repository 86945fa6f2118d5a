package repository

import (
	"context"
	"errors"
	"time"

	"houserent-service/internal/model"
	"houserent-service/prometheus"

	"gorm.io/gorm"
)

// ErrCategoryInUse is returned when deleting a category that houses still reference.
var ErrCategoryInUse = errors.New("category is referenced by existing houses")

// CategoryRepo provides storage access to house categories
type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Migrate() error {
	return r.db.AutoMigrate(&model.Category{})
}

// All returns every category ordered by name.
func (r *CategoryRepo) All(ctx context.Context) ([]model.Category, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var categories []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// Names returns the distinct category names.
func (r *CategoryRepo) Names(ctx context.Context) ([]string, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var names []string
	err := r.db.WithContext(ctx).Model(&model.Category{}).Distinct().Pluck("name", &names).Error
	return names, err
}

func (r *CategoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return r.db.WithContext(ctx).Create(c).Error
}

// Delete removes a category unless any house still references it. The
// reference check and the delete run in one transaction.
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&model.House{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return ErrCategoryInUse
		}

		result := tx.Delete(&model.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
