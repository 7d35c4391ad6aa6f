package cars

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
)

// Repository is the persistence surface for car records and their feature
// lists.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
	FindWithFeatures(ctx context.Context, id uuid.UUID) (*models.Car, error)
	Create(ctx context.Context, car *models.Car) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	ReplaceFeatures(ctx context.Context, carID uuid.UUID, features []models.CarFeature) error
	ListFeatures(ctx context.Context, carID uuid.UUID) ([]models.CarFeature, error)
	MediaObjects(ctx context.Context, carID uuid.UUID) (MediaObjects, error)
}

// MediaObjects names the stored binaries that reference a car.
type MediaObjects struct {
	Images  []models.CarImage
	TourURL string
	HasTour bool
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// FindWithFeatures loads the car with its features in display order.
func (r *repository) FindWithFeatures(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	var car models.Car
	err := r.db.WithContext(ctx).
		Preload("Features", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC").Order("id ASC")
		}).
		First(&car, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if car.Features == nil {
		car.Features = []models.CarFeature{}
	}
	return &car, nil
}

func (r *repository) Create(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Omit("Features").Create(car).Error
}

// Update applies column updates. A map is used so zero values are written.
func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Car{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Car{})
	return res.RowsAffected, res.Error
}

func (r *repository) ReplaceFeatures(ctx context.Context, carID uuid.UUID, features []models.CarFeature) error {
	if err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Delete(&models.CarFeature{}).Error; err != nil {
		return err
	}
	if len(features) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&features).Error
}

func (r *repository) ListFeatures(ctx context.Context, carID uuid.UUID) ([]models.CarFeature, error) {
	features := []models.CarFeature{}
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&features).Error
	return features, err
}

func (r *repository) MediaObjects(ctx context.Context, carID uuid.UUID) (MediaObjects, error) {
	var out MediaObjects
	if err := r.db.WithContext(ctx).
		Select("id", "image_url", "storage_path").
		Where("car_id = ?", carID).
		Find(&out.Images).Error; err != nil {
		return out, err
	}

	var tour models.VirtualTour
	res := r.db.WithContext(ctx).
		Select("id", "video_url").
		Where("car_id = ?", carID).
		Limit(1).
		Find(&tour)
	if res.Error != nil {
		return out, res.Error
	}
	if res.RowsAffected > 0 {
		out.HasTour = true
		out.TourURL = tour.VideoURL
	}
	return out, nil
}
