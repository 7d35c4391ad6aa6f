package tours

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
)

// Repository is the persistence surface for virtual_tours.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CarExists(ctx context.Context, carID uuid.UUID) (bool, error)
	FindByCar(ctx context.Context, carID uuid.UUID) (*models.VirtualTour, error)
	FindActiveByCar(ctx context.Context, carID uuid.UUID) (*models.VirtualTour, error)
	Create(ctx context.Context, tour *models.VirtualTour) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteByCar(ctx context.Context, carID uuid.UUID) (int64, error)
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

func (r *repository) CarExists(ctx context.Context, carID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Car{}).
		Where("id = ?", carID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByCar(ctx context.Context, carID uuid.UUID) (*models.VirtualTour, error) {
	var tour models.VirtualTour
	if err := r.db.WithContext(ctx).First(&tour, "car_id = ?", carID).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *repository) FindActiveByCar(ctx context.Context, carID uuid.UUID) (*models.VirtualTour, error) {
	var tour models.VirtualTour
	if err := r.db.WithContext(ctx).
		Where("car_id = ? AND is_active = ?", carID, true).
		First(&tour).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *repository) Create(ctx context.Context, tour *models.VirtualTour) error {
	return r.db.WithContext(ctx).Create(tour).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.VirtualTour{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteByCar(ctx context.Context, carID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("car_id = ?", carID).Delete(&models.VirtualTour{})
	return res.RowsAffected, res.Error
}
