package carimages

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
)

// DemotedSortOrder is the sort order a primary image receives when another
// image is promoted over it.
const DemotedSortOrder = 999

// Repository is the persistence surface for car_images.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCar(ctx context.Context, carID uuid.UUID) (*models.Car, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CarImage, error)
	Create(ctx context.Context, img *models.CarImage) error
	CountByCar(ctx context.Context, carID uuid.UUID) (int64, error)
	CountSelected(ctx context.Context, carID uuid.UUID) (int64, error)
	HasPrimary(ctx context.Context, carID uuid.UUID) (bool, error)
	List(ctx context.Context, carID uuid.UUID, imageType *enums.ImageType) ([]models.CarImage, error)
	ListSelected(ctx context.Context, carID uuid.UUID, limit int) ([]models.CarImage, error)
	UpdateFields(ctx context.Context, carID, id uuid.UUID, updates map[string]any) (int64, error)
	DemotePrimaries(ctx context.Context, carID uuid.UUID) (int64, error)
	ClearSelection(ctx context.Context, carID uuid.UUID) (int64, error)
	Delete(ctx context.Context, carID, id uuid.UUID) (int64, error)
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

func (r *repository) FindCar(ctx context.Context, carID uuid.UUID) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).
		Select("id", "name").
		First(&car, "id = ?", carID).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CarImage, error) {
	var img models.CarImage
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *repository) Create(ctx context.Context, img *models.CarImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *repository) CountByCar(ctx context.Context, carID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CarImage{}).
		Where("car_id = ?", carID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountSelected(ctx context.Context, carID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CarImage{}).
		Where("car_id = ? AND gallery_selected = ?", carID, true).
		Count(&count).Error
	return count, err
}

func (r *repository) HasPrimary(ctx context.Context, carID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CarImage{}).
		Where("car_id = ? AND image_type = ?", carID, enums.ImageTypePrimary).
		Count(&count).Error
	return count > 0, err
}

// List orders by sort_order with id as the tie-break so equal orders are
// stable across calls.
func (r *repository) List(ctx context.Context, carID uuid.UUID, imageType *enums.ImageType) ([]models.CarImage, error) {
	images := []models.CarImage{}
	query := r.db.WithContext(ctx).Where("car_id = ?", carID)
	if imageType != nil {
		query = query.Where("image_type = ?", *imageType)
	}
	err := query.Order("sort_order ASC").Order("id ASC").Find(&images).Error
	return images, err
}

func (r *repository) ListSelected(ctx context.Context, carID uuid.UUID, limit int) ([]models.CarImage, error) {
	images := []models.CarImage{}
	err := r.db.WithContext(ctx).
		Where("car_id = ? AND gallery_selected = ?", carID, true).
		Order("sort_order ASC").
		Order("id ASC").
		Limit(limit).
		Find(&images).Error
	return images, err
}

// UpdateFields scopes the update to carID so a foreign image id matches no
// rows.
func (r *repository) UpdateFields(ctx context.Context, carID, id uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CarImage{}).
		Where("id = ? AND car_id = ?", id, carID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) DemotePrimaries(ctx context.Context, carID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CarImage{}).
		Where("car_id = ? AND image_type = ?", carID, enums.ImageTypePrimary).
		Updates(map[string]any{
			"image_type": enums.ImageTypeExterior,
			"sort_order": DemotedSortOrder,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) ClearSelection(ctx context.Context, carID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CarImage{}).
		Where("car_id = ? AND gallery_selected = ?", carID, true).
		Update("gallery_selected", false)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, carID, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND car_id = ?", id, carID).
		Delete(&models.CarImage{})
	return res.RowsAffected, res.Error
}
