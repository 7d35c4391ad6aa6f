package cars

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/locks"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage"
)

const requiredFieldsMessage = "Please fill in all required fields (Name, Make, Model, Price)"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type objectDeleter interface {
	Delete(ctx context.Context, bucket, objectPath string) error
}

// Service manages car records and their feature lists.
type Service interface {
	GetCar(ctx context.Context, id uuid.UUID) (*models.Car, error)
	CreateCar(ctx context.Context, input CreateCarInput) (*models.Car, error)
	UpdateCar(ctx context.Context, id uuid.UUID, input UpdateCarInput) (*models.Car, error)
	DeleteCar(ctx context.Context, id uuid.UUID) error
	ReplaceFeatures(ctx context.Context, carID uuid.UUID, names []string) ([]models.CarFeature, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	store  objectDeleter
	locker locks.Locker
	bucket string
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, tx txRunner, store objectDeleter, locker locks.Locker, bucket string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cars repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if locker == nil {
		return nil, fmt.Errorf("locker required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		store:  store,
		locker: locker,
		bucket: bucket,
		logg:   logg,
		now:    time.Now,
	}, nil
}

func (s *service) GetCar(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	car, err := s.repo.FindWithFeatures(ctx, id)
	if err != nil {
		return nil, storeError(err, "car", "load car")
	}
	return car, nil
}

func (s *service) CreateCar(ctx context.Context, input CreateCarInput) (*models.Car, error) {
	name := strings.TrimSpace(input.Name)
	carMake := strings.TrimSpace(input.Make)
	model := strings.TrimSpace(input.Model)
	if name == "" || carMake == "" || model == "" || input.Price == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, requiredFieldsMessage)
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	status := input.Status
	if status == "" {
		status = enums.CarStatusAvailable
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}
	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category %q", *input.Category))
	}

	year := input.Year
	if year == 0 {
		year = s.now().Year()
	}
	currency := strings.ToUpper(strings.TrimSpace(input.PriceCurrency))
	if currency == "" {
		currency = "USD"
	}
	mileageUnit := input.MileageUnit
	if mileageUnit == "" {
		mileageUnit = "miles"
	}
	metaTitle := strings.TrimSpace(input.MetaTitle)
	if metaTitle == "" {
		metaTitle = MetaTitle(name, year)
	}

	car := &models.Car{
		ID:              uuid.New(),
		Name:            name,
		Make:            carMake,
		Model:           model,
		Year:            year,
		Price:           *input.Price,
		PriceCurrency:   currency,
		OriginalPrice:   input.OriginalPrice,
		Status:          status,
		Category:        input.Category,
		Location:        input.Location,
		Mileage:         input.Mileage,
		MileageUnit:     mileageUnit,
		Engine:          input.Engine,
		Horsepower:      input.Horsepower,
		Transmission:    input.Transmission,
		ExteriorColor:   input.ExteriorColor,
		InteriorColor:   input.InteriorColor,
		Description:     input.Description,
		IsFeatured:      input.IsFeatured,
		IsExclusive:     input.IsExclusive,
		Badge:           input.Badge,
		MetaTitle:       metaTitle,
		MetaDescription: input.MetaDescription,
	}
	car.Slug = Slugify(name)
	if car.Slug == "" {
		car.Slug = car.ID.String()
	}

	var created *models.Car
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, car); err != nil {
			return pkgerrors.Backend(err, "create car")
		}
		if len(input.Features) > 0 {
			if err := txRepo.ReplaceFeatures(ctx, car.ID, buildFeatures(car.ID, input.Features)); err != nil {
				return pkgerrors.Backend(err, "create car features")
			}
		}
		loaded, err := txRepo.FindWithFeatures(ctx, car.ID)
		if err != nil {
			return pkgerrors.Backend(err, "reload car")
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, storeError(err, "car", "create car")
	}
	return created, nil
}

func (s *service) UpdateCar(ctx context.Context, id uuid.UUID, input UpdateCarInput) (*models.Car, error) {
	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}

	var updated *models.Car
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		existing, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return storeError(err, "car", "load car")
		}
		if name, ok := updates["name"].(string); ok && name != existing.Name {
			slug := Slugify(name)
			if slug == "" {
				slug = existing.ID.String()
			}
			updates["slug"] = slug
		}
		if err := txRepo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Backend(err, "update car")
		}
		if input.Features != nil {
			if err := txRepo.ReplaceFeatures(ctx, id, buildFeatures(id, input.Features)); err != nil {
				return pkgerrors.Backend(err, "replace car features")
			}
		}
		loaded, err := txRepo.FindWithFeatures(ctx, id)
		if err != nil {
			return pkgerrors.Backend(err, "reload car")
		}
		updated = loaded
		return nil
	})
	if err != nil {
		return nil, storeError(err, "car", "update car")
	}
	return updated, nil
}

// DeleteCar removes the record, letting the store cascade media rows, then
// clears the stored binaries best-effort. It holds the car lock so no upload
// can attach media between listing the objects and the cascade.
func (s *service) DeleteCar(ctx context.Context, id uuid.UUID) error {
	ctx = s.logg.WithCarID(ctx, id.String())

	unlock, err := s.locker.Lock(ctx, locks.CarKey(id.String()))
	if err != nil {
		return storeError(err, "car", "acquire car lock")
	}
	defer unlock()

	var objects MediaObjects
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindByID(ctx, id); err != nil {
			return storeError(err, "car", "load car")
		}
		found, err := txRepo.MediaObjects(ctx, id)
		if err != nil {
			return pkgerrors.Backend(err, "list car media")
		}
		objects = found
		if _, err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Backend(err, "delete car")
		}
		return nil
	})
	if err != nil {
		return storeError(err, "car", "delete car")
	}

	var cleanupErr error
	for _, objectPath := range objectPaths(objects) {
		if err := s.store.Delete(ctx, s.bucket, objectPath); err != nil {
			cleanupErr = multierr.Append(cleanupErr, fmt.Errorf("%s: %w", objectPath, err))
		}
	}
	if cleanupErr != nil {
		warnCtx := s.logg.WithField(ctx, "error", cleanupErr.Error())
		s.logg.Warn(warnCtx, "cars.delete.object_cleanup_failed")
	}
	return nil
}

func (s *service) ReplaceFeatures(ctx context.Context, carID uuid.UUID, names []string) ([]models.CarFeature, error) {
	var features []models.CarFeature
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindByID(ctx, carID); err != nil {
			return storeError(err, "car", "load car")
		}
		if err := txRepo.ReplaceFeatures(ctx, carID, buildFeatures(carID, names)); err != nil {
			return pkgerrors.Backend(err, "replace car features")
		}
		list, err := txRepo.ListFeatures(ctx, carID)
		if err != nil {
			return pkgerrors.Backend(err, "list car features")
		}
		features = list
		return nil
	})
	if err != nil {
		return nil, storeError(err, "car", "replace car features")
	}
	return features, nil
}

func buildFeatures(carID uuid.UUID, names []string) []models.CarFeature {
	features := make([]models.CarFeature, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		features = append(features, models.CarFeature{
			ID:          uuid.New(),
			CarID:       carID,
			FeatureName: name,
			SortOrder:   len(features),
		})
	}
	return features
}

func buildUpdates(input UpdateCarInput) (map[string]any, error) {
	updates := map[string]any{}

	required := map[string]*string{"name": input.Name, "make": input.Make, "model": input.Model}
	for column, value := range required {
		if value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, requiredFieldsMessage)
		}
		updates[column] = trimmed
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = *input.Price
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *input.Status))
		}
		updates["status"] = *input.Status
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category %q", *input.Category))
		}
		updates["category"] = *input.Category
	}
	if input.Year != nil {
		updates["year"] = *input.Year
	}
	if input.PriceCurrency != nil {
		updates["price_currency"] = strings.ToUpper(strings.TrimSpace(*input.PriceCurrency))
	}
	if input.OriginalPrice != nil {
		updates["original_price"] = *input.OriginalPrice
	}
	if input.MileageUnit != nil {
		updates["mileage_unit"] = *input.MileageUnit
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if input.IsExclusive != nil {
		updates["is_exclusive"] = *input.IsExclusive
	}
	if input.MetaTitle != nil && strings.TrimSpace(*input.MetaTitle) != "" {
		updates["meta_title"] = strings.TrimSpace(*input.MetaTitle)
	}

	optional := map[string]*string{
		"location":         input.Location,
		"mileage":          input.Mileage,
		"engine":           input.Engine,
		"horsepower":       input.Horsepower,
		"transmission":     input.Transmission,
		"exterior_color":   input.ExteriorColor,
		"interior_color":   input.InteriorColor,
		"description":      input.Description,
		"badge":            input.Badge,
		"meta_description": input.MetaDescription,
	}
	for column, value := range optional {
		if value != nil {
			updates[column] = *value
		}
	}
	return updates, nil
}

func objectPaths(objects MediaObjects) []string {
	paths := make([]string, 0, len(objects.Images)+1)
	for _, img := range objects.Images {
		if img.StoragePath != nil && *img.StoragePath != "" {
			paths = append(paths, *img.StoragePath)
			continue
		}
		if p := storage.PathFromURL(img.ImageURL, storage.ImagePrefix); p != "" {
			paths = append(paths, p)
		}
	}
	if objects.HasTour {
		if p := storage.PathFromURL(objects.TourURL, storage.TourPrefix); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// storeError keeps typed errors, turns a missing row into NotFound and
// wraps anything else as a backend failure.
func storeError(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsNotFound(err) {
		return pkgerrors.NotFound(entity)
	}
	return pkgerrors.Backend(err, op)
}
