package carimages

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
)

// RegisterImage appends an image to the car. The first image becomes the
// primary, every later one is exterior.
func (s *service) RegisterImage(ctx context.Context, carID uuid.UUID, input RegisterInput) (img *models.CarImage, err error) {
	defer func() { s.metrics.Record("register_image", err) }()

	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
	}

	err = s.curate(ctx, carID, func(repo Repository) error {
		car, err := repo.FindCar(ctx, carID)
		if err != nil {
			return storeError(err, "car", "load car")
		}
		count, err := repo.CountByCar(ctx, carID)
		if err != nil {
			return pkgerrors.Backend(err, "count car images")
		}

		imageType := enums.ImageTypeExterior
		if count == 0 {
			imageType = enums.ImageTypePrimary
		}
		altText := input.AltText
		if altText == nil || strings.TrimSpace(*altText) == "" {
			generated := fmt.Sprintf("%s - Image %d", car.Name, count+1)
			altText = &generated
		}

		row := &models.CarImage{
			ID:          uuid.New(),
			CarID:       carID,
			ImageURL:    input.ImageURL,
			ImageType:   imageType,
			SortOrder:   int(count),
			AltText:     altText,
			Caption:     input.Caption,
			FileSize:    input.FileSize,
			Format:      input.Format,
			StoragePath: input.StoragePath,
			Width:       input.Width,
			Height:      input.Height,
		}
		if err := repo.Create(ctx, row); err != nil {
			return pkgerrors.Backend(err, "insert car image")
		}
		img = row
		return nil
	})
	if err != nil {
		return nil, storeError(err, "car", "register image")
	}
	return img, nil
}

func (s *service) ListImages(ctx context.Context, carID uuid.UUID, imageType *enums.ImageType) ([]models.CarImage, error) {
	if imageType != nil && !imageType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid image type %q", *imageType))
	}
	images, err := s.repo.List(ctx, carID, imageType)
	if err != nil {
		return nil, pkgerrors.Backend(err, "list car images")
	}
	return images, nil
}

// RemoveImage deletes the metadata row only. The stored object is left to
// the caller.
func (s *service) RemoveImage(ctx context.Context, imageID uuid.UUID) error {
	_, err := s.removeImage(ctx, imageID)
	return err
}

func (s *service) removeImage(ctx context.Context, imageID uuid.UUID) (removed *models.CarImage, err error) {
	defer func() { s.metrics.Record("remove_image", err) }()

	carID, err := s.ownerOf(ctx, imageID)
	if err != nil {
		return nil, err
	}
	err = s.curate(ctx, carID, func(repo Repository) error {
		img, err := repo.FindByID(ctx, imageID)
		if err != nil {
			return storeError(err, "image", "load image")
		}
		deleted, err := repo.Delete(ctx, carID, imageID)
		if err != nil {
			return pkgerrors.Backend(err, "delete car image")
		}
		if deleted == 0 {
			return pkgerrors.NotFound("image")
		}
		removed = img
		return nil
	})
	if err != nil {
		return nil, storeError(err, "image", "remove image")
	}
	return removed, nil
}

// Reclassify changes only the image type. Making an image primary while the
// car already has one is rejected; PromoteToPrimary handles that swap.
func (s *service) Reclassify(ctx context.Context, imageID uuid.UUID, imageType enums.ImageType) (img *models.CarImage, err error) {
	defer func() { s.metrics.Record("reclassify", err) }()

	if !imageType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid image type %q", imageType))
	}
	carID, err := s.ownerOf(ctx, imageID)
	if err != nil {
		return nil, err
	}

	err = s.curate(ctx, carID, func(repo Repository) error {
		current, err := repo.FindByID(ctx, imageID)
		if err != nil {
			return storeError(err, "image", "load image")
		}
		if current.ImageType == imageType {
			img = current
			return nil
		}
		if imageType == enums.ImageTypePrimary {
			hasPrimary, err := repo.HasPrimary(ctx, carID)
			if err != nil {
				return pkgerrors.Backend(err, "check primary image")
			}
			if hasPrimary {
				return pkgerrors.New(pkgerrors.CodeValidation, "car already has a primary image; promote this image instead")
			}
		}
		if _, err := repo.UpdateFields(ctx, carID, imageID, map[string]any{"image_type": imageType}); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "car already has a primary image; promote this image instead")
			}
			return pkgerrors.Backend(err, "update image type")
		}
		img, err = repo.FindByID(ctx, imageID)
		if err != nil {
			return pkgerrors.Backend(err, "reload image")
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "image", "reclassify image")
	}
	return img, nil
}
