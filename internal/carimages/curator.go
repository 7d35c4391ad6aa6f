package carimages

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
)

// PromoteToPrimary demotes every current primary of the car to exterior at
// DemotedSortOrder, then makes imageID the primary at sort order 0. Both
// steps commit together; a target outside the car rolls the demotion back.
func (s *service) PromoteToPrimary(ctx context.Context, carID, imageID uuid.UUID) (img *models.CarImage, err error) {
	defer func() { s.metrics.Record("promote_primary", err) }()

	err = s.curate(ctx, carID, func(repo Repository) error {
		if _, err := repo.DemotePrimaries(ctx, carID); err != nil {
			return pkgerrors.Backend(err, "demote primary images")
		}
		promoted, err := repo.UpdateFields(ctx, carID, imageID, map[string]any{
			"image_type": enums.ImageTypePrimary,
			"sort_order": 0,
		})
		if err != nil {
			return pkgerrors.Backend(err, "promote image")
		}
		if promoted == 0 {
			return pkgerrors.NotFound("image")
		}
		img, err = repo.FindByID(ctx, imageID)
		if err != nil {
			return pkgerrors.Backend(err, "reload image")
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "image", "promote image")
	}
	return img, nil
}

// ToggleGallerySelection selects or deselects an image for the public
// gallery. Selecting past the gallery limit fails with no change; repeating
// the current state is a no-op.
func (s *service) ToggleGallerySelection(ctx context.Context, imageID uuid.UUID, selected bool) (img *models.CarImage, err error) {
	defer func() { s.metrics.Record("toggle_gallery", err) }()

	carID, err := s.ownerOf(ctx, imageID)
	if err != nil {
		return nil, err
	}

	err = s.curate(ctx, carID, func(repo Repository) error {
		current, err := repo.FindByID(ctx, imageID)
		if err != nil {
			return storeError(err, "image", "load image")
		}
		if current.GallerySelected == selected {
			img = current
			return nil
		}
		if selected {
			count, err := repo.CountSelected(ctx, carID)
			if err != nil {
				return pkgerrors.Backend(err, "count gallery images")
			}
			if count >= int64(s.galleryLimit) {
				return pkgerrors.New(pkgerrors.CodeQuotaExceeded,
					fmt.Sprintf("You can only select up to %d images for the gallery.", s.galleryLimit)).
					WithDetails(map[string]any{"limit": s.galleryLimit, "selected": count})
			}
		}
		if _, err := repo.UpdateFields(ctx, carID, imageID, map[string]any{"gallery_selected": selected}); err != nil {
			return pkgerrors.Backend(err, "update gallery selection")
		}
		current.GallerySelected = selected
		img = current
		return nil
	})
	if err != nil {
		return nil, storeError(err, "image", "toggle gallery selection")
	}
	return img, nil
}

// ClearGallerySelection deselects every image of the car and reports how
// many were selected.
func (s *service) ClearGallerySelection(ctx context.Context, carID uuid.UUID) (cleared int64, err error) {
	defer func() { s.metrics.Record("clear_gallery", err) }()

	err = s.curate(ctx, carID, func(repo Repository) error {
		if _, err := repo.FindCar(ctx, carID); err != nil {
			return storeError(err, "car", "load car")
		}
		n, err := repo.ClearSelection(ctx, carID)
		if err != nil {
			return pkgerrors.Backend(err, "clear gallery selection")
		}
		cleared = n
		return nil
	})
	if err != nil {
		return 0, storeError(err, "car", "clear gallery selection")
	}
	return cleared, nil
}

// FetchGallery returns the selected images in display order, capped at the
// gallery limit.
func (s *service) FetchGallery(ctx context.Context, carID uuid.UUID, limit int) ([]models.CarImage, error) {
	if limit <= 0 || limit > s.galleryLimit {
		limit = s.galleryLimit
	}
	images, err := s.repo.ListSelected(ctx, carID, limit)
	if err != nil {
		return nil, pkgerrors.Backend(err, "list gallery images")
	}
	return images, nil
}

// Reorder sets the sort order as given. Collisions are allowed; reads break
// ties by id.
func (s *service) Reorder(ctx context.Context, imageID uuid.UUID, sortOrder int) (img *models.CarImage, err error) {
	defer func() { s.metrics.Record("reorder", err) }()

	if sortOrder < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sort_order must not be negative")
	}
	carID, err := s.ownerOf(ctx, imageID)
	if err != nil {
		return nil, err
	}

	err = s.curate(ctx, carID, func(repo Repository) error {
		updated, err := repo.UpdateFields(ctx, carID, imageID, map[string]any{"sort_order": sortOrder})
		if err != nil {
			return pkgerrors.Backend(err, "update sort order")
		}
		if updated == 0 {
			return pkgerrors.NotFound("image")
		}
		img, err = repo.FindByID(ctx, imageID)
		if err != nil {
			return pkgerrors.Backend(err, "reload image")
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "image", "reorder image")
	}
	return img, nil
}

// BulkReorder assigns sort order by position in imageIDs. Every id must
// belong to the car or nothing changes.
func (s *service) BulkReorder(ctx context.Context, carID uuid.UUID, imageIDs []uuid.UUID) (images []models.CarImage, err error) {
	defer func() { s.metrics.Record("bulk_reorder", err) }()

	if len(imageIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_ids must not be empty")
	}
	seen := make(map[uuid.UUID]struct{}, len(imageIDs))
	for _, id := range imageIDs {
		if _, dup := seen[id]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_ids must not repeat").
				WithDetails(map[string]any{"image_id": id.String()})
		}
		seen[id] = struct{}{}
	}

	err = s.curate(ctx, carID, func(repo Repository) error {
		if _, err := repo.FindCar(ctx, carID); err != nil {
			return storeError(err, "car", "load car")
		}
		for position, id := range imageIDs {
			updated, err := repo.UpdateFields(ctx, carID, id, map[string]any{"sort_order": position})
			if err != nil {
				return pkgerrors.Backend(err, "update sort order")
			}
			if updated == 0 {
				return pkgerrors.NotFound("image").WithDetails(map[string]any{"image_id": id.String()})
			}
		}
		list, err := repo.List(ctx, carID, nil)
		if err != nil {
			return pkgerrors.Backend(err, "list car images")
		}
		images = list
		return nil
	})
	if err != nil {
		return nil, storeError(err, "car", "reorder images")
	}
	return images, nil
}
