package carimages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage"
)

// UploadImage stores the binary under uploads/ and then registers it. A
// store call that outlives the upload timeout fails with UploadTimeout and
// writes nothing to the database. If registration fails the stored object
// is removed best-effort.
func (s *service) UploadImage(ctx context.Context, carID uuid.UUID, file UploadInput) (img *models.CarImage, err error) {
	defer func() { s.metrics.Record("upload_image", err) }()

	if file.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no file provided")
	}
	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Please select an image file")
	}
	if file.Size > s.maxImageBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("File size must be less than %dMB", s.maxImageBytes/(1024*1024)))
	}

	if _, err := s.repo.FindCar(ctx, carID); err != nil {
		return nil, storeError(err, "car", "load car")
	}

	ctx = s.logg.WithCarID(ctx, carID.String())
	objectPath := storage.ImagePath(storage.Extension(file.FileName, contentType), s.now())
	url, err := s.put(ctx, objectPath, storage.Object{
		Body:        file.Body,
		Size:        file.Size,
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	size := file.Size
	format := storage.Subtype(contentType)
	img, err = s.RegisterImage(ctx, carID, RegisterInput{
		ImageURL:    url,
		StoragePath: &objectPath,
		FileSize:    &size,
		Format:      &format,
	})
	if err != nil {
		s.deleteObject(ctx, objectPath, "carimages.upload.orphan_cleanup_failed")
		return nil, err
	}
	return img, nil
}

// DeleteImage removes the record and then the stored object. A failed
// object delete is logged and ignored.
func (s *service) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	removed, err := s.removeImage(ctx, imageID)
	if err != nil {
		return err
	}

	objectPath := ""
	if removed.StoragePath != nil {
		objectPath = strings.TrimSpace(*removed.StoragePath)
	}
	if objectPath == "" {
		objectPath = storage.PathFromURL(removed.ImageURL, storage.ImagePrefix)
	}
	if objectPath != "" {
		ctx = s.logg.WithImageID(s.logg.WithCarID(ctx, removed.CarID.String()), imageID.String())
		s.deleteObject(ctx, objectPath, "carimages.delete.object_cleanup_failed")
	}
	return nil
}

func (s *service) put(ctx context.Context, objectPath string, obj storage.Object) (string, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	url, err := s.store.Put(uploadCtx, s.bucket, objectPath, obj)
	if err == nil {
		return url, nil
	}
	if errors.Is(uploadCtx.Err(), context.DeadlineExceeded) {
		return "", pkgerrors.Wrap(pkgerrors.CodeUploadTimeout, err,
			fmt.Sprintf("Upload timed out after %s", s.uploadTimeout))
	}
	if errors.Is(err, storage.ErrObjectExists) {
		return "", pkgerrors.Wrap(pkgerrors.CodeBackend, err, "object path already taken")
	}
	return "", pkgerrors.Backend(err, "upload image")
}

func (s *service) deleteObject(ctx context.Context, objectPath, event string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), s.bucket, objectPath); err != nil {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"object_path": objectPath,
			"error":       err.Error(),
		})
		s.logg.Warn(warnCtx, event)
	}
}
