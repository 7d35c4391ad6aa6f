// Package tours manages the single walkaround video each car may carry.
package tours

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/locks"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage"
)

const (
	defaultUploadTimeout = 30 * time.Second
	defaultMaxVideoBytes = 500 * 1024 * 1024
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type operationRecorder interface {
	Record(operation string, err error)
}

type Service interface {
	UpsertTour(ctx context.Context, carID uuid.UUID, input UpsertInput) (*models.VirtualTour, error)
	UpdateTourDetails(ctx context.Context, carID uuid.UUID, input DetailsInput) (*models.VirtualTour, error)
	DeleteTour(ctx context.Context, carID uuid.UUID) error
	GetActiveTour(ctx context.Context, carID uuid.UUID) (*models.VirtualTour, error)
	UploadTourVideo(ctx context.Context, carID uuid.UUID, video VideoInput) (*models.VirtualTour, error)
}

type UpsertInput struct {
	VideoURL        string  `json:"video_url" validate:"required"`
	TourTitle       *string `json:"tour_title" validate:"omitempty,max=200"`
	TourDescription *string `json:"tour_description" validate:"omitempty,max=5000"`
}

type DetailsInput struct {
	TourTitle       *string `json:"tour_title" validate:"omitempty,max=200"`
	TourDescription *string `json:"tour_description" validate:"omitempty,max=5000"`
}

// VideoInput is a tour video on its way to the object store together with
// the text that goes on the tour record.
type VideoInput struct {
	Body            io.Reader
	FileName        string
	ContentType     string
	Size            int64
	TourTitle       *string
	TourDescription *string
}

type ServiceParams struct {
	Repo          Repository
	DB            txRunner
	Locker        locks.Locker
	Store         storage.ObjectStore
	Bucket        string
	Metrics       operationRecorder
	Logger        *logger.Logger
	UploadTimeout time.Duration
	MaxVideoBytes int64
}

type service struct {
	repo          Repository
	db            txRunner
	locker        locks.Locker
	store         storage.ObjectStore
	bucket        string
	metrics       operationRecorder
	logg          *logger.Logger
	uploadTimeout time.Duration
	maxVideoBytes int64
}

type nopRecorder struct{}

func (nopRecorder) Record(string, error) {}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("tours repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("locker required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("storage bucket required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	svc := &service{
		repo:          params.Repo,
		db:            params.DB,
		locker:        params.Locker,
		store:         params.Store,
		bucket:        params.Bucket,
		metrics:       params.Metrics,
		logg:          params.Logger,
		uploadTimeout: params.UploadTimeout,
		maxVideoBytes: params.MaxVideoBytes,
	}
	if svc.metrics == nil {
		svc.metrics = nopRecorder{}
	}
	if svc.uploadTimeout <= 0 {
		svc.uploadTimeout = defaultUploadTimeout
	}
	if svc.maxVideoBytes <= 0 {
		svc.maxVideoBytes = defaultMaxVideoBytes
	}
	return svc, nil
}

// UpsertTour points the car's tour at videoURL, creating the row on first
// use. The tour is always left active.
func (s *service) UpsertTour(ctx context.Context, carID uuid.UUID, input UpsertInput) (tour *models.VirtualTour, err error) {
	defer func() { s.metrics.Record("upsert_tour", err) }()

	videoURL := strings.TrimSpace(input.VideoURL)
	if videoURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video_url is required")
	}

	err = s.withCar(ctx, carID, func(repo Repository) error {
		ok, err := repo.CarExists(ctx, carID)
		if err != nil {
			return pkgerrors.Backend(err, "load car")
		}
		if !ok {
			return pkgerrors.NotFound("car")
		}

		existing, err := repo.FindByCar(ctx, carID)
		switch {
		case err == nil:
			if err := repo.Update(ctx, existing.ID, map[string]any{
				"video_url":        videoURL,
				"tour_title":       input.TourTitle,
				"tour_description": input.TourDescription,
				"is_active":        true,
			}); err != nil {
				return pkgerrors.Backend(err, "update virtual tour")
			}
			tour, err = repo.FindByCar(ctx, carID)
			if err != nil {
				return pkgerrors.Backend(err, "reload virtual tour")
			}
			return nil
		case db.IsNotFound(err):
			row := &models.VirtualTour{
				ID:              uuid.New(),
				CarID:           carID,
				VideoURL:        videoURL,
				TourTitle:       input.TourTitle,
				TourDescription: input.TourDescription,
				IsActive:        true,
			}
			if err := repo.Create(ctx, row); err != nil {
				return pkgerrors.Backend(err, "insert virtual tour")
			}
			tour = row
			return nil
		default:
			return pkgerrors.Backend(err, "load virtual tour")
		}
	})
	if err != nil {
		return nil, storeError(err, "virtual tour", "upsert virtual tour")
	}
	return tour, nil
}

// UpdateTourDetails edits the text fields of an existing tour.
func (s *service) UpdateTourDetails(ctx context.Context, carID uuid.UUID, input DetailsInput) (tour *models.VirtualTour, err error) {
	defer func() { s.metrics.Record("update_tour", err) }()

	updates := map[string]any{}
	if input.TourTitle != nil {
		updates["tour_title"] = strings.TrimSpace(*input.TourTitle)
	}
	if input.TourDescription != nil {
		updates["tour_description"] = strings.TrimSpace(*input.TourDescription)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tour_title or tour_description is required")
	}

	err = s.withCar(ctx, carID, func(repo Repository) error {
		existing, err := repo.FindByCar(ctx, carID)
		if err != nil {
			return storeError(err, "virtual tour", "load virtual tour")
		}
		if err := repo.Update(ctx, existing.ID, updates); err != nil {
			return pkgerrors.Backend(err, "update virtual tour")
		}
		tour, err = repo.FindByCar(ctx, carID)
		if err != nil {
			return pkgerrors.Backend(err, "reload virtual tour")
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "virtual tour", "update virtual tour")
	}
	return tour, nil
}

// DeleteTour removes the record and then, best-effort, the video object the
// record pointed at. Deleting a car without a tour succeeds.
func (s *service) DeleteTour(ctx context.Context, carID uuid.UUID) (err error) {
	defer func() { s.metrics.Record("delete_tour", err) }()

	var videoURL, tourID string
	err = s.withCar(ctx, carID, func(repo Repository) error {
		existing, err := repo.FindByCar(ctx, carID)
		if err != nil && !db.IsNotFound(err) {
			return pkgerrors.Backend(err, "load virtual tour")
		}
		if existing != nil {
			videoURL, tourID = existing.VideoURL, existing.ID.String()
		}
		if _, err := repo.DeleteByCar(ctx, carID); err != nil {
			return pkgerrors.Backend(err, "delete virtual tour")
		}
		return nil
	})
	if err != nil {
		return storeError(err, "virtual tour", "delete virtual tour")
	}

	if objectPath := storage.PathFromURL(videoURL, storage.TourPrefix); objectPath != "" {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), s.bucket, objectPath); delErr != nil {
			warnCtx := s.logg.WithFields(s.logg.WithTourID(s.logg.WithCarID(ctx, carID.String()), tourID), map[string]any{
				"object_path": objectPath,
				"error":       delErr.Error(),
			})
			s.logg.Warn(warnCtx, "tours.delete.object_cleanup_failed")
		}
	}
	return nil
}

// GetActiveTour returns nil without error when the car has no active tour.
func (s *service) GetActiveTour(ctx context.Context, carID uuid.UUID) (*models.VirtualTour, error) {
	tour, err := s.repo.FindActiveByCar(ctx, carID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Backend(err, "load virtual tour")
	}
	return tour, nil
}

// UploadTourVideo stores the video at the car's fixed tour path, replacing
// any earlier upload, then upserts the record. Exceeding the upload timeout
// fails with UploadTimeout before any database write.
func (s *service) UploadTourVideo(ctx context.Context, carID uuid.UUID, video VideoInput) (tour *models.VirtualTour, err error) {
	defer func() { s.metrics.Record("upload_tour_video", err) }()

	if video.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no file provided")
	}
	contentType := strings.ToLower(strings.TrimSpace(video.ContentType))
	if !strings.HasPrefix(contentType, "video/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Please select a video file")
	}
	if video.Size > s.maxVideoBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("File size must be less than %dMB", s.maxVideoBytes/(1024*1024)))
	}

	ok, err := s.repo.CarExists(ctx, carID)
	if err != nil {
		return nil, pkgerrors.Backend(err, "load car")
	}
	if !ok {
		return nil, pkgerrors.NotFound("car")
	}

	objectPath := storage.TourVideoPath(carID.String(), storage.Extension(video.FileName, contentType))
	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	videoURL, err := s.store.Put(uploadCtx, s.bucket, objectPath, storage.Object{
		Body:        video.Body,
		Size:        video.Size,
		ContentType: contentType,
		Upsert:      true,
	})
	if err != nil {
		if errors.Is(uploadCtx.Err(), context.DeadlineExceeded) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUploadTimeout, err,
				fmt.Sprintf("Upload timed out after %s", s.uploadTimeout))
		}
		return nil, pkgerrors.Backend(err, "upload tour video")
	}

	return s.UpsertTour(ctx, carID, UpsertInput{
		VideoURL:        videoURL,
		TourTitle:       video.TourTitle,
		TourDescription: video.TourDescription,
	})
}

func (s *service) withCar(ctx context.Context, carID uuid.UUID, fn func(repo Repository) error) error {
	unlock, err := s.locker.Lock(ctx, locks.CarKey(carID.String()))
	if err != nil {
		return storeError(err, "car", "acquire car lock")
	}
	defer unlock()

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx))
	})
}

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
