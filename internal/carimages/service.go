// Package carimages owns car image records: registering uploads, ordering
// and typing them, and curating the public gallery.
package carimages

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/locks"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage"
)

const (
	defaultGalleryLimit  = 10
	defaultUploadTimeout = 30 * time.Second
	defaultMaxImageBytes = 10 * 1024 * 1024
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type operationRecorder interface {
	Record(operation string, err error)
}

// Service is the media registry and gallery curator for car images.
type Service interface {
	RegisterImage(ctx context.Context, carID uuid.UUID, input RegisterInput) (*models.CarImage, error)
	ListImages(ctx context.Context, carID uuid.UUID, imageType *enums.ImageType) ([]models.CarImage, error)
	RemoveImage(ctx context.Context, imageID uuid.UUID) error
	Reclassify(ctx context.Context, imageID uuid.UUID, imageType enums.ImageType) (*models.CarImage, error)

	PromoteToPrimary(ctx context.Context, carID, imageID uuid.UUID) (*models.CarImage, error)
	ToggleGallerySelection(ctx context.Context, imageID uuid.UUID, selected bool) (*models.CarImage, error)
	ClearGallerySelection(ctx context.Context, carID uuid.UUID) (int64, error)
	FetchGallery(ctx context.Context, carID uuid.UUID, limit int) ([]models.CarImage, error)
	Reorder(ctx context.Context, imageID uuid.UUID, sortOrder int) (*models.CarImage, error)
	BulkReorder(ctx context.Context, carID uuid.UUID, imageIDs []uuid.UUID) ([]models.CarImage, error)

	UploadImage(ctx context.Context, carID uuid.UUID, file UploadInput) (*models.CarImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
}

// RegisterInput describes an object that is already stored.
type RegisterInput struct {
	ImageURL    string
	StoragePath *string
	FileSize    *int64
	Format      *string
	AltText     *string
	Caption     *string
	Width       *int
	Height      *int
}

// UploadInput is an image binary on its way to the object store.
type UploadInput struct {
	Body        io.Reader
	FileName    string
	ContentType string
	Size        int64
}

type ServiceParams struct {
	Repo          Repository
	DB            txRunner
	Locker        locks.Locker
	Store         storage.ObjectStore
	Bucket        string
	Metrics       operationRecorder
	Logger        *logger.Logger
	GalleryLimit  int
	UploadTimeout time.Duration
	MaxImageBytes int64
}

type service struct {
	repo          Repository
	db            txRunner
	locker        locks.Locker
	store         storage.ObjectStore
	bucket        string
	metrics       operationRecorder
	logg          *logger.Logger
	galleryLimit  int
	uploadTimeout time.Duration
	maxImageBytes int64
	now           func() time.Time
}

type nopRecorder struct{}

func (nopRecorder) Record(string, error) {}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("car images repository required")
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
		galleryLimit:  params.GalleryLimit,
		uploadTimeout: params.UploadTimeout,
		maxImageBytes: params.MaxImageBytes,
		now:           time.Now,
	}
	if svc.metrics == nil {
		svc.metrics = nopRecorder{}
	}
	if svc.galleryLimit <= 0 {
		svc.galleryLimit = defaultGalleryLimit
	}
	if svc.uploadTimeout <= 0 {
		svc.uploadTimeout = defaultUploadTimeout
	}
	if svc.maxImageBytes <= 0 {
		svc.maxImageBytes = defaultMaxImageBytes
	}
	return svc, nil
}

// curate runs fn in one transaction while holding the car's lock.
func (s *service) curate(ctx context.Context, carID uuid.UUID, fn func(repo Repository) error) error {
	unlock, err := s.locker.Lock(ctx, locks.CarKey(carID.String()))
	if err != nil {
		return storeError(err, "car", "acquire car lock")
	}
	defer unlock()

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx))
	})
}

// ownerOf resolves the car an image belongs to before its lock is taken.
func (s *service) ownerOf(ctx context.Context, imageID uuid.UUID) (uuid.UUID, error) {
	img, err := s.repo.FindByID(ctx, imageID)
	if err != nil {
		return uuid.Nil, storeError(err, "image", "load image")
	}
	return img.CarID, nil
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
