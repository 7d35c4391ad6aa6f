package carimages

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/dbtest"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
	"github.com/shamsoul-ali/THE-VAULT/pkg/locks"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage"
)

type fakeStore struct {
	mu        sync.Mutex
	puts      []string
	deleted   []string
	putErr    error
	deleteErr error
	block     bool
}

func (f *fakeStore) Put(ctx context.Context, bucket, objectPath string, _ storage.Object) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	f.puts = append(f.puts, objectPath)
	return f.PublicURL(bucket, objectPath), nil
}

func (f *fakeStore) Delete(_ context.Context, _ string, objectPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectPath)
	return f.deleteErr
}

func (f *fakeStore) PublicURL(bucket, objectPath string) string {
	return "https://cdn.example.com/" + bucket + "/" + objectPath
}

func (f *fakeStore) Ping(context.Context) error { return nil }

type recordedOp struct {
	operation string
	err       error
}

type fakeRecorder struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (r *fakeRecorder) Record(operation string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{operation: operation, err: err})
}

type fixture struct {
	svc      Service
	client   *db.Client
	store    *fakeStore
	recorder *fakeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithTimeout(t, time.Second)
}

func newFixtureWithTimeout(t *testing.T, uploadTimeout time.Duration) *fixture {
	t.Helper()

	client := dbtest.Open(t)
	store := &fakeStore{}
	recorder := &fakeRecorder{}
	svc, err := NewService(ServiceParams{
		Repo:          NewRepository(client.DB()),
		DB:            client,
		Locker:        locks.NewLocal(),
		Store:         store,
		Bucket:        "car-images",
		Metrics:       recorder,
		Logger:        logger.Nop(),
		GalleryLimit:  10,
		UploadTimeout: uploadTimeout,
		MaxImageBytes: 10 * 1024 * 1024,
	})
	require.NoError(t, err)
	return &fixture{svc: svc, client: client, store: store, recorder: recorder}
}

func (f *fixture) image(t *testing.T, id uuid.UUID) models.CarImage {
	t.Helper()
	var img models.CarImage
	require.NoError(t, f.client.DB().First(&img, "id = ?", id).Error)
	return img
}

func (f *fixture) countWhere(t *testing.T, carID uuid.UUID, query string, args ...any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.client.DB().
		Model(&models.CarImage{}).
		Where("car_id = ?", carID).
		Where(query, args...).
		Count(&count).Error)
	return count
}

func (f *fixture) primaryCount(t *testing.T, carID uuid.UUID) int64 {
	return f.countWhere(t, carID, "image_type = ?", enums.ImageTypePrimary)
}

func (f *fixture) selectedCount(t *testing.T, carID uuid.UUID) int64 {
	return f.countWhere(t, carID, "gallery_selected = ?", true)
}

func (f *fixture) register(t *testing.T, carID uuid.UUID, n int) []models.CarImage {
	t.Helper()
	out := make([]models.CarImage, 0, n)
	for i := 0; i < n; i++ {
		img, err := f.svc.RegisterImage(context.Background(), carID, RegisterInput{
			ImageURL: "https://cdn.example.com/car-images/uploads/" + uuid.NewString() + ".jpg",
		})
		require.NoError(t, err)
		out = append(out, *img)
	}
	return out
}
