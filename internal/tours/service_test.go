package tours

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/dbtest"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/locks"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage"
)

type putCall struct {
	path   string
	upsert bool
}

type fakeStore struct {
	mu        sync.Mutex
	puts      []putCall
	deleted   []string
	deleteErr error
	block     bool
}

func (f *fakeStore) Put(ctx context.Context, bucket, objectPath string, obj storage.Object) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, putCall{path: objectPath, upsert: obj.Upsert})
	return f.PublicURL(bucket, objectPath), nil
}

func (f *fakeStore) Delete(_ context.Context, _ string, objectPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectPath)
	return f.deleteErr
}

func (f *fakeStore) PublicURL(bucket, objectPath string) string {
	return "https://cdn.example.com/storage/v1/object/public/" + bucket + "/" + objectPath
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func newTestService(t *testing.T, timeout time.Duration) (Service, *db.Client, *fakeStore) {
	t.Helper()
	client := dbtest.Open(t)
	store := &fakeStore{}
	svc, err := NewService(ServiceParams{
		Repo:          NewRepository(client.DB()),
		DB:            client,
		Locker:        locks.NewLocal(),
		Store:         store,
		Bucket:        "car-images",
		Logger:        logger.Nop(),
		UploadTimeout: timeout,
	})
	require.NoError(t, err)
	return svc, client, store
}

func strPtr(s string) *string { return &s }

func tourCount(t *testing.T, client *db.Client, carID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, client.DB().Model(&models.VirtualTour{}).Where("car_id = ?", carID).Count(&count).Error)
	return count
}

func TestUpsertTourCreatesThenUpdates(t *testing.T) {
	svc, client, _ := newTestService(t, time.Second)
	car := dbtest.SeedCar(t, client, "Chiron")
	ctx := context.Background()

	first, err := svc.UpsertTour(ctx, car.ID, UpsertInput{VideoURL: "https://cdn.example.com/url1", TourTitle: strPtr("Title"), TourDescription: strPtr("Desc")})
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	second, err := svc.UpsertTour(ctx, car.ID, UpsertInput{VideoURL: "https://cdn.example.com/url2", TourTitle: strPtr("Title2"), TourDescription: strPtr("Desc2")})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "https://cdn.example.com/url2", second.VideoURL)
	require.NotNil(t, second.TourTitle)
	assert.Equal(t, "Title2", *second.TourTitle)
	assert.True(t, second.IsActive)
	assert.EqualValues(t, 1, tourCount(t, client, car.ID))
}

func TestUpsertTourReactivates(t *testing.T) {
	svc, client, _ := newTestService(t, time.Second)
	car := dbtest.SeedCar(t, client, "Chiron")
	ctx := context.Background()

	created, err := svc.UpsertTour(ctx, car.ID, UpsertInput{VideoURL: "https://cdn.example.com/a"})
	require.NoError(t, err)
	require.NoError(t, client.DB().Model(&models.VirtualTour{}).Where("id = ?", created.ID).Update("is_active", false).Error)

	active, err := svc.GetActiveTour(ctx, car.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = svc.UpsertTour(ctx, car.ID, UpsertInput{VideoURL: "https://cdn.example.com/b"})
	require.NoError(t, err)
	active, err = svc.GetActiveTour(ctx, car.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, created.ID, active.ID)
}

func TestUpsertTourValidation(t *testing.T) {
	svc, client, _ := newTestService(t, time.Second)
	car := dbtest.SeedCar(t, client, "Chiron")

	_, err := svc.UpsertTour(context.Background(), car.ID, UpsertInput{})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.UpsertTour(context.Background(), uuid.New(), UpsertInput{VideoURL: "https://x"})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestUpdateTourDetails(t *testing.T) {
	svc, client, _ := newTestService(t, time.Second)
	car := dbtest.SeedCar(t, client, "Chiron")
	ctx := context.Background()

	_, err := svc.UpdateTourDetails(ctx, car.ID, DetailsInput{TourTitle: strPtr("New")})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	created, err := svc.UpsertTour(ctx, car.ID, UpsertInput{VideoURL: "https://cdn.example.com/v.mp4", TourTitle: strPtr("Old")})
	require.NoError(t, err)

	updated, err := svc.UpdateTourDetails(ctx, car.ID, DetailsInput{TourTitle: strPtr("New"), TourDescription: strPtr("Walkaround")})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "New", *updated.TourTitle)
	assert.Equal(t, "Walkaround", *updated.TourDescription)
	assert.Equal(t, created.VideoURL, updated.VideoURL)

	_, err = svc.UpdateTourDetails(ctx, car.ID, DetailsInput{})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDeleteTourRemovesRowAndVideo(t *testing.T) {
	svc, client, store := newTestService(t, time.Second)
	car := dbtest.SeedCar(t, client, "Chiron")
	ctx := context.Background()
	videoURL := "https://cdn.example.com/storage/v1/object/public/car-images/virtual-tours/" + car.ID.String() + "-virtual-tour.mp4"

	_, err := svc.UpsertTour(ctx, car.ID, UpsertInput{VideoURL: videoURL})
	require.NoError(t, err)

	store.deleteErr = errors.New("object store unavailable")
	require.NoError(t, svc.DeleteTour(ctx, car.ID))

	assert.Zero(t, tourCount(t, client, car.ID))
	assert.Equal(t, []string{"virtual-tours/" + car.ID.String() + "-virtual-tour.mp4"}, store.deleted)

	require.NoError(t, svc.DeleteTour(ctx, car.ID), "deleting a missing tour succeeds")
	assert.Len(t, store.deleted, 1)
}

func TestGetActiveTourAbsent(t *testing.T) {
	svc, client, _ := newTestService(t, time.Second)
	car := dbtest.SeedCar(t, client, "Chiron")

	tour, err := svc.GetActiveTour(context.Background(), car.ID)
	require.NoError(t, err)
	assert.Nil(t, tour)
}

func TestUploadTourVideo(t *testing.T) {
	svc, client, store := newTestService(t, time.Second)
	car := dbtest.SeedCar(t, client, "Chiron")
	ctx := context.Background()

	video := VideoInput{
		Body:        bytes.NewReader([]byte("....ftypmp42")),
		FileName:    "walkaround.MP4",
		ContentType: "video/mp4",
		Size:        12,
		TourTitle:   strPtr("Chiron walkaround"),
	}
	first, err := svc.UploadTourVideo(ctx, car.ID, video)
	require.NoError(t, err)

	expectedPath := "virtual-tours/" + car.ID.String() + "-virtual-tour.mp4"
	require.Len(t, store.puts, 1)
	assert.Equal(t, expectedPath, store.puts[0].path)
	assert.True(t, store.puts[0].upsert)
	assert.Equal(t, store.PublicURL("car-images", expectedPath), first.VideoURL)

	video.Body = bytes.NewReader([]byte("....ftypmp42"))
	second, err := svc.UploadTourVideo(ctx, car.ID, video)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, expectedPath, store.puts[1].path)
	assert.EqualValues(t, 1, tourCount(t, client, car.ID))
}

func TestUploadTourVideoRejects(t *testing.T) {
	svc, client, store := newTestService(t, time.Second)
	car := dbtest.SeedCar(t, client, "Chiron")
	ctx := context.Background()

	_, err := svc.UploadTourVideo(ctx, car.ID, VideoInput{Body: bytes.NewReader(nil), ContentType: "image/png", Size: 1})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.UploadTourVideo(ctx, car.ID, VideoInput{Body: bytes.NewReader(nil), ContentType: "video/mp4", Size: 501 * 1024 * 1024})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.UploadTourVideo(ctx, uuid.New(), VideoInput{Body: bytes.NewReader(nil), ContentType: "video/mp4", Size: 1})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	assert.Empty(t, store.puts)
}

func TestUploadTourVideoTimeout(t *testing.T) {
	svc, client, store := newTestService(t, 20*time.Millisecond)
	store.block = true
	car := dbtest.SeedCar(t, client, "Chiron")

	_, err := svc.UploadTourVideo(context.Background(), car.ID, VideoInput{
		Body:        bytes.NewReader([]byte("x")),
		FileName:    "slow.mp4",
		ContentType: "video/mp4",
		Size:        1,
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeUploadTimeout))
	assert.Zero(t, tourCount(t, client, car.ID))
}
