package carimages

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db/dbtest"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
)

func TestPromoteToPrimarySwapsRoles(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	a := dbtest.SeedImage(t, f.client, car.ID, enums.ImageTypePrimary, 0)
	b := dbtest.SeedImage(t, f.client, car.ID, enums.ImageTypeExterior, 1)

	promoted, err := f.svc.PromoteToPrimary(context.Background(), car.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ImageTypePrimary, promoted.ImageType)

	gotA := f.image(t, a.ID)
	assert.Equal(t, enums.ImageTypeExterior, gotA.ImageType)
	assert.Equal(t, DemotedSortOrder, gotA.SortOrder)

	gotB := f.image(t, b.ID)
	assert.Equal(t, enums.ImageTypePrimary, gotB.ImageType)
	assert.Equal(t, 0, gotB.SortOrder)
}

func TestPromoteToPrimaryRollsBackOnForeignImage(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	other := dbtest.SeedCar(t, f.client, "Zonda")
	a := dbtest.SeedImage(t, f.client, car.ID, enums.ImageTypePrimary, 0)
	foreign := dbtest.SeedImage(t, f.client, other.ID, enums.ImageTypeExterior, 0)

	for _, target := range []uuid.UUID{foreign.ID, uuid.New()} {
		_, err := f.svc.PromoteToPrimary(context.Background(), car.ID, target)
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

		gotA := f.image(t, a.ID)
		assert.Equal(t, enums.ImageTypePrimary, gotA.ImageType, "demotion must roll back")
		assert.Equal(t, 0, gotA.SortOrder)
	}
	assert.Equal(t, enums.ImageTypeExterior, f.image(t, foreign.ID).ImageType)
}

func TestPromoteToPrimaryConcurrentKeepsOnePrimary(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	images := f.register(t, car.ID, 8)

	var wg sync.WaitGroup
	for _, img := range images {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.PromoteToPrimary(context.Background(), car.ID, id)
			assert.NoError(t, err)
		}(img.ID)
	}
	wg.Wait()

	assert.EqualValues(t, 1, f.primaryCount(t, car.ID))
}

func TestToggleGallerySelectionQuota(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	ctx := context.Background()
	images := f.register(t, car.ID, 10)

	for _, img := range images {
		got, err := f.svc.ToggleGallerySelection(ctx, img.ID, true)
		require.NoError(t, err)
		assert.True(t, got.GallerySelected)
	}
	assert.EqualValues(t, 10, f.selectedCount(t, car.ID))

	eleventh := f.register(t, car.ID, 1)[0]
	_, err := f.svc.ToggleGallerySelection(ctx, eleventh.ID, true)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeQuotaExceeded))
	assert.EqualValues(t, 10, f.selectedCount(t, car.ID))
	assert.False(t, f.image(t, eleventh.ID).GallerySelected)

	_, err = f.svc.ToggleGallerySelection(ctx, images[0].ID, false)
	require.NoError(t, err)
	_, err = f.svc.ToggleGallerySelection(ctx, eleventh.ID, true)
	require.NoError(t, err)
	assert.EqualValues(t, 10, f.selectedCount(t, car.ID))
}

func TestToggleGallerySelectionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	ctx := context.Background()
	img := f.register(t, car.ID, 1)[0]

	first, err := f.svc.ToggleGallerySelection(ctx, img.ID, true)
	require.NoError(t, err)
	second, err := f.svc.ToggleGallerySelection(ctx, img.ID, true)
	require.NoError(t, err)

	assert.Equal(t, first.GallerySelected, second.GallerySelected)
	assert.EqualValues(t, 1, f.selectedCount(t, car.ID))

	_, err = f.svc.ToggleGallerySelection(ctx, img.ID, false)
	require.NoError(t, err)
	_, err = f.svc.ToggleGallerySelection(ctx, img.ID, false)
	require.NoError(t, err)
	assert.Zero(t, f.selectedCount(t, car.ID))
}

func TestToggleGallerySelectionConcurrentRespectsQuota(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	images := f.register(t, car.ID, 15)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		rejected int
	)
	for _, img := range images {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.ToggleGallerySelection(context.Background(), id, true)
			if err != nil {
				assert.True(t, pkgerrors.Is(err, pkgerrors.CodeQuotaExceeded))
				mu.Lock()
				rejected++
				mu.Unlock()
			}
		}(img.ID)
	}
	wg.Wait()

	assert.Equal(t, 5, rejected)
	assert.EqualValues(t, 10, f.selectedCount(t, car.ID))
}

func TestClearGallerySelection(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	ctx := context.Background()
	images := f.register(t, car.ID, 5)
	for _, img := range images[:3] {
		_, err := f.svc.ToggleGallerySelection(ctx, img.ID, true)
		require.NoError(t, err)
	}

	cleared, err := f.svc.ClearGallerySelection(ctx, car.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cleared)
	assert.Zero(t, f.selectedCount(t, car.ID))

	cleared, err = f.svc.ClearGallerySelection(ctx, car.ID)
	require.NoError(t, err)
	assert.Zero(t, cleared)

	_, err = f.svc.ClearGallerySelection(ctx, uuid.New())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestFetchGallery(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	ctx := context.Background()
	images := f.register(t, car.ID, 12)

	for _, img := range images[:10] {
		_, err := f.svc.ToggleGallerySelection(ctx, img.ID, true)
		require.NoError(t, err)
	}
	// push the first image to the back of the gallery
	_, err := f.svc.Reorder(ctx, images[0].ID, 50)
	require.NoError(t, err)

	gallery, err := f.svc.FetchGallery(ctx, car.ID, 0)
	require.NoError(t, err)
	require.Len(t, gallery, 10)
	assert.Equal(t, images[1].ID, gallery[0].ID)
	assert.Equal(t, images[0].ID, gallery[9].ID)
	for _, img := range gallery {
		assert.True(t, img.GallerySelected)
	}

	limited, err := f.svc.FetchGallery(ctx, car.ID, 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	capped, err := f.svc.FetchGallery(ctx, car.ID, 50)
	require.NoError(t, err)
	assert.Len(t, capped, 10)
}

func TestFetchGalleryBreaksTiesByID(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	ctx := context.Background()
	images := f.register(t, car.ID, 3)
	for _, img := range images {
		_, err := f.svc.ToggleGallerySelection(ctx, img.ID, true)
		require.NoError(t, err)
		_, err = f.svc.Reorder(ctx, img.ID, 4)
		require.NoError(t, err)
	}

	gallery, err := f.svc.FetchGallery(ctx, car.ID, 10)
	require.NoError(t, err)
	require.Len(t, gallery, 3)
	for i := 1; i < len(gallery); i++ {
		assert.Less(t, gallery[i-1].ID.String(), gallery[i].ID.String())
	}
}

func TestReorder(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	ctx := context.Background()
	images := f.register(t, car.ID, 2)

	img, err := f.svc.Reorder(ctx, images[1].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, img.SortOrder)
	assert.Equal(t, enums.ImageTypeExterior, img.ImageType)

	_, err = f.svc.Reorder(ctx, images[1].ID, -1)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = f.svc.Reorder(ctx, uuid.New(), 1)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestBulkReorder(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	other := dbtest.SeedCar(t, f.client, "Zonda")
	ctx := context.Background()
	images := f.register(t, car.ID, 3)
	foreign := dbtest.SeedImage(t, f.client, other.ID, enums.ImageTypeExterior, 0)

	ordered, err := f.svc.BulkReorder(ctx, car.ID, []uuid.UUID{images[2].ID, images[0].ID, images[1].ID})
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, images[2].ID, ordered[0].ID)
	assert.Equal(t, images[0].ID, ordered[1].ID)
	assert.Equal(t, images[1].ID, ordered[2].ID)

	_, err = f.svc.BulkReorder(ctx, car.ID, []uuid.UUID{images[0].ID, foreign.ID})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.Equal(t, 1, f.image(t, images[0].ID).SortOrder, "failed bulk reorder must not persist")

	_, err = f.svc.BulkReorder(ctx, car.ID, []uuid.UUID{images[0].ID, images[0].ID})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = f.svc.BulkReorder(ctx, car.ID, nil)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestCurationRecordsOutcomes(t *testing.T) {
	f := newFixture(t)
	car := dbtest.SeedCar(t, f.client, "Utopia")
	img := f.register(t, car.ID, 1)[0]

	_, err := f.svc.PromoteToPrimary(context.Background(), car.ID, img.ID)
	require.NoError(t, err)
	_, err = f.svc.PromoteToPrimary(context.Background(), car.ID, uuid.New())
	require.Error(t, err)

	var promotes []recordedOp
	for _, op := range f.recorder.ops {
		if op.operation == "promote_primary" {
			promotes = append(promotes, op)
		}
	}
	require.Len(t, promotes, 2)
	assert.NoError(t, promotes[0].err)
	assert.True(t, pkgerrors.Is(promotes[1].err, pkgerrors.CodeNotFound))
}
