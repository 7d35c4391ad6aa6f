package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
)

func TestCarGalleryLimit(t *testing.T) {
	carID := uuid.NewString()
	params := map[string]string{"carId": carID}

	t.Run("defaults to gallery cap", func(t *testing.T) {
		svc := &stubImageService{images: []models.CarImage{}}
		rec := httptest.NewRecorder()
		CarGallery(svc, 10, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/", nil), params))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 10, svc.galleryLimit)
		env := decodeEnvelope(t, rec)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("smaller limit", func(t *testing.T) {
		svc := &stubImageService{}
		rec := httptest.NewRecorder()
		CarGallery(svc, 10, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/?limit=4", nil), params))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 4, svc.galleryLimit)
	})

	t.Run("over the cap", func(t *testing.T) {
		rec := httptest.NewRecorder()
		CarGallery(&stubImageService{}, 10, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/?limit=11", nil), params))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestToggleGallerySelection(t *testing.T) {
	params := map[string]string{"imageId": uuid.NewString()}

	t.Run("deselect", func(t *testing.T) {
		svc := &stubImageService{image: &models.CarImage{}}
		rec := httptest.NewRecorder()
		ToggleGallerySelection(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"selected":false}`, params))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.selected)
		assert.False(t, *svc.selected)
	})

	t.Run("selected is required", func(t *testing.T) {
		svc := &stubImageService{}
		rec := httptest.NewRecorder()
		ToggleGallerySelection(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{}`, params))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.selected)
	})

	t.Run("quota maps to 409", func(t *testing.T) {
		svc := &stubImageService{err: pkgerrors.New(pkgerrors.CodeQuotaExceeded, "You can only select up to 10 images for the gallery.")}
		rec := httptest.NewRecorder()
		ToggleGallerySelection(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"selected":true}`, params))

		require.Equal(t, http.StatusConflict, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "You can only select up to 10 images for the gallery.", env.Error)
	})
}

func TestClearGallerySelection(t *testing.T) {
	svc := &stubImageService{cleared: 7}
	rec := httptest.NewRecorder()
	ClearGallerySelection(svc, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"carId": uuid.NewString()}))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var data map[string]int64
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(7), data["cleared"])
}

func TestReorderCarImages(t *testing.T) {
	carID := uuid.NewString()
	first, second := uuid.New(), uuid.New()

	t.Run("passes ids in order", func(t *testing.T) {
		svc := &stubImageService{}
		body := `{"image_ids":["` + second.String() + `","` + first.String() + `"]}`
		rec := httptest.NewRecorder()
		ReorderCarImages(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPut, "/", body, map[string]string{"carId": carID}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []uuid.UUID{second, first}, svc.reordered)
	})

	t.Run("empty list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ReorderCarImages(&stubImageService{}, nil).ServeHTTP(rec, jsonRequest(http.MethodPut, "/", `{"image_ids":[]}`, map[string]string{"carId": carID}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
