package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
)

func TestGetVirtualTourAbsentIsNull(t *testing.T) {
	carID := uuid.NewString()
	rec := httptest.NewRecorder()
	GetVirtualTour(&stubTourService{}, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"carId": carID}))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "null", string(env.Data))
}

func TestGetVirtualTourFound(t *testing.T) {
	carID := uuid.New()
	svc := &stubTourService{tour: &models.VirtualTour{ID: uuid.New(), CarID: carID, VideoURL: "https://cdn/v.mp4", IsActive: true}}
	rec := httptest.NewRecorder()
	GetVirtualTour(svc, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"carId": carID.String()}))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, string(env.Data), "https://cdn/v.mp4")
}

func TestUpsertVirtualTour(t *testing.T) {
	carID := uuid.NewString()
	params := map[string]string{"carId": carID}

	t.Run("decodes body", func(t *testing.T) {
		svc := &stubTourService{tour: &models.VirtualTour{}}
		rec := httptest.NewRecorder()
		UpsertVirtualTour(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"video_url":"https://cdn/url1.mp4","tour_title":"Title"}`, params))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://cdn/url1.mp4", svc.upserted.VideoURL)
		require.NotNil(t, svc.upserted.TourTitle)
		assert.Equal(t, "Title", *svc.upserted.TourTitle)
		assert.Nil(t, svc.upserted.TourDescription)
	})

	t.Run("opaque video reference accepted", func(t *testing.T) {
		svc := &stubTourService{tour: &models.VirtualTour{}}
		rec := httptest.NewRecorder()
		UpsertVirtualTour(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"video_url":"url1"}`, params))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "url1", svc.upserted.VideoURL)
	})

	t.Run("video url required", func(t *testing.T) {
		rec := httptest.NewRecorder()
		UpsertVirtualTour(&stubTourService{}, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"tour_title":"Title"}`, params))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing car", func(t *testing.T) {
		rec := httptest.NewRecorder()
		UpsertVirtualTour(&stubTourService{err: pkgerrors.NotFound("car")}, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"video_url":"https://cdn/url1.mp4"}`, params))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateVirtualTour(t *testing.T) {
	svc := &stubTourService{tour: &models.VirtualTour{}}
	rec := httptest.NewRecorder()
	UpdateVirtualTour(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPut, "/", `{"tour_description":"Walkaround"}`, map[string]string{"carId": uuid.NewString()}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.details.TourDescription)
	assert.Equal(t, "Walkaround", *svc.details.TourDescription)
}

func TestDeleteVirtualTourBackendError(t *testing.T) {
	svc := &stubTourService{err: pkgerrors.Backend(assert.AnError, "delete tour")}
	rec := httptest.NewRecorder()
	DeleteVirtualTour(svc, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"carId": uuid.NewString()}))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, svc.deleted)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Error, "delete tour")
}

func TestUploadTourVideoFormFields(t *testing.T) {
	carID := uuid.NewString()
	svc := &stubTourService{tour: &models.VirtualTour{}}
	fields := map[string]string{"tour_title": "  Launch day  "}

	req := multipartRequest(t, "/", fields, "walk.mp4", "video/mp4", []byte("mp4data"), map[string]string{"carId": carID})
	rec := httptest.NewRecorder()
	UploadTourVideo(svc, 500<<20, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "video/mp4", svc.video.ContentType)
	require.NotNil(t, svc.video.TourTitle)
	assert.Equal(t, "Launch day", *svc.video.TourTitle)
	assert.Nil(t, svc.video.TourDescription)
}
