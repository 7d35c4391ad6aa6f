package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shamsoul-ali/THE-VAULT/internal/carimages"
	"github.com/shamsoul-ali/THE-VAULT/internal/cars"
	"github.com/shamsoul-ali/THE-VAULT/internal/tours"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func withParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return withParams(req, params)
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileName, contentType string, data []byte, params map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + fileName + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return withParams(req, params)
}

type stubCarService struct {
	car      *models.Car
	features []models.CarFeature
	err      error

	created  cars.CreateCarInput
	updated  cars.UpdateCarInput
	replaced []string
	deleted  uuid.UUID
}

func (s *stubCarService) GetCar(_ context.Context, id uuid.UUID) (*models.Car, error) {
	return s.car, s.err
}

func (s *stubCarService) CreateCar(_ context.Context, input cars.CreateCarInput) (*models.Car, error) {
	s.created = input
	return s.car, s.err
}

func (s *stubCarService) UpdateCar(_ context.Context, _ uuid.UUID, input cars.UpdateCarInput) (*models.Car, error) {
	s.updated = input
	return s.car, s.err
}

func (s *stubCarService) DeleteCar(_ context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

func (s *stubCarService) ReplaceFeatures(_ context.Context, _ uuid.UUID, names []string) ([]models.CarFeature, error) {
	s.replaced = names
	return s.features, s.err
}

type stubImageService struct {
	image   *models.CarImage
	images  []models.CarImage
	cleared int64
	err     error

	listFilter   *enums.ImageType
	galleryLimit int
	selected     *bool
	reordered    []uuid.UUID
	registered   carimages.RegisterInput
	uploaded     carimages.UploadInput
	uploadBody   []byte
	calls        []string
}

func (s *stubImageService) RegisterImage(_ context.Context, _ uuid.UUID, input carimages.RegisterInput) (*models.CarImage, error) {
	s.calls = append(s.calls, "register")
	s.registered = input
	return s.image, s.err
}

func (s *stubImageService) ListImages(_ context.Context, _ uuid.UUID, imageType *enums.ImageType) ([]models.CarImage, error) {
	s.listFilter = imageType
	return s.images, s.err
}

func (s *stubImageService) RemoveImage(_ context.Context, _ uuid.UUID) error {
	s.calls = append(s.calls, "remove")
	return s.err
}

func (s *stubImageService) Reclassify(_ context.Context, _ uuid.UUID, imageType enums.ImageType) (*models.CarImage, error) {
	s.calls = append(s.calls, "reclassify:"+imageType.String())
	return s.image, s.err
}

func (s *stubImageService) PromoteToPrimary(_ context.Context, _, _ uuid.UUID) (*models.CarImage, error) {
	s.calls = append(s.calls, "promote")
	return s.image, s.err
}

func (s *stubImageService) ToggleGallerySelection(_ context.Context, _ uuid.UUID, selected bool) (*models.CarImage, error) {
	s.selected = &selected
	return s.image, s.err
}

func (s *stubImageService) ClearGallerySelection(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.cleared, s.err
}

func (s *stubImageService) FetchGallery(_ context.Context, _ uuid.UUID, limit int) ([]models.CarImage, error) {
	s.galleryLimit = limit
	return s.images, s.err
}

func (s *stubImageService) Reorder(_ context.Context, _ uuid.UUID, _ int) (*models.CarImage, error) {
	s.calls = append(s.calls, "reorder")
	return s.image, s.err
}

func (s *stubImageService) BulkReorder(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]models.CarImage, error) {
	s.reordered = ids
	return s.images, s.err
}

func (s *stubImageService) UploadImage(_ context.Context, _ uuid.UUID, file carimages.UploadInput) (*models.CarImage, error) {
	s.uploaded = file
	s.uploadBody, _ = io.ReadAll(file.Body)
	return s.image, s.err
}

func (s *stubImageService) DeleteImage(_ context.Context, _ uuid.UUID) error {
	s.calls = append(s.calls, "delete")
	return s.err
}

type stubTourService struct {
	tour *models.VirtualTour
	err  error

	upserted tours.UpsertInput
	details  tours.DetailsInput
	video    tours.VideoInput
	deleted  bool
}

func (s *stubTourService) UpsertTour(_ context.Context, _ uuid.UUID, input tours.UpsertInput) (*models.VirtualTour, error) {
	s.upserted = input
	return s.tour, s.err
}

func (s *stubTourService) UpdateTourDetails(_ context.Context, _ uuid.UUID, input tours.DetailsInput) (*models.VirtualTour, error) {
	s.details = input
	return s.tour, s.err
}

func (s *stubTourService) DeleteTour(_ context.Context, _ uuid.UUID) error {
	s.deleted = true
	return s.err
}

func (s *stubTourService) GetActiveTour(_ context.Context, _ uuid.UUID) (*models.VirtualTour, error) {
	return s.tour, s.err
}

func (s *stubTourService) UploadTourVideo(_ context.Context, _ uuid.UUID, video tours.VideoInput) (*models.VirtualTour, error) {
	s.video = video
	return s.tour, s.err
}
