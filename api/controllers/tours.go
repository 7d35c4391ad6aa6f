package controllers

import (
	"net/http"

	"github.com/shamsoul-ali/THE-VAULT/api/responses"
	"github.com/shamsoul-ali/THE-VAULT/api/validators"
	"github.com/shamsoul-ali/THE-VAULT/internal/tours"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

const (
	tourTitleMaxLen       = 200
	tourDescriptionMaxLen = 5000
)

// GetVirtualTour answers with data: null when the car has no active tour.
func GetVirtualTour(svc tours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tour service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tour, err := svc.GetActiveTour(r.Context(), carID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if tour == nil {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, tour)
	}
}

func UpsertVirtualTour(svc tours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tour service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload tours.UpsertInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tour, err := svc.UpsertTour(r.Context(), carID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tour)
	}
}

func UpdateVirtualTour(svc tours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tour service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload tours.DetailsInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tour, err := svc.UpdateTourDetails(r.Context(), carID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tour)
	}
}

func DeleteVirtualTour(svc tours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tour service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTour(r.Context(), carID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"car_id": carID.String()})
	}
}

// UploadTourVideo takes the multipart "file" part plus optional tour_title
// and tour_description form fields.
func UploadTourVideo(svc tours.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tour service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		upload, err := validators.ReadUpload(w, r, uploadFileField, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer upload.Close()

		tour, err := svc.UploadTourVideo(r.Context(), carID, tours.VideoInput{
			Body:            upload.File,
			FileName:        upload.FileName,
			ContentType:     upload.ContentType,
			Size:            upload.Size,
			TourTitle:       optionalFormValue(r, "tour_title", tourTitleMaxLen),
			TourDescription: optionalFormValue(r, "tour_description", tourDescriptionMaxLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tour)
	}
}

func optionalFormValue(r *http.Request, key string, maxLen int) *string {
	value := validators.FormValue(r, key, maxLen)
	if value == "" {
		return nil
	}
	return &value
}
