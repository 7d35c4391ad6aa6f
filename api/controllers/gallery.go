package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shamsoul-ali/THE-VAULT/api/responses"
	"github.com/shamsoul-ali/THE-VAULT/api/validators"
	"github.com/shamsoul-ali/THE-VAULT/internal/carimages"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

// CarGallery is the public gallery read. ?limit= narrows the result but
// never past the gallery cap.
func CarGallery(svc carimages.Service, galleryLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", galleryLimit, 1, galleryLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		images, err := svc.FetchGallery(r.Context(), carID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, images)
	}
}

type gallerySelectionRequest struct {
	Selected *bool `json:"selected" validate:"required"`
}

func ToggleGallerySelection(svc carimages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		imageID, err := validators.ParseUUIDParam(r, imageIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload gallerySelectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		img, err := svc.ToggleGallerySelection(r.Context(), imageID, *payload.Selected)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, img)
	}
}

func ClearGallerySelection(svc carimages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cleared, err := svc.ClearGallerySelection(r.Context(), carID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"cleared": cleared})
	}
}

type bulkReorderRequest struct {
	ImageIDs []uuid.UUID `json:"image_ids" validate:"required,min=1"`
}

// ReorderCarImages rewrites sort_order to match the posted id order.
func ReorderCarImages(svc carimages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkReorderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		images, err := svc.BulkReorder(r.Context(), carID, payload.ImageIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, images)
	}
}
