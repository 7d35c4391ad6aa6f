package controllers

import (
	"net/http"
	"strings"

	"github.com/shamsoul-ali/THE-VAULT/api/responses"
	"github.com/shamsoul-ali/THE-VAULT/api/validators"
	"github.com/shamsoul-ali/THE-VAULT/internal/carimages"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

const (
	imageIDParam    = "imageId"
	uploadFileField = "file"
)

// ListCarImages returns the car's images in display order, optionally
// narrowed by ?type=.
func ListCarImages(svc carimages.Service, logg *logger.Logger) http.HandlerFunc {
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

		filter, err := validators.ParseImageTypeQuery(r, "type")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		images, err := svc.ListImages(r.Context(), carID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, images)
	}
}

type registerImageRequest struct {
	ImageURL    string  `json:"image_url" validate:"required,url"`
	StoragePath *string `json:"storage_path" validate:"omitempty,max=512"`
	FileSize    *int64  `json:"file_size" validate:"omitempty,min=0"`
	Format      *string `json:"format" validate:"omitempty,max=32"`
	AltText     *string `json:"alt_text" validate:"omitempty,max=300"`
	Caption     *string `json:"caption" validate:"omitempty,max=1000"`
	Width       *int    `json:"width" validate:"omitempty,min=0"`
	Height      *int    `json:"height" validate:"omitempty,min=0"`
}

func (r registerImageRequest) toInput() carimages.RegisterInput {
	return carimages.RegisterInput{
		ImageURL:    r.ImageURL,
		StoragePath: r.StoragePath,
		FileSize:    r.FileSize,
		Format:      r.Format,
		AltText:     r.AltText,
		Caption:     r.Caption,
		Width:       r.Width,
		Height:      r.Height,
	}
}

// RegisterCarImage records an object that was uploaded out of band.
func RegisterCarImage(svc carimages.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload registerImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		img, err := svc.RegisterImage(r.Context(), carID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, img)
	}
}

// UploadCarImage streams the multipart "file" part to the object store and
// registers it against the car.
func UploadCarImage(svc carimages.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
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

		upload, err := validators.ReadUpload(w, r, uploadFileField, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer upload.Close()

		img, err := svc.UploadImage(r.Context(), carID, carimages.UploadInput{
			Body:        upload.File,
			FileName:    upload.FileName,
			ContentType: upload.ContentType,
			Size:        upload.Size,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, img)
	}
}

type updateImageRequest struct {
	SortOrder *int    `json:"sort_order" validate:"omitempty,min=0"`
	ImageType *string `json:"image_type"`
}

// UpdateCarImage reclassifies and/or repositions a single image.
func UpdateCarImage(svc carimages.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload updateImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.SortOrder == nil && payload.ImageType == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sort_order or image_type is required"))
			return
		}

		var img *models.CarImage
		if payload.ImageType != nil {
			imageType, err := enums.ParseImageType(strings.TrimSpace(*payload.ImageType))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image type").
					WithDetails(map[string]any{"field": "image_type"}))
				return
			}
			if img, err = svc.Reclassify(r.Context(), imageID, imageType); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if payload.SortOrder != nil {
			if img, err = svc.Reorder(r.Context(), imageID, *payload.SortOrder); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, img)
	}
}

// DeleteCarImage removes the record and then the stored object.
func DeleteCarImage(svc carimages.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.DeleteImage(r.Context(), imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": imageID.String()})
	}
}

func PromoteCarImage(svc carimages.Service, logg *logger.Logger) http.HandlerFunc {
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
		imageID, err := validators.ParseUUIDParam(r, imageIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		img, err := svc.PromoteToPrimary(r.Context(), carID, imageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, img)
	}
}
