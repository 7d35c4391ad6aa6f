package controllers

import (
	"net/http"

	"github.com/shamsoul-ali/THE-VAULT/api/responses"
	"github.com/shamsoul-ali/THE-VAULT/api/validators"
	"github.com/shamsoul-ali/THE-VAULT/internal/cars"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

const carIDParam = "carId"

// GetCar returns a single car with its features.
func GetCar(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "car service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		car, err := svc.GetCar(r.Context(), carID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, car)
	}
}

func CreateCar(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "car service unavailable"))
			return
		}

		var payload cars.CreateCarInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		car, err := svc.CreateCar(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, car)
	}
}

// UpdateCar applies a partial update; absent fields are left alone.
func UpdateCar(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "car service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cars.UpdateCarInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		car, err := svc.UpdateCar(r.Context(), carID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, car)
	}
}

func DeleteCar(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "car service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCar(r.Context(), carID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": carID.String()})
	}
}

type replaceFeaturesRequest struct {
	Features []string `json:"features" validate:"required,max=100,dive,max=200"`
}

// ReplaceCarFeatures swaps the car's whole feature list for the posted one.
func ReplaceCarFeatures(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "car service unavailable"))
			return
		}

		carID, err := validators.ParseUUIDParam(r, carIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceFeaturesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		features, err := svc.ReplaceFeatures(r.Context(), carID, payload.Features)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, features)
	}
}
