package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success=true")
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteSuccessKeepsNullData(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, nil)

	if !strings.Contains(w.Body.String(), `"data":null`) {
		t.Fatalf("expected explicit null data, got %s", w.Body.String())
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "validation",
			err:     pkgerrors.New(pkgerrors.CodeValidation, "Please fill in all required fields (Name, Make, Model, Price)"),
			status:  http.StatusBadRequest,
			message: "Please fill in all required fields (Name, Make, Model, Price)",
		},
		{name: "not found", err: pkgerrors.NotFound("car"), status: http.StatusNotFound, message: "car not found"},
		{name: "quota", err: pkgerrors.New(pkgerrors.CodeQuotaExceeded, "gallery limit reached"), status: http.StatusConflict, message: "gallery limit reached"},
		{name: "timeout", err: pkgerrors.New(pkgerrors.CodeUploadTimeout, "upload timed out after 30s"), status: http.StatusGatewayTimeout, message: "upload timed out after 30s"},
		{name: "backend", err: pkgerrors.Backend(errors.New("connection refused"), "load images"), status: http.StatusInternalServerError, message: "load images: connection refused"},
		{name: "untyped", err: errors.New("boom"), status: http.StatusInternalServerError, message: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(context.Background(), logger.Nop(), w, tt.err)

			if w.Code != tt.status {
				t.Fatalf("expected status %d got %d", tt.status, w.Code)
			}
			var body types.ErrorEnvelope
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error envelope: %v", err)
			}
			if body.Success {
				t.Fatalf("expected success=false")
			}
			if body.Error != tt.message {
				t.Fatalf("expected message %q got %q", tt.message, body.Error)
			}
		})
	}
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"image_type": "is invalid"})
	WriteError(context.Background(), nil, w, err)

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Details == nil {
		t.Fatalf("expected details in validation payload")
	}
}

func TestWriteSuccessUnencodablePayload(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusCreated, map[string]any{"stream": make(chan int)})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the payload cannot be encoded, got %d", w.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected fallback envelope %+v", body)
	}
}
