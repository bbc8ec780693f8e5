package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/genai-toolkit/internal/entity"
	pkghttp "github.com/futig/genai-toolkit/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Headers are already sent, nothing more can be reported
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Text writes a plain text response
func Text(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error writes an error response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// Fail logs err and writes an error response
func Fail(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	Error(w, status, message)
}

// FromError picks the status for err and writes the error response
func FromError(ctx context.Context, w http.ResponseWriter, err error) {
	var httpErr *pkghttp.HTTPError
	var netErr *pkghttp.NetworkError

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		Fail(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrUnsupportedModel),
		errors.Is(err, entity.ErrEmptyMessages):
		Fail(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.As(err, &httpErr), errors.As(err, &netErr):
		Fail(ctx, w, http.StatusBadGateway, "upstream service error", err)
	case errors.Is(err, context.DeadlineExceeded):
		Fail(ctx, w, http.StatusGatewayTimeout, "upstream service timeout", err)
	default:
		Fail(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}
