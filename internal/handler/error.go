package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/aidar/courtmatch/internal/domain"
)

// ErrorDetail содержит машиночитаемый код ошибки
type ErrorDetail struct {
	Code string `json:"code"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, Envelope{
		StatusCode: statusCode,
		Success:    false,
		Message:    message,
		Data:       ErrorDetail{Code: code},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.HTTPStatus(err)
	code := domain.MapErrorToCode(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		RespondWithError(w, r, status, string(code), "internal server error")
		return
	}

	RespondWithError(w, r, status, string(code), err.Error())
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeInvalidInput), message)
}
