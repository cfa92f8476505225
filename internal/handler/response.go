package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

// Envelope общий формат всех ответов API
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	Meta       *Meta  `json:"meta,omitempty"`
}

// Meta содержит параметры пагинации списка
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// RespondWithJSON отправляет успешный ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, message string, data any) {
	render.Status(r, statusCode)
	render.JSON(w, r, Envelope{
		StatusCode: statusCode,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

// RespondWithList отправляет страницу списка вместе с метаданными пагинации
func RespondWithList(w http.ResponseWriter, r *http.Request, message string, data any, meta Meta) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, Envelope{
		StatusCode: http.StatusOK,
		Success:    true,
		Message:    message,
		Data:       data,
		Meta:       &meta,
	})
}
