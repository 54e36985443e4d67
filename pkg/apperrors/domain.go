package apperrors

import (
	"net/http"
)

// ErrNotFound - фабрика для "не найдено" (404), оборачивает ошибку репозитория
func ErrNotFound(err error, resource string) *AppError {
	return Wrap(err, CodeNotFound, resource, resource+" not found", http.StatusNotFound)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid username or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrStaffOnly = New(
	CodeForbidden,
	"auth",
	"Staff access required",
	http.StatusForbidden,
)

// --- Каталог: мастера и услуги ---

var ErrMasterNotFound = New(CodeNotFound, "master", "Master not found", http.StatusNotFound)

var ErrServiceNotFound = New(CodeNotFound, "service", "Service not found", http.StatusNotFound)

// ErrUnknownServices - в запросе есть id услуг, которых нет в базе
var ErrUnknownServices = New(
	CodeValidationFailed,
	"service",
	"Some of the selected services do not exist",
	http.StatusBadRequest,
)

// --- Записи ---

var ErrVisitNotFound = New(CodeNotFound, "visit", "Visit not found", http.StatusNotFound)

// --- Отзывы ---

var ErrReviewNotFound = New(CodeNotFound, "review", "Review not found", http.StatusNotFound)

var ErrInvalidReviewStatus = New(
	CodeValidationFailed,
	"review",
	"Unknown review status",
	http.StatusBadRequest,
)

// --- Файлы ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeUnsupportedMedia,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Rate limiting ---

var ErrTooManyRequests = New(
	CodeRateLimited,
	"request",
	"Too many requests, please try again later",
	http.StatusTooManyRequests,
)
