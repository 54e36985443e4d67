package apperrors

// ErrorCode - машинный код ошибки в JSON-ответе
type ErrorCode string

const (
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Загрузка фото мастера
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"
	CodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA"

	// Публичные формы
	CodeRateLimited ErrorCode = "RATE_LIMITED"

	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)
