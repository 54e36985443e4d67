package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"barber_backend/internal/auth"
	"barber_backend/internal/config"
	"barber_backend/internal/models"
	"barber_backend/internal/moderation"
	"barber_backend/internal/services"
	"barber_backend/internal/validator"
	"barber_backend/pkg/apperrors"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockNotifier - notify.Notifier на testify/mock
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Channel() string { return "mock" }

func (m *mockNotifier) NotifyNewVisit(ctx context.Context, visit *models.Visit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Site.VisitsPageSize = 5
	cfg.Site.AdminPageSize = 20
	cfg.Site.ReviewsPageSize = 10
	cfg.Site.InlineLimit = 10
	cfg.Site.PriceLowMax = 1000
	cfg.Site.PriceMediumMax = 3000
	cfg.Site.RegularClientMinVisits = 3
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.AllowedTypes = []string{"image/png", "image/jpeg"}
	cfg.Upload.ImageQuality = 85
	cfg.Upload.PhotoWidth = 100
	return cfg
}

func approveAll() moderation.Classifier {
	return moderation.ClassifierFunc(func(context.Context, string) (bool, error) { return true, nil })
}

func newContainer(t *testing.T, deps services.Dependencies) *services.ServiceContainer {
	t.Helper()
	if deps.Config == nil {
		deps.Config = testConfig()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.JWT == nil {
		deps.JWT = auth.NewJWTManager("test-secret", time.Hour)
	}
	if deps.Classifier == nil {
		deps.Classifier = approveAll()
	}
	return services.NewServiceContainer(deps)
}

// requireAppError проверяет код ошибки и возвращает *AppError
func requireAppError(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected *AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr := requireAppError(t, err, apperrors.CodeValidationFailed)
	fields, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	return fields
}

var errNotifyFailed = errors.New("telegram is down")

func longText(prefix string) string {
	return prefix + strings.Repeat(" очень хорошо", 3)
}

func servicesDeps(notifier *mockNotifier) services.Dependencies {
	return services.Dependencies{Notifier: notifier}
}
