// Package apptest поднимает весь HTTP-роутер приложения для тестов хэндлеров.
package apptest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"barber_backend/internal/app"
	"barber_backend/internal/auth"
	"barber_backend/internal/config"
	"barber_backend/internal/moderation"
	"barber_backend/internal/services"
	"barber_backend/internal/storage"
	"barber_backend/internal/validator"
	"barber_backend/test/helpers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TestServer struct {
	Server    *httptest.Server
	DB        *gorm.DB
	Config    *config.Config
	Container *services.ServiceContainer
}

// NewTestServer поднимает весь роутер поверх sqlite.
// Модерация одобряет все отзывы, уведомления выключены, фото - в TempDir.
func NewTestServer(t *testing.T, deps services.Dependencies) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := helpers.NewTestDB(t)

	cfg := deps.Config
	if cfg == nil {
		cfg = config.Defaults()
		cfg.JWT.Secret = "test-secret"
		cfg.RateLimit.RPS = 100
		cfg.RateLimit.Burst = 100
		cfg.Storage.BasePath = t.TempDir()
		deps.Config = cfg
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.JWT == nil {
		deps.JWT = auth.NewJWTManager(cfg.JWT.Secret, time.Hour)
	}
	if deps.Classifier == nil {
		deps.Classifier = moderation.ClassifierFunc(func(context.Context, string) (bool, error) { return true, nil })
	}
	if deps.Storage == nil {
		store, err := storage.NewLocalStorage(storage.Config{BasePath: cfg.Storage.BasePath, BaseURL: cfg.Storage.BaseURL})
		if err != nil {
			t.Fatalf("Не удалось создать хранилище: %v", err)
		}
		deps.Storage = store
	}

	router, container, err := app.SetupRouter(cfg, db, deps)
	if err != nil {
		t.Fatalf("Не удалось собрать роутер: %v", err)
	}

	ts := &TestServer{
		Server:    httptest.NewServer(router),
		DB:        db,
		Config:    cfg,
		Container: container,
	}
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
}

// Client без автоматического перехода по редиректам
func (ts *TestServer) Client() *http.Client {
	client := *ts.Server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &client
}

// Login создает сотрудника и возвращает его access token
func (ts *TestServer) Login(t *testing.T, username, password string) string {
	t.Helper()
	helpers.CreateStaffUser(t, ts.DB, username, password, true)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Логин не удался: %d %s", res.StatusCode, body)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Ошибка разбора ответа логина: %v", err)
	}
	return resp.AccessToken
}

// SendRequest отправляет JSON-запрос и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req)
}

// PostForm отправляет HTML-форму; cookie - необязательная cookie авторизации
func (ts *TestServer) PostForm(t *testing.T, path string, form url.Values, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return ts.do(t, req)
}

// GetPage - GET HTML-страницы
func (ts *TestServer) GetPage(t *testing.T, path string, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	return res, string(resBodyBytes)
}
