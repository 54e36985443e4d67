package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barber_backend/internal/auth"
	"barber_backend/internal/config"
	"barber_backend/internal/repositories"
	"barber_backend/internal/services"
	"barber_backend/test/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestVisitorStore_BurstAndCleanup(t *testing.T) {
	store := newVisitorStore(1, 2, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	assert.True(t, store.allow("10.0.0.1"))
	assert.True(t, store.allow("10.0.0.1"))
	assert.False(t, store.allow("10.0.0.1"))
	assert.True(t, store.allow("10.0.0.2"))
	assert.Equal(t, 2, store.len())

	now = now.Add(2 * time.Minute)
	store.lastCleanup = now.Add(-2 * time.Minute)
	assert.True(t, store.allow("10.0.0.3"))
	assert.Equal(t, 1, store.len())
}

func TestRateLimitMiddleware_Returns429(t *testing.T) {
	r := gin.New()
	r.POST("/", RateLimitMiddleware(0.001, 1), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestStaffMiddlewares(t *testing.T) {
	db := helpers.NewTestDB(t)
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	authService := services.NewAuthService(repositories.NewUserRepository(), jwt, &config.Config{})

	staff := helpers.CreateStaffUser(t, db, "admin", "pass", true)
	client := helpers.CreateStaffUser(t, db, "client", "pass", false)
	staffToken, err := jwt.GenerateAccessToken(staff.ID, staff.Username, true)
	require.NoError(t, err)
	clientToken, err := jwt.GenerateAccessToken(client.ID, client.Username, false)
	require.NoError(t, err)

	r := gin.New()
	r.Use(DBMiddleware(db))
	r.GET("/api", StaffAuthMiddleware(authService, "access_token"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "staff": IsStaff(c)})
	})
	r.GET("/visits/", StaffPageMiddleware(authService, "access_token", "/"), func(c *gin.Context) {
		c.String(http.StatusOK, "visits")
	})

	tests := []struct {
		name   string
		path   string
		header string
		cookie string
		want   int
	}{
		{"api without token", "/api", "", "", http.StatusUnauthorized},
		{"api bearer staff", "/api", "Bearer " + staffToken, "", http.StatusOK},
		{"api cookie staff", "/api", "", staffToken, http.StatusOK},
		{"api non-staff", "/api", "Bearer " + clientToken, "", http.StatusForbidden},
		{"api bad token", "/api", "Bearer nope", "", http.StatusUnauthorized},
		{"page anonymous redirects", "/visits/", "", "", http.StatusFound},
		{"page non-staff redirects", "/visits/", "", clientToken, http.StatusFound},
		{"page staff", "/visits/", "", staffToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusFound {
				assert.Equal(t, "/", w.Header().Get("Location"))
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://barber.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://barber.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://barber.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
