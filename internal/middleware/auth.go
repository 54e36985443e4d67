package middleware

import (
	"net/http"
	"strings"

	"barber_backend/internal/logger"
	"barber_backend/internal/services"
	"barber_backend/pkg/apperrors"
	"barber_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// tokenFromRequest берет токен из Authorization: Bearer или из cookie
func tokenFromRequest(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookieName != "" {
		if token, err := c.Cookie(cookieName); err == nil {
			return token
		}
	}
	return ""
}

func dbFromContext(c *gin.Context) *gorm.DB {
	val, _ := c.Get(string(contextkeys.DBContextKey))
	db, _ := val.(*gorm.DB)
	return db
}

// authenticate кладет id сотрудника в контекст; ошибка - причина отказа
func authenticate(c *gin.Context, authService services.AuthService, cookieName string) error {
	token := tokenFromRequest(c, cookieName)
	if token == "" {
		return apperrors.NewUnauthorizedError("Authorization token is missing")
	}

	user, err := authService.Authenticate(dbFromContext(c), token)
	if err != nil {
		return err
	}

	c.Set(string(contextkeys.UserIDKey), user.ID)
	c.Set(string(contextkeys.StaffKey), user.IsStaff)
	ctx := logger.WithStaffID(c.Request.Context(), user.ID)
	c.Request = c.Request.WithContext(ctx)
	return nil
}

// StaffAuthMiddleware - JSON API админки: 401/403 в формате AppError
func StaffAuthMiddleware(authService services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, authService, cookieName); err != nil {
			apperrors.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffPageMiddleware - HTML-страницы сотрудников: чужих отправляем на redirectTo
func StaffPageMiddleware(authService services.AuthService, cookieName, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, authService, cookieName); err != nil {
			logger.CtxDebug(c.Request.Context(), "Non-staff access to staff page", "path", c.Request.URL.Path)
			c.Redirect(http.StatusFound, redirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID сотрудника из контекста
func GetUserID(c *gin.Context) uint {
	val, exists := c.Get(string(contextkeys.UserIDKey))
	if !exists {
		return 0
	}
	id, _ := val.(uint)
	return id
}

func IsStaff(c *gin.Context) bool {
	val, exists := c.Get(string(contextkeys.StaffKey))
	if !exists {
		return false
	}
	staff, _ := val.(bool)
	return staff
}
