package handlers

import (
	"net/http"

	"barber_backend/internal/middleware"
	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	cookieName  string
	secure      bool
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, cookieName string, secure bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		cookieName:  cookieName,
		secure:      secure,
	}
}

// RegisterRoutes регистрирует маршруты /auth
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, limiter gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", limiter, h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.StaffAuthMiddleware(h.authService, h.cookieName), h.Me)
	}
}

// Login выдает токен и дублирует его в HttpOnly cookie для HTML-страниц
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	setAuthCookie(c, h.cookieName, resp.AccessToken, int(resp.ExpiresIn), h.secure)
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	setAuthCookie(c, h.cookieName, "", -1, h.secure)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": middleware.GetUserID(c), "is_staff": middleware.IsStaff(c)})
}

func setAuthCookie(c *gin.Context, name, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}
