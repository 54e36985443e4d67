package handlers

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"barber_backend/internal/config"
	"barber_backend/internal/logger"
	"barber_backend/internal/models"
	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"
	"barber_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// SiteOptions - то, что HTML-страницам нужно из конфига
type SiteOptions struct {
	Menu         []config.MenuItem
	CookieName   string
	SecureCookie bool
	ReviewsLimit int
}

// SiteHandler - публичные HTML-страницы и страница записей для сотрудников
type SiteHandler struct {
	*BaseHandler
	opts           SiteOptions
	authService    services.AuthService
	catalogService services.CatalogService
	masterService  services.MasterService
	visitService   services.VisitService
	reviewService  services.ReviewService
}

func NewSiteHandler(base *BaseHandler, opts SiteOptions, container *services.ServiceContainer) *SiteHandler {
	if opts.ReviewsLimit <= 0 {
		opts.ReviewsLimit = 10
	}
	return &SiteHandler{
		BaseHandler:    base,
		opts:           opts,
		authService:    container.AuthService,
		catalogService: container.CatalogService,
		masterService:  container.MasterService,
		visitService:   container.VisitService,
		reviewService:  container.ReviewService,
	}
}

// RegisterRoutes - staffOnly закрывает /visits/, limiter стоит на POST форм
func (h *SiteHandler) RegisterRoutes(r gin.IRouter, staffOnly, limiter gin.HandlerFunc) {
	r.GET("/", h.Index)
	r.POST("/", limiter, h.CreateVisit)
	r.GET("/thanks/", h.Thanks)
	r.GET("/visits/", staffOnly, h.VisitList)
	r.GET("/review/create/", h.ReviewForm)
	r.POST("/review/create/", limiter, h.CreateReview)
	r.GET("/login/", h.LoginForm)
	r.POST("/login/", limiter, h.Login)
	r.GET("/logout/", h.Logout)
}

// formErrors - ошибки полей формы; ключ "form" для общей ошибки
type formErrors map[string]string

func (h *SiteHandler) page(c *gin.Context, title string) gin.H {
	return gin.H{
		"Title":   title,
		"Menu":    h.opts.Menu,
		"IsStaff": h.isStaff(c),
		"Errors":  formErrors{},
	}
}

// isStaff - мягкая проверка cookie для меню, без редиректов
func (h *SiteHandler) isStaff(c *gin.Context) bool {
	token, err := c.Cookie(h.opts.CookieName)
	if err != nil || token == "" {
		return false
	}
	user, err := h.authService.Authenticate(h.GetDB(c), token)
	return err == nil && user.IsStaff
}

// ---------------------------------------------------------------------------
// Главная и запись
// ---------------------------------------------------------------------------

func (h *SiteHandler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, &dto.CreateVisitRequest{}, formErrors{})
}

func (h *SiteHandler) renderIndex(c *gin.Context, status int, form *dto.CreateVisitRequest, errs formErrors) {
	db := h.GetDB(c)

	masters, err := h.masterService.ListMasters(db)
	if err != nil {
		h.renderError(c, err)
		return
	}
	svc, err := h.catalogService.ListServices(db)
	if err != nil {
		h.renderError(c, err)
		return
	}
	reviews, err := h.reviewService.ListVisible(db, h.opts.ReviewsLimit)
	if err != nil {
		h.renderError(c, err)
		return
	}

	data := h.page(c, "")
	data["Masters"] = masters
	data["Services"] = svc
	data["Reviews"] = reviews
	data["Form"] = form
	data["Errors"] = errs
	c.HTML(status, "main.html", data)
}

// CreateVisit - POST формы записи; при ошибках форма рендерится заново с введенными значениями
func (h *SiteHandler) CreateVisit(c *gin.Context) {
	var form dto.CreateVisitRequest
	if err := c.ShouldBind(&form); err != nil {
		logger.CtxWarn(c.Request.Context(), "Failed to bind visit form", "error", err)
		h.renderIndex(c, http.StatusBadRequest, &form, formErrors{"form": "Проверьте правильность заполнения формы"})
		return
	}

	if _, err := h.visitService.CreateVisit(c.Request.Context(), h.GetDB(c), &form); err != nil {
		errs, ok := toFormErrors(err)
		if !ok {
			h.renderError(c, err)
			return
		}
		h.renderIndex(c, http.StatusBadRequest, &form, errs)
		return
	}

	c.Redirect(http.StatusFound, "/thanks/")
}

func (h *SiteHandler) Thanks(c *gin.Context) {
	c.HTML(http.StatusOK, "thanks.html", h.page(c, "Спасибо"))
}

// ---------------------------------------------------------------------------
// Записи для сотрудников
// ---------------------------------------------------------------------------

// VisitList - /visits/?q=&master=&page=
func (h *SiteHandler) VisitList(c *gin.Context) {
	db := h.GetDB(c)

	query := dto.VisitListQuery{
		Q:        c.Query("q"),
		MasterID: ParseQueryUint(c, "master"),
		Page:     ParseQueryInt(c, "page", 1),
	}

	result, err := h.visitService.ListVisits(db, &query)
	if err != nil {
		h.renderError(c, err)
		return
	}
	masters, err := h.masterService.ListMasters(db)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// фильтры сохраняются в ссылках пагинации
	filters := url.Values{}
	if query.Q != "" {
		filters.Set("q", query.Q)
	}
	if query.MasterID != 0 {
		filters.Set("master", strconv.FormatUint(uint64(query.MasterID), 10))
	}
	filterQuery := ""
	if len(filters) > 0 {
		filterQuery = "&" + filters.Encode()
	}

	data := h.page(c, "Записи")
	data["IsStaff"] = true
	data["Page"] = result
	data["Masters"] = masters
	data["SearchQuery"] = query.Q
	data["SelectedMaster"] = query.MasterID
	data["FilterQuery"] = template.URL(filterQuery)
	c.HTML(http.StatusOK, "visit_list.html", data)
}

// ---------------------------------------------------------------------------
// Отзывы
// ---------------------------------------------------------------------------

func (h *SiteHandler) ReviewForm(c *gin.Context) {
	h.renderReviewForm(c, http.StatusOK, &dto.CreateReviewRequest{Rating: int(models.RatingExcellent)}, formErrors{})
}

func (h *SiteHandler) renderReviewForm(c *gin.Context, status int, form *dto.CreateReviewRequest, errs formErrors) {
	masters, err := h.masterService.ListMasters(h.GetDB(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	data := h.page(c, "Оставить отзыв")
	data["Masters"] = masters
	data["Ratings"] = models.RatingChoices()
	data["Form"] = form
	data["Errors"] = errs
	c.HTML(status, "review_form.html", data)
}

func (h *SiteHandler) CreateReview(c *gin.Context) {
	var form dto.CreateReviewRequest
	if err := c.ShouldBind(&form); err != nil {
		logger.CtxWarn(c.Request.Context(), "Failed to bind review form", "error", err)
		h.renderReviewForm(c, http.StatusBadRequest, &form, formErrors{"form": "Проверьте правильность заполнения формы"})
		return
	}

	if _, err := h.reviewService.CreateReview(c.Request.Context(), h.GetDB(c), &form); err != nil {
		errs, ok := toFormErrors(err)
		if !ok {
			h.renderError(c, err)
			return
		}
		h.renderReviewForm(c, http.StatusBadRequest, &form, errs)
		return
	}

	c.Redirect(http.StatusFound, "/#reviews")
}

// ---------------------------------------------------------------------------
// Вход сотрудников через форму
// ---------------------------------------------------------------------------

func (h *SiteHandler) LoginForm(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, "", formErrors{})
}

// renderLogin - пароль в форму обратно не подставляется
func (h *SiteHandler) renderLogin(c *gin.Context, status int, username string, errs formErrors) {
	data := h.page(c, "Вход")
	data["Form"] = &dto.LoginRequest{Username: username}
	data["Errors"] = errs
	c.HTML(status, "login.html", data)
}

func (h *SiteHandler) Login(c *gin.Context) {
	var form dto.LoginRequest
	if err := c.ShouldBind(&form); err != nil {
		logger.CtxWarn(c.Request.Context(), "Failed to bind login form", "error", err)
		h.renderLogin(c, http.StatusBadRequest, form.Username, formErrors{"form": "Проверьте правильность заполнения формы"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &form)
	if err != nil {
		errs, ok := toFormErrors(err)
		if !ok {
			h.renderError(c, err)
			return
		}
		h.renderLogin(c, http.StatusUnauthorized, form.Username, errs)
		return
	}

	setAuthCookie(c, h.opts.CookieName, resp.AccessToken, int(resp.ExpiresIn), h.opts.SecureCookie)
	c.Redirect(http.StatusFound, "/visits/")
}

func (h *SiteHandler) Logout(c *gin.Context) {
	setAuthCookie(c, h.opts.CookieName, "", -1, h.opts.SecureCookie)
	c.Redirect(http.StatusFound, "/")
}

// ---------------------------------------------------------------------------
// Ошибки
// ---------------------------------------------------------------------------

// toFormErrors раскладывает ошибку сервиса по полям формы.
// false - ошибка не про данные формы (500 и т.п.)
func toFormErrors(err error) (formErrors, bool) {
	switch {
	case apperrors.Is(err, apperrors.ErrMasterNotFound):
		return formErrors{"master": "Выберите мастера из списка"}, true
	case apperrors.Is(err, apperrors.ErrUnknownServices):
		return formErrors{"services": "Выберите услуги из списка"}, true
	}

	if apperrors.Status(err) >= http.StatusInternalServerError {
		return nil, false
	}
	if fields, ok := apperrors.FieldErrors(err); ok {
		return formErrors(fields), true
	}
	appErr, _ := apperrors.AsAppError(err)
	return formErrors{"form": appErr.Message}, true
}

func (h *SiteHandler) renderError(c *gin.Context, err error) {
	status := apperrors.Status(err)
	message := "Что-то пошло не так, попробуйте позже"
	if appErr, ok := apperrors.AsAppError(err); ok && status < http.StatusInternalServerError {
		message = appErr.Message
	}
	logger.CtxWithError(c.Request.Context(), "Page rendering failed", err, "path", c.Request.URL.Path)

	data := h.page(c, "Ошибка")
	data["Status"] = status
	data["Message"] = message
	c.HTML(status, "error.html", data)
}
