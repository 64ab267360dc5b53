package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fintrack/internal/auth"
	"fintrack/internal/domain"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/internal/storage"
	"fintrack/web"
)

const (
	pageNotFound    = "404"
	pageServerError = "500"

	defaultPictureURL = "/static/profile-user.svg"
	msgNotAuthorized  = "You Are Not Authorized To Perform This Action"
	dashboardLimit    = 4
)

// Options carries the collaborators of Handler.
type Options struct {
	Users        service.UserService
	Transactions service.TransactionService
	Files        storage.Service
	Tokens       *auth.TokenManager
	Logger       *logrus.Logger
	SecureCookie bool
	// Templates and Static default to the embedded web assets.
	Templates fs.FS
	Static    fs.FS
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users        service.UserService
	transactions service.TransactionService
	files        storage.Service
	tokens       *auth.TokenManager
	logger       *logrus.Logger
	secureCookie bool
	pages        *pageRenderer
	static       fs.FS
	now          func() time.Time
}

func NewHandler(opts Options) (*Handler, error) {
	if opts.Users == nil || opts.Transactions == nil {
		return nil, fmt.Errorf("user and transaction services are required")
	}
	if opts.Tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Templates == nil {
		opts.Templates = web.TemplatesFS
	}
	if opts.Static == nil {
		sub, err := fs.Sub(web.StaticFS, "static")
		if err != nil {
			return nil, fmt.Errorf("static assets: %w", err)
		}
		opts.Static = sub
	}

	pages, err := newPageRenderer(opts.Templates)
	if err != nil {
		return nil, err
	}

	return &Handler{
		users:        opts.Users,
		transactions: opts.Transactions,
		files:        opts.Files,
		tokens:       opts.Tokens,
		logger:       opts.Logger,
		secureCookie: opts.SecureCookie,
		pages:        pages,
		static:       opts.Static,
		now:          time.Now,
	}, nil
}

// localFiles is implemented by storage backends that keep files on disk.
type localFiles interface {
	Root() string
	BaseURL() string
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.HTMLRender = h.pages
	router.Use(requestLogger(h.logger), h.recovery(), h.loadSession())

	router.StaticFS("/static", http.FS(h.static))
	if local, ok := h.files.(localFiles); ok {
		router.Static(local.BaseURL(), local.Root())
	} else if h.files != nil {
		router.GET("/media/*key", h.media)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/user/add", h.registerPage)
	router.POST("/user/add", h.register)
	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.GET("/help-center", h.helpCenter)

	authed := router.Group("/", h.requireUser())
	{
		authed.GET("/logout", h.logout)
		authed.POST("/logout", h.logout)
		authed.GET("/", h.dashboard)
		authed.GET("/wallet", h.wallet)
		authed.GET("/add-transaction", h.newTransactionPage)
		authed.POST("/add-transaction", h.createTransaction)
		authed.GET("/transaction/:id", h.transactionPage)
		authed.POST("/transaction/:id", h.updateTransaction)
		authed.GET("/delete/:id", h.deleteTransaction)
		authed.GET("/delete_user/:id", h.deleteUser)
		authed.GET("/get_latest_data", h.latestData)
		authed.GET("/profile", h.profile)
		authed.GET("/settings", h.settingsPage)
		authed.POST("/settings", h.updateSettings)
	}

	router.NoRoute(func(c *gin.Context) {
		h.render(c, http.StatusNotFound, pageNotFound, nil)
	})
}

// render executes page inside the layout with the data every page needs.
func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["User"]; !ok {
		if user := currentUser(c); user != nil {
			data["User"] = user
		}
	}
	if user, ok := data["User"].(*domain.User); ok && user != nil {
		data["PictureURL"] = h.pictureURL(c.Request.Context(), user)
	}
	data["Year"] = h.now().Year()
	data["Flashes"] = h.popFlashes(c)
	c.HTML(status, page, data)
}

// respondError maps errors that are not specific to a form.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		h.flash(c, flashDanger, msgNotAuthorized)
		c.Redirect(http.StatusFound, "/wallet")
	case errors.Is(err, repository.ErrNotFound):
		h.render(c, http.StatusNotFound, pageNotFound, nil)
	default:
		h.log(c).WithError(err).Error("request failed")
		h.render(c, http.StatusInternalServerError, pageServerError, nil)
	}
}

func (h *Handler) pictureURL(ctx context.Context, user *domain.User) string {
	if h.files == nil || !user.HasCustomPicture() {
		return defaultPictureURL
	}
	url, err := h.files.URL(ctx, user.ProfilePic)
	if err != nil {
		h.logger.WithField("user_id", user.ID).Warnf("profile picture url: %v", err)
		return defaultPictureURL
	}
	return url
}

func (h *Handler) media(c *gin.Context) {
	url, err := h.files.URL(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.render(c, http.StatusNotFound, pageNotFound, nil)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *Handler) helpCenter(c *gin.Context) {
	h.render(c, http.StatusOK, "help-center", nil)
}
