package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/view"
	"github.com/Astemirdum/library-management/pkg/auth"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/Astemirdum/library-management/pkg/validate"
)

type Handler struct {
	svc      LibraryService
	session  auth.Config
	renderer echo.Renderer
	log      *zap.Logger
}

func New(svc LibraryService, session auth.Config, renderer echo.Renderer, log *zap.Logger) *Handler {
	return &Handler{
		svc:      svc,
		session:  session,
		renderer: renderer,
		log:      log.Named("handler"),
	}
}

const csrfField = "csrf_token"

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		webRPS  = 100
	)
	e.Renderer = h.renderer
	e.Validator = validate.NewCustomValidator()
	e.HTTPErrorHandler = h.httpErrorHandler

	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/manage/")
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	web := e.Group("",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(webRPS),
		middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + csrfField,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   h.session.Secure,
			CookieSameSite: http.SameSiteLaxMode,
		}),
		h.loadSession,
	)

	web.GET("/", h.Home)
	web.GET("/login/", h.LoginPage)
	web.POST("/login/", h.Login)
	web.GET("/logout/", h.Logout)
	web.POST("/logout/", h.Logout)
	web.GET("/register/", h.RegisterPage)
	web.POST("/register/", h.Register)

	// Route-level gates: group middleware with an empty prefix would also
	// wrap the not-found catch-all.
	var (
		loggedIn      = requireLogin
		adminOnly     = requireRole(isSuperuser)
		librarianOnly = requireRole(isLibrarian)
		adminFlag     = requireRole(isAdmin)
	)

	web.GET("/member/", h.MemberDashboard, loggedIn)
	web.GET("/dashboard/", h.MemberDashboard, loggedIn)
	web.GET("/member/profile/", h.ProfilePage, loggedIn)
	web.POST("/member/profile/", h.UpdateProfile, loggedIn)
	web.GET("/purchase/:book_id/:purchase_type/", h.PurchasePage, loggedIn)
	web.POST("/purchase/:book_id/:purchase_type/", h.Purchase, loggedIn)

	web.GET("/admin/", h.AdminDashboard, adminOnly)
	web.GET("/users/", h.ListUsers, adminOnly)
	web.GET("/users/add/", h.AddUserPage, adminOnly)
	web.POST("/users/add/", h.AddUser, adminOnly)
	web.GET("/users/edit/:id/", h.EditUserPage, adminOnly)
	web.POST("/users/edit/:id/", h.EditUser, adminOnly)
	web.GET("/users/delete/:id/", h.DeleteUserPage, adminOnly)
	web.POST("/users/delete/:id/", h.DeleteUser, adminOnly)

	web.GET("/librarians/", h.ListLibrarians, adminOnly)
	web.GET("/librarians/add/", h.AddLibrarianPage, adminOnly)
	web.POST("/librarians/add/", h.AddLibrarian, adminOnly)
	web.GET("/librarians/delete/:id/", h.DeleteLibrarianPage, adminOnly)
	web.POST("/librarians/delete/:id/", h.DeleteLibrarian, adminOnly)

	web.GET("/members/", h.ListMembers, adminOnly)
	web.GET("/members/add/", h.AddMemberPage, adminOnly)
	web.POST("/members/add/", h.AddMember, adminOnly)
	web.GET("/members/delete/:id/", h.DeleteMemberPage, adminOnly)
	web.POST("/members/delete/:id/", h.DeleteMember, adminOnly)

	web.GET("/librarian/", h.LibrarianDashboard, librarianOnly)
	web.GET("/librarian/dashboard/", h.LibrarianDashboard, librarianOnly)

	catalog := bookRoutes{h: h, base: "/books/", home: "/books/"}
	catalog.register(web, librarianOnly)
	desk := bookRoutes{h: h, base: "/librarian/books/", home: "/librarian/"}
	desk.register(web, librarianOnly)
	web.GET("/librarian/add_book/", desk.addPage, librarianOnly)
	web.POST("/librarian/add_book/", desk.add, librarianOnly)
	web.GET("/librarian/edit_book/:id/", desk.editPage, librarianOnly)
	web.POST("/librarian/edit_book/:id/", desk.edit, librarianOnly)
	web.GET("/librarian/delete_book/:id/", desk.deletePage, librarianOnly)
	web.POST("/librarian/delete_book/:id/", desk.delete, librarianOnly)

	manage := bookRoutes{h: h, base: "/admin/books/", home: "/admin/books/"}
	manage.register(web, adminFlag)
	web.GET("/admin/manage_books/", manage.list, adminFlag)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Home has no page of its own.
func (h *Handler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/login/")
}

func (h *Handler) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var rerr error
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		rerr = c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request().URL.RequestURI()))
	case errors.Is(err, errs.ErrAccessDenied):
		h.log.Debug("access denied", zap.String("path", c.Request().URL.Path), zap.Error(err))
		rerr = c.Redirect(http.StatusFound, "/")
	case errors.Is(err, errs.ErrInvalidPurchaseType):
		rerr = c.Redirect(http.StatusFound, "/member/")
	case errors.Is(err, errs.ErrNotFound):
		rerr = h.renderError(c, http.StatusNotFound, "The requested page was not found.")
	case errors.Is(err, errs.ErrPermissionDenied):
		rerr = h.renderError(c, http.StatusForbidden, "User does not have a member profile.")
	case errors.Is(err, errs.ErrNoCopiesAvailable):
		rerr = h.renderError(c, http.StatusConflict, "No copies of this book are available for rent.")
	default:
		var he *echo.HTTPError
		if errors.As(err, &he) {
			rerr = h.renderError(c, he.Code, http.StatusText(he.Code))
			break
		}
		h.log.Error("internal error", zap.String("path", c.Request().URL.Path), zap.Error(err))
		rerr = h.renderError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
	if rerr != nil {
		h.log.Error("error handler", zap.Error(rerr))
	}
}

func (h *Handler) renderError(c echo.Context, code int, msg string) error {
	if c.Request().Method == http.MethodHead {
		return c.NoContent(code)
	}
	return c.Render(code, "error.html", h.page(c, view.Page{
		Title: http.StatusText(code),
		Data:  view.ErrorData{Code: code, Message: msg},
	}))
}

// page fills in what every template needs from the request.
func (h *Handler) page(c echo.Context, p view.Page) view.Page {
	p.User = currentUser(c)
	if token, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
		p.CSRF = token
	}
	return p
}

func (h *Handler) render(c echo.Context, name string, p view.Page) error {
	return c.Render(http.StatusOK, name, h.page(c, p))
}

// formPage shows a form again with its errors.
func (h *Handler) formPage(c echo.Context, name string, p view.Page, fields map[string]string) error {
	p.Errors = fields
	if msg, ok := fields[formErrorKey]; ok {
		p.Error = msg
	} else if p.Error == "" {
		p.Error = "Please correct the errors below."
	}
	return h.render(c, name, p)
}

const formErrorKey = "__all__"

// bindForm binds and validates req. A non-nil map means the form has to be
// shown again with those messages.
func bindForm(c echo.Context, req interface{}) (map[string]string, error) {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusBadRequest {
			return map[string]string{formErrorKey: "Enter valid values."}, nil
		}
		return nil, err
	}
	if err := c.Validate(req); err != nil {
		if fields := validate.FieldErrors(err); fields != nil {
			return fields, nil
		}
		return nil, err
	}
	return nil, nil
}

var uniqueMessages = map[string]string{
	"username":    "A user with that username already exists.",
	"email":       "A user with that email already exists.",
	"isbn":        "Book with this ISBN already exists.",
	"employee_id": "Librarian with this Employee ID already exists.",
	"user":        "This user already has this profile.",
}

// uniqueErrors turns a uniqueness violation into a field error.
func uniqueErrors(err error) map[string]string {
	var uv *errs.UniqueViolation
	if !errors.As(err, &uv) {
		return nil
	}
	msg, ok := uniqueMessages[uv.Field]
	if !ok {
		msg = uv.Error()
	}
	return map[string]string{uv.Field: msg}
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.ErrNotFound
	}
	return id, nil
}
