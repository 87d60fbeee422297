package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/handler"
	service_mocks "github.com/Astemirdum/library-management/library/internal/handler/mocks"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/view"
	"github.com/Astemirdum/library-management/pkg/auth"
)

const (
	cookieName   = "library_session"
	sessionToken = "session-token"
	csrfToken    = "csrf-token"
)

var (
	superuser = model.User{ID: 1, Username: "root", IsSuperuser: true, IsAdmin: true}
	librarian = model.User{ID: 2, Username: "lib", IsLibrarian: true}
	member    = model.User{ID: 3, Username: "mem"}
	staff     = model.User{ID: 4, Username: "staff", IsAdmin: true}
)

func newRouter(t *testing.T) (*service_mocks.MockLibraryService, *echo.Echo) {
	t.Helper()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockLibraryService(c)
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	h := handler.New(svc, auth.Config{CookieName: cookieName, TTL: time.Hour}, renderer, zap.NewNop())
	return svc, h.NewRouter()
}

type request struct {
	method string
	target string
	form   url.Values
	user   *model.User
}

// do sends the request, signed in as r.user when set. POSTs carry a valid
// CSRF token.
func do(t *testing.T, svc *service_mocks.MockLibraryService, e *echo.Echo, r request) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if r.method == http.MethodPost {
		form := r.form
		if form == nil {
			form = url.Values{}
		}
		form.Set("csrf_token", csrfToken)
		req = httptest.NewRequest(r.method, r.target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.AddCookie(&http.Cookie{Name: "_csrf", Value: csrfToken})
	} else {
		req = httptest.NewRequest(r.method, r.target, http.NoBody)
	}
	if r.user != nil {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sessionToken})
		svc.EXPECT().SessionUser(gomock.Any(), sessionToken).Return(*r.user, nil)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	svc, e := newRouter(t)
	w := do(t, svc, e, request{method: http.MethodGet, target: "/manage/health"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}

func TestHandler_Redirects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		req      request
		location string
	}{
		{name: "landing", req: request{method: http.MethodGet, target: "/"}, location: "/login/"},
		{name: "anonymous member dashboard", req: request{method: http.MethodGet, target: "/member/"}, location: "/login/?next=%2Fmember%2F"},
		{name: "slash appended", req: request{method: http.MethodGet, target: "/member"}, location: "/login/?next=%2Fmember%2F"},
		{name: "anonymous admin", req: request{method: http.MethodGet, target: "/users/"}, location: "/login/?next=%2Fusers%2F"},
		{name: "member on users", req: request{method: http.MethodGet, target: "/users/", user: &member}, location: "/"},
		{name: "librarian on admin", req: request{method: http.MethodGet, target: "/admin/", user: &librarian}, location: "/"},
		{name: "is_admin without superuser on admin", req: request{method: http.MethodGet, target: "/admin/", user: &staff}, location: "/"},
		{name: "member on catalog", req: request{method: http.MethodGet, target: "/books/", user: &member}, location: "/"},
		{name: "librarian on admin books", req: request{method: http.MethodGet, target: "/admin/books/", user: &librarian}, location: "/"},
		{name: "member on legacy add", req: request{method: http.MethodGet, target: "/librarian/add_book/", user: &member}, location: "/"},
		{name: "logout", req: request{method: http.MethodGet, target: "/logout/", user: &member}, location: "/login/"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newRouter(t)
			w := do(t, svc, e, tt.req)
			require.Equal(t, http.StatusFound, w.Code)
			require.Equal(t, tt.location, w.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestHandler_RoleGatesAllow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		target       string
		user         model.User
		mockBehavior func(s *service_mocks.MockLibraryService)
	}{
		{
			name: "superuser on users", target: "/users/", user: superuser,
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().ListUsers(gomock.Any()).Return([]model.User{superuser}, nil)
			},
		},
		{
			name: "superuser dashboard", target: "/admin/", user: superuser,
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().Stats(gomock.Any()).Return(model.Stats{Users: 3}, nil)
			},
		},
		{
			name: "is_admin on admin books", target: "/admin/books/", user: staff,
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().ListBooks(gomock.Any()).Return(nil, nil)
			},
		},
		{
			name: "is_admin on legacy manage books", target: "/admin/manage_books/", user: staff,
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().ListBooks(gomock.Any()).Return(nil, nil)
			},
		},
		{
			name: "librarian dashboard", target: "/librarian/", user: librarian,
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().ListBooks(gomock.Any()).Return([]model.Book{{ID: 1, Title: "Dune"}}, nil)
			},
		},
		{
			name: "librarian catalog", target: "/books/", user: librarian,
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().ListBooks(gomock.Any()).Return(nil, nil)
			},
		},
		{
			name: "member dashboard", target: "/member/", user: member,
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().MemberDashboard(gomock.Any(), member).Return(model.MemberDashboard{}, nil)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newRouter(t)
			tt.mockBehavior(svc)
			w := do(t, svc, e, request{method: http.MethodGet, target: tt.target, user: &tt.user})
			require.Equal(t, http.StatusOK, w.Code)
			require.Contains(t, w.Body.String(), tt.user.Username)
		})
	}
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()
	type response struct {
		code     int
		location string
		body     string
	}
	tests := []struct {
		name         string
		form         url.Values
		mockBehavior func(s *service_mocks.MockLibraryService)
		response     response
	}{
		{
			name: "member",
			form: url.Values{"username": {"mem"}, "password": {"pw"}, "role": {"member"}},
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().
					Login(gomock.Any(), model.LoginRequest{Username: "mem", Password: "pw", Role: "member"}).
					Return(model.Session{User: member, Role: model.RoleMember, Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil)
			},
			response: response{code: http.StatusFound, location: "/member/"},
		},
		{
			name: "admin",
			form: url.Values{"username": {"root"}, "password": {"pw"}, "role": {"admin"}},
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().Login(gomock.Any(), gomock.Any()).
					Return(model.Session{User: superuser, Role: model.RoleAdmin, Token: "tok"}, nil)
			},
			response: response{code: http.StatusFound, location: "/admin/"},
		},
		{
			name: "next ignored",
			form: url.Values{"username": {"lib"}, "password": {"pw"}, "role": {"librarian"}, "next": {"/books/"}},
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().Login(gomock.Any(), gomock.Any()).
					Return(model.Session{User: librarian, Role: model.RoleLibrarian, Token: "tok"}, nil)
			},
			response: response{code: http.StatusFound, location: "/librarian/"},
		},
		{
			name: "member next ignored",
			form: url.Values{"username": {"mem"}, "password": {"pw"}, "role": {"member"}, "next": {"/users/"}},
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().Login(gomock.Any(), gomock.Any()).
					Return(model.Session{User: member, Role: model.RoleMember, Token: "tok"}, nil)
			},
			response: response{code: http.StatusFound, location: "/member/"},
		},
		{
			name: "next with control characters ignored",
			form: url.Values{"username": {"mem"}, "password": {"pw"}, "role": {"member"}, "next": {"/\t/evil.example/"}},
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().Login(gomock.Any(), gomock.Any()).
					Return(model.Session{User: member, Role: model.RoleMember, Token: "tok"}, nil)
			},
			response: response{code: http.StatusFound, location: "/member/"},
		},
		{
			name: "foreign next ignored",
			form: url.Values{"username": {"lib"}, "password": {"pw"}, "role": {"librarian"}, "next": {"//evil.example/"}},
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().Login(gomock.Any(), gomock.Any()).
					Return(model.Session{User: librarian, Role: model.RoleLibrarian, Token: "tok"}, nil)
			},
			response: response{code: http.StatusFound, location: "/librarian/"},
		},
		{
			name: "invalid credentials",
			form: url.Values{"username": {"mem"}, "password": {"bad"}, "role": {"admin"}},
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().Login(gomock.Any(), gomock.Any()).Return(model.Session{}, errs.ErrInvalidCredentials)
			},
			response: response{code: http.StatusOK, body: "Invalid username, password, or role."},
		},
		{
			name:         "missing fields",
			form:         url.Values{"username": {"mem"}},
			mockBehavior: func(s *service_mocks.MockLibraryService) {},
			response:     response{code: http.StatusOK, body: "This field is required."},
		},
		{
			name: "internal",
			form: url.Values{"username": {"mem"}, "password": {"pw"}, "role": {"member"}},
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().Login(gomock.Any(), gomock.Any()).Return(model.Session{}, errors.New("db down"))
			},
			response: response{code: http.StatusInternalServerError, body: "Internal Server Error"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newRouter(t)
			tt.mockBehavior(svc)
			w := do(t, svc, e, request{method: http.MethodPost, target: "/login/", form: tt.form})

			require.Equal(t, tt.response.code, w.Code)
			if tt.response.location != "" {
				require.Equal(t, tt.response.location, w.Header().Get(echo.HeaderLocation))
				require.NotEmpty(t, findCookie(w, cookieName))
			}
			if tt.response.body != "" {
				require.Contains(t, w.Body.String(), tt.response.body)
			}
		})
	}
}

func findCookie(w *httptest.ResponseRecorder, name string) string {
	for _, c := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(c, name+"=") {
			return c
		}
	}
	return ""
}

func TestHandler_CSRF(t *testing.T) {
	t.Parallel()
	_, e := newRouter(t)
	form := url.Values{"username": {"mem"}, "password": {"pw"}, "role": {"member"}}
	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()
	form := func() url.Values {
		return url.Values{
			"username":  {"carol"},
			"email":     {"carol@example.com"},
			"password1": {"pw-1"},
			"password2": {"pw-1"},
			"role":      {"librarian"},
		}
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		svc.EXPECT().Register(gomock.Any(), model.RegisterRequest{
			Username: "carol", Email: "carol@example.com", Password1: "pw-1", Password2: "pw-1", Role: "librarian",
		}).Return(model.User{ID: 9, Username: "carol", IsLibrarian: true}, nil)

		w := do(t, svc, e, request{method: http.MethodPost, target: "/register/", form: form()})
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/login/", w.Header().Get(echo.HeaderLocation))
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		svc.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(model.User{}, errors.Wrap(&errs.UniqueViolation{Field: "username"}, "register"))

		w := do(t, svc, e, request{method: http.MethodPost, target: "/register/", form: form()})
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "A user with that username already exists.")
	})

	t.Run("passwords differ", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		f := form()
		f.Set("password2", "other")
		w := do(t, svc, e, request{method: http.MethodPost, target: "/register/", form: f})
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "The two password fields didn")
	})

	t.Run("admin role rejected", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		f := form()
		f.Set("role", "admin")
		w := do(t, svc, e, request{method: http.MethodPost, target: "/register/", form: f})
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "Select a valid choice.")
	})
}

func TestHandler_Purchase(t *testing.T) {
	t.Parallel()
	type response struct {
		code     int
		location string
	}
	tests := []struct {
		name     string
		target   string
		err      error
		response response
	}{
		{name: "rent", target: "/purchase/3/rent/", response: response{code: http.StatusFound, location: "/member/"}},
		{name: "buy", target: "/purchase/3/buy/", response: response{code: http.StatusFound, location: "/member/"}},
		{name: "unknown type", target: "/purchase/3/swap/", err: errs.ErrInvalidPurchaseType, response: response{code: http.StatusFound, location: "/member/"}},
		{name: "no member profile", target: "/purchase/3/rent/", err: errs.ErrPermissionDenied, response: response{code: http.StatusForbidden}},
		{name: "no book", target: "/purchase/3/rent/", err: errs.ErrNotFound, response: response{code: http.StatusNotFound}},
		{name: "sold out", target: "/purchase/3/rent/", err: errors.Wrap(errs.ErrNoCopiesAvailable, "purchase book 3"), response: response{code: http.StatusConflict}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newRouter(t)
			typ := strings.Split(strings.Trim(tt.target, "/"), "/")[2]
			svc.EXPECT().Purchase(gomock.Any(), member, int64(3), typ).Return(model.Purchase{}, tt.err)

			w := do(t, svc, e, request{method: http.MethodPost, target: tt.target, user: &member})
			require.Equal(t, tt.response.code, w.Code)
			require.Equal(t, tt.response.location, w.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestHandler_PurchasePage(t *testing.T) {
	t.Parallel()
	type response struct {
		code     int
		location string
		body     []string
	}
	tests := []struct {
		name     string
		target   string
		option   model.PurchaseOption
		err      error
		response response
	}{
		{
			name:   "rent confirmation",
			target: "/purchase/3/rent/",
			option: model.PurchaseOption{
				Book: model.Book{ID: 3, Title: "Dune", AvailableCopies: 2, RentPrice: 1.5},
				Type: model.PurchaseRent,
			},
			response: response{code: http.StatusOK, body: []string{`Rent "Dune" for 1.50?`, `action="/purchase/3/rent/"`}},
		},
		{
			name:     "unknown type",
			target:   "/purchase/3/swap/",
			err:      errs.ErrInvalidPurchaseType,
			response: response{code: http.StatusFound, location: "/member/"},
		},
		{
			name:     "no member profile",
			target:   "/purchase/3/buy/",
			err:      errs.ErrPermissionDenied,
			response: response{code: http.StatusForbidden, body: []string{"User does not have a member profile."}},
		},
		{
			name:     "no book",
			target:   "/purchase/3/rent/",
			err:      errs.ErrNotFound,
			response: response{code: http.StatusNotFound},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newRouter(t)
			typ := strings.Split(strings.Trim(tt.target, "/"), "/")[2]
			svc.EXPECT().CheckPurchase(gomock.Any(), member, int64(3), typ).Return(tt.option, tt.err)

			w := do(t, svc, e, request{method: http.MethodGet, target: tt.target, user: &member})
			require.Equal(t, tt.response.code, w.Code)
			require.Equal(t, tt.response.location, w.Header().Get(echo.HeaderLocation))
			for _, b := range tt.response.body {
				require.Contains(t, w.Body.String(), b)
			}
		})
	}
}

func TestHandler_AddBook(t *testing.T) {
	t.Parallel()
	valid := func() url.Values {
		return url.Values{
			"title":            {"Dune"},
			"author":           {"Frank Herbert"},
			"isbn":             {"1234567890123"},
			"publication_date": {"1965-08-01"},
			"available_copies": {"2"},
			"rent_price":       {"1.50"},
			"purchase_price":   {"20"},
		}
	}
	want := model.BookRequest{
		Title: "Dune", Author: "Frank Herbert", ISBN: "1234567890123", PublicationDate: "1965-08-01",
		AvailableCopies: 2, RentPrice: 1.5, PurchasePrice: 20,
	}

	tests := []struct {
		name         string
		target       string
		user         model.User
		form         url.Values
		mockBehavior func(s *service_mocks.MockLibraryService)
		code         int
		location     string
		body         string
	}{
		{
			name: "catalog", target: "/books/add/", user: librarian, form: valid(),
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().CreateBook(gomock.Any(), want).Return(model.Book{ID: 1}, nil)
			},
			code: http.StatusFound, location: "/books/",
		},
		{
			name: "legacy librarian alias", target: "/librarian/add_book/", user: librarian, form: valid(),
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().CreateBook(gomock.Any(), want).Return(model.Book{ID: 1}, nil)
			},
			code: http.StatusFound, location: "/librarian/",
		},
		{
			name: "admin books", target: "/admin/books/add/", user: staff, form: valid(),
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().CreateBook(gomock.Any(), want).Return(model.Book{ID: 1}, nil)
			},
			code: http.StatusFound, location: "/admin/books/",
		},
		{
			name: "duplicate isbn", target: "/books/add/", user: librarian, form: valid(),
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().CreateBook(gomock.Any(), want).Return(model.Book{}, &errs.UniqueViolation{Field: "isbn"})
			},
			code: http.StatusOK, body: "Book with this ISBN already exists.",
		},
		{
			name: "negative copies", target: "/books/add/", user: librarian,
			form: func() url.Values {
				f := valid()
				f.Set("available_copies", "-1")
				return f
			}(),
			mockBehavior: func(s *service_mocks.MockLibraryService) {},
			code:         http.StatusOK, body: "Ensure this value is greater than or equal to 0.",
		},
		{
			name: "missing title", target: "/books/add/", user: librarian,
			form: func() url.Values {
				f := valid()
				f.Del("title")
				return f
			}(),
			mockBehavior: func(s *service_mocks.MockLibraryService) {},
			code:         http.StatusOK, body: "This field is required.",
		},
		{
			name: "bad date", target: "/books/add/", user: librarian,
			form: func() url.Values {
				f := valid()
				f.Set("publication_date", "01/08/1965")
				return f
			}(),
			mockBehavior: func(s *service_mocks.MockLibraryService) {},
			code:         http.StatusOK, body: "Enter a valid date.",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newRouter(t)
			tt.mockBehavior(svc)
			w := do(t, svc, e, request{method: http.MethodPost, target: tt.target, form: tt.form, user: &tt.user})
			require.Equal(t, tt.code, w.Code)
			require.Equal(t, tt.location, w.Header().Get(echo.HeaderLocation))
			if tt.body != "" {
				require.Contains(t, w.Body.String(), tt.body)
			}
		})
	}
}

func TestHandler_EditAndDeleteBook(t *testing.T) {
	t.Parallel()

	t.Run("edit page not found", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		svc.EXPECT().GetBook(gomock.Any(), int64(42)).Return(model.Book{}, errs.ErrNotFound)
		w := do(t, svc, e, request{method: http.MethodGet, target: "/books/edit/42/", user: &librarian})
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		w := do(t, svc, e, request{method: http.MethodGet, target: "/books/edit/abc/", user: &librarian})
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete confirm", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		svc.EXPECT().GetBook(gomock.Any(), int64(3)).Return(model.Book{ID: 3, Title: "Dune"}, nil)
		w := do(t, svc, e, request{method: http.MethodGet, target: "/librarian/delete_book/3/", user: &librarian})
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `action="/librarian/delete_book/3/"`)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		svc.EXPECT().DeleteBook(gomock.Any(), int64(3)).Return(nil)
		w := do(t, svc, e, request{method: http.MethodPost, target: "/librarian/books/delete/3/", user: &librarian})
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/librarian/", w.Header().Get(echo.HeaderLocation))
	})
}

func TestHandler_Users(t *testing.T) {
	t.Parallel()

	t.Run("edit keeps flags as typed", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		svc.EXPECT().UpdateUser(gomock.Any(), int64(3), model.UserUpdateRequest{
			Username: "mem", Email: "mem@example.com", IsLibrarian: true,
		}).Return(model.User{}, nil)
		w := do(t, svc, e, request{
			method: http.MethodPost, target: "/users/edit/3/", user: &superuser,
			form: url.Values{"username": {"mem"}, "email": {"mem@example.com"}, "is_librarian": {"true"}},
		})
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/users/", w.Header().Get(echo.HeaderLocation))
	})

	t.Run("delete missing user", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		svc.EXPECT().DeleteUser(gomock.Any(), int64(77)).Return(errs.ErrNotFound)
		w := do(t, svc, e, request{method: http.MethodPost, target: "/users/delete/77/", user: &superuser})
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("add librarian for unknown user", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		req := model.LibrarianCreateRequest{UserID: 99, EmployeeID: "E-1", ContactNumber: "555"}
		svc.EXPECT().AddLibrarian(gomock.Any(), req).Return(model.Librarian{}, errs.ErrNotFound)
		svc.EXPECT().LibrarianCandidates(gomock.Any()).Return([]model.User{member}, nil)
		w := do(t, svc, e, request{
			method: http.MethodPost, target: "/librarians/add/", user: &superuser,
			form: url.Values{"user": {"99"}, "employee_id": {"E-1"}, "contact_number": {"555"}},
		})
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "Select a valid choice.")
	})

	t.Run("add librarian", func(t *testing.T) {
		t.Parallel()
		svc, e := newRouter(t)
		req := model.LibrarianCreateRequest{UserID: 3, EmployeeID: "E-1", ContactNumber: "555"}
		svc.EXPECT().AddLibrarian(gomock.Any(), req).Return(model.Librarian{ID: 1, UserID: 3}, nil)
		w := do(t, svc, e, request{
			method: http.MethodPost, target: "/librarians/add/", user: &superuser,
			form: url.Values{"user": {"3"}, "employee_id": {"E-1"}, "contact_number": {"555"}},
		})
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/librarians/", w.Header().Get(echo.HeaderLocation))
	})
}

func TestHandler_DeleteConfirmation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		target       string
		mockBehavior func(s *service_mocks.MockLibraryService)
		code         int
		body         string
	}{
		{
			name:   "librarian",
			target: "/librarians/delete/5/",
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().GetLibrarian(gomock.Any(), int64(5)).Return(model.LibrarianView{
					Librarian: model.Librarian{ID: 5, UserID: 2, EmployeeID: "E-1"},
					Username:  "lib",
				}, nil)
			},
			code: http.StatusOK,
			body: `delete "lib"?`,
		},
		{
			name:   "missing librarian",
			target: "/librarians/delete/999/",
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().GetLibrarian(gomock.Any(), int64(999)).Return(model.LibrarianView{}, errs.ErrNotFound)
			},
			code: http.StatusNotFound,
		},
		{
			name:   "member",
			target: "/members/delete/6/",
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().GetMember(gomock.Any(), int64(6)).Return(model.MemberView{
					Member:   model.Member{ID: 6, UserID: 3},
					Username: "mem",
				}, nil)
			},
			code: http.StatusOK,
			body: `delete "mem"?`,
		},
		{
			name:   "missing member",
			target: "/members/delete/999/",
			mockBehavior: func(s *service_mocks.MockLibraryService) {
				s.EXPECT().GetMember(gomock.Any(), int64(999)).Return(model.MemberView{}, errs.ErrNotFound)
			},
			code: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newRouter(t)
			tt.mockBehavior(svc)
			w := do(t, svc, e, request{method: http.MethodGet, target: tt.target, user: &superuser})
			require.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				require.Contains(t, w.Body.String(), tt.body)
			}
		})
	}
}

func TestHandler_StaleSession(t *testing.T) {
	t.Parallel()
	svc, e := newRouter(t)
	svc.EXPECT().SessionUser(gomock.Any(), "stale").Return(model.User{}, errs.ErrUnauthenticated)

	req := httptest.NewRequest(http.MethodGet, "/member/", http.NoBody)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "stale"})
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login/?next=%2Fmember%2F", w.Header().Get(echo.HeaderLocation))
	require.Contains(t, findCookie(w, cookieName), "Max-Age=0")
}
