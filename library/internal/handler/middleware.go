package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

const userKey = "user"

// loadSession resolves the session cookie to the user it was issued for.
// The user is reloaded on every request so flag changes apply at once.
func (h *Handler) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(h.session.CookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}
		user, err := h.svc.SessionUser(c.Request().Context(), cookie.Value)
		switch {
		case err == nil:
			c.Set(userKey, &user)
		case errors.Is(err, errs.ErrUnauthenticated):
			h.clearSession(c)
		default:
			return err
		}
		return next(c)
	}
}

func (h *Handler) setSession(c echo.Context, sess model.Session) {
	c.SetCookie(&http.Cookie{
		Name:     h.session.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func currentUser(c echo.Context) *model.User {
	u, _ := c.Get(userKey).(*model.User)
	return u
}

func requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUser(c) == nil {
			return errs.ErrUnauthenticated
		}
		return next(c)
	}
}

type rolePredicate func(model.User) bool

func isSuperuser(u model.User) bool { return u.IsSuperuser }
func isLibrarian(u model.User) bool { return u.IsLibrarian }
func isAdmin(u model.User) bool     { return u.IsAdmin }

// requireRole lets the request through only for users matching allowed.
// Anonymous callers get ErrUnauthenticated, the rest ErrAccessDenied.
func requireRole(allowed rolePredicate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := currentUser(c)
			if u == nil {
				return errs.ErrUnauthenticated
			}
			if !allowed(*u) {
				return fmt.Errorf("%s %s as %q: %w", c.Request().Method, c.Path(), u.Username, errs.ErrAccessDenied)
			}
			return next(c)
		}
	}
}
