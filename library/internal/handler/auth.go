package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/view"
)

func (h *Handler) LoginPage(c echo.Context) error {
	return h.render(c, "login.html", view.Page{
		Title: "Log in",
		Form:  model.LoginRequest{Role: string(model.RoleMember)},
	})
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	page := view.Page{Title: "Log in"}
	fields, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	page.Form = model.LoginRequest{Username: req.Username, Role: req.Role}
	if fields != nil {
		return h.formPage(c, "login.html", page, fields)
	}

	sess, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			page.Error = errs.ErrInvalidCredentials.Error()
			return h.render(c, "login.html", page)
		}
		return err
	}
	h.setSession(c, sess)

	// Always the claimed role's dashboard; a next parameter is never followed.
	return c.Redirect(http.StatusFound, sess.Role.DashboardPath())
}

func (h *Handler) Logout(c echo.Context) error {
	h.clearSession(c)
	return c.Redirect(http.StatusFound, "/login/")
}

func (h *Handler) RegisterPage(c echo.Context) error {
	return h.render(c, "register.html", view.Page{
		Title: "Register",
		Form:  model.RegisterRequest{Role: string(model.RoleMember)},
	})
}

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	fields, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	page := view.Page{Title: "Register", Form: model.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	}}
	if fields != nil {
		return h.formPage(c, "register.html", page, fields)
	}
	if _, err := h.svc.Register(c.Request().Context(), req); err != nil {
		if fields := uniqueErrors(err); fields != nil {
			return h.formPage(c, "register.html", page, fields)
		}
		return err
	}
	return c.Redirect(http.StatusFound, "/login/")
}
