package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/view"
)

func (h *Handler) AdminDashboard(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, "admin_dashboard.html", view.Page{Title: "Admin dashboard", Data: stats})
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, "users.html", view.Page{Title: "Users", Data: users})
}

func (h *Handler) AddUserPage(c echo.Context) error {
	return h.render(c, "user_form.html", view.Page{
		Title:  "Add user",
		Form:   model.UserCreateRequest{},
		Action: c.Request().URL.Path,
	})
}

func (h *Handler) AddUser(c echo.Context) error {
	var req model.UserCreateRequest
	fields, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	page := view.Page{Title: "Add user", Action: c.Request().URL.Path, Form: model.UserCreateRequest{
		Username:    req.Username,
		Email:       req.Email,
		IsLibrarian: req.IsLibrarian,
		IsAdmin:     req.IsAdmin,
	}}
	if fields != nil {
		return h.formPage(c, "user_form.html", page, fields)
	}
	if _, err := h.svc.CreateUser(c.Request().Context(), req); err != nil {
		if fields := uniqueErrors(err); fields != nil {
			return h.formPage(c, "user_form.html", page, fields)
		}
		return err
	}
	return c.Redirect(http.StatusFound, "/users/")
}

func (h *Handler) EditUserPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.render(c, "user_form.html", view.Page{
		Title:  "Edit user " + user.Username,
		Form:   model.UserUpdateFrom(user),
		Data:   true,
		Action: c.Request().URL.Path,
	})
}

func (h *Handler) EditUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req model.UserUpdateRequest
	fields, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	page := view.Page{Title: "Edit user", Form: req, Data: true, Action: c.Request().URL.Path}
	if fields != nil {
		return h.formPage(c, "user_form.html", page, fields)
	}
	if _, err := h.svc.UpdateUser(c.Request().Context(), id, req); err != nil {
		if fields := uniqueErrors(err); fields != nil {
			return h.formPage(c, "user_form.html", page, fields)
		}
		return err
	}
	return c.Redirect(http.StatusFound, "/users/")
}

func (h *Handler) DeleteUserPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.render(c, "confirm_delete.html", view.Page{
		Title:  "Delete user",
		Data:   user.Username,
		Action: c.Request().URL.Path,
		Cancel: "/users/",
	})
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/users/")
}

func (h *Handler) ListLibrarians(c echo.Context) error {
	libs, err := h.svc.ListLibrarians(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, "librarians.html", view.Page{Title: "Librarians", Data: libs})
}

func (h *Handler) AddLibrarianPage(c echo.Context) error {
	return h.librarianForm(c, model.LibrarianCreateRequest{}, nil)
}

func (h *Handler) librarianForm(c echo.Context, req model.LibrarianCreateRequest, fields map[string]string) error {
	candidates, err := h.svc.LibrarianCandidates(c.Request().Context())
	if err != nil {
		return err
	}
	page := view.Page{Title: "Add librarian", Form: req, Data: candidates}
	if fields != nil {
		return h.formPage(c, "librarian_form.html", page, fields)
	}
	return h.render(c, "librarian_form.html", page)
}

func (h *Handler) AddLibrarian(c echo.Context) error {
	var req model.LibrarianCreateRequest
	fields, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	if fields != nil {
		return h.librarianForm(c, req, fields)
	}
	if _, err := h.svc.AddLibrarian(c.Request().Context(), req); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return h.librarianForm(c, req, map[string]string{"user": "Select a valid choice."})
		case errors.Is(err, errs.ErrAlreadyExists):
			return h.librarianForm(c, req, uniqueErrors(err))
		}
		return err
	}
	return c.Redirect(http.StatusFound, "/librarians/")
}

func (h *Handler) DeleteLibrarianPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	lib, err := h.svc.GetLibrarian(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.render(c, "confirm_delete.html", view.Page{
		Title:  "Delete librarian",
		Data:   lib.Username,
		Action: c.Request().URL.Path,
		Cancel: "/librarians/",
	})
}

func (h *Handler) DeleteLibrarian(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteLibrarian(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/librarians/")
}

func (h *Handler) ListMembers(c echo.Context) error {
	members, err := h.svc.ListMembers(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, "members.html", view.Page{Title: "Members", Data: members})
}

func (h *Handler) AddMemberPage(c echo.Context) error {
	return h.memberForm(c, model.MemberCreateRequest{}, nil)
}

func (h *Handler) memberForm(c echo.Context, req model.MemberCreateRequest, fields map[string]string) error {
	candidates, err := h.svc.MemberCandidates(c.Request().Context())
	if err != nil {
		return err
	}
	page := view.Page{Title: "Add member", Form: req, Data: candidates}
	if fields != nil {
		return h.formPage(c, "member_form.html", page, fields)
	}
	return h.render(c, "member_form.html", page)
}

func (h *Handler) AddMember(c echo.Context) error {
	var req model.MemberCreateRequest
	fields, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	if fields != nil {
		return h.memberForm(c, req, fields)
	}
	if _, err := h.svc.AddMember(c.Request().Context(), req); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return h.memberForm(c, req, map[string]string{"user": "Select a valid choice."})
		case errors.Is(err, errs.ErrAlreadyExists):
			return h.memberForm(c, req, uniqueErrors(err))
		}
		return err
	}
	return c.Redirect(http.StatusFound, "/members/")
}

func (h *Handler) DeleteMemberPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.svc.GetMember(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.render(c, "confirm_delete.html", view.Page{
		Title:  "Delete member",
		Data:   m.Username,
		Action: c.Request().URL.Path,
		Cancel: "/members/",
	})
}

func (h *Handler) DeleteMember(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMember(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/members/")
}
