package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/view"
)

// bookRoutes serves the catalog screens under one prefix. home is where a
// successful write lands.
type bookRoutes struct {
	h    *Handler
	base string
	home string
}

func (r bookRoutes) register(g *echo.Group, gate echo.MiddlewareFunc) {
	g.GET(r.base, r.list, gate)
	g.GET(r.base+"add/", r.addPage, gate)
	g.POST(r.base+"add/", r.add, gate)
	g.GET(r.base+"edit/:id/", r.editPage, gate)
	g.POST(r.base+"edit/:id/", r.edit, gate)
	g.GET(r.base+"delete/:id/", r.deletePage, gate)
	g.POST(r.base+"delete/:id/", r.delete, gate)
}

func (r bookRoutes) list(c echo.Context) error {
	books, err := r.h.svc.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return r.h.render(c, "books.html", view.Page{Title: "Books", Data: books, Base: r.base})
}

func (r bookRoutes) formPage(c echo.Context, title string, req model.BookRequest, fields map[string]string) error {
	page := view.Page{
		Title:  title,
		Form:   req,
		Base:   r.base,
		Action: c.Request().URL.Path,
		Cancel: r.home,
	}
	if fields != nil {
		return r.h.formPage(c, "book_form.html", page, fields)
	}
	return r.h.render(c, "book_form.html", page)
}

func (r bookRoutes) addPage(c echo.Context) error {
	return r.formPage(c, "Add book", model.BookRequest{}, nil)
}

func (r bookRoutes) add(c echo.Context) error {
	var req model.BookRequest
	fields, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	if fields != nil {
		return r.formPage(c, "Add book", req, fields)
	}
	if _, err := r.h.svc.CreateBook(c.Request().Context(), req); err != nil {
		if fields := uniqueErrors(err); fields != nil {
			return r.formPage(c, "Add book", req, fields)
		}
		return err
	}
	return c.Redirect(http.StatusFound, r.home)
}

func (r bookRoutes) editPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	book, err := r.h.svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return r.formPage(c, "Edit book", model.BookRequestFrom(book), nil)
}

func (r bookRoutes) edit(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req model.BookRequest
	fields, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	if fields != nil {
		return r.formPage(c, "Edit book", req, fields)
	}
	if _, err := r.h.svc.UpdateBook(c.Request().Context(), id, req); err != nil {
		if fields := uniqueErrors(err); fields != nil {
			return r.formPage(c, "Edit book", req, fields)
		}
		return err
	}
	return c.Redirect(http.StatusFound, r.home)
}

func (r bookRoutes) deletePage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	book, err := r.h.svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return r.h.render(c, "confirm_delete.html", view.Page{
		Title:  "Delete book",
		Data:   book.Title,
		Action: c.Request().URL.Path,
		Cancel: r.home,
	})
}

func (r bookRoutes) delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := r.h.svc.DeleteBook(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, r.home)
}
