package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/view"
)

func (h *Handler) MemberDashboard(c echo.Context) error {
	dash, err := h.svc.MemberDashboard(c.Request().Context(), *currentUser(c))
	if err != nil {
		return err
	}
	return h.render(c, "member_dashboard.html", view.Page{Title: "Member dashboard", Data: dash})
}

func (h *Handler) LibrarianDashboard(c echo.Context) error {
	books, err := h.svc.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, "librarian_dashboard.html", view.Page{
		Title: "Librarian dashboard",
		Data:  books,
		Base:  "/librarian/books/",
	})
}

func (h *Handler) ProfilePage(c echo.Context) error {
	member, err := h.svc.Profile(c.Request().Context(), *currentUser(c))
	if err != nil {
		return err
	}
	req := model.ProfileRequest{}
	if member.Bio != nil {
		req.Bio = *member.Bio
	}
	return h.render(c, "profile.html", view.Page{Title: "Profile", Form: req})
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req model.ProfileRequest
	fields, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	if fields != nil {
		return h.formPage(c, "profile.html", view.Page{Title: "Profile", Form: req}, fields)
	}
	if err := h.svc.UpdateProfile(c.Request().Context(), *currentUser(c), req); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/member/")
}

func (h *Handler) purchaseParams(c echo.Context) (int64, string, error) {
	bookID, err := paramID(c, "book_id")
	if err != nil {
		return 0, "", err
	}
	return bookID, c.Param("purchase_type"), nil
}

// PurchasePage asks for confirmation. The preconditions are checked here
// too, so an ineligible caller never sees the form.
func (h *Handler) PurchasePage(c echo.Context) error {
	bookID, typ, err := h.purchaseParams(c)
	if err != nil {
		return err
	}
	opt, err := h.svc.CheckPurchase(c.Request().Context(), *currentUser(c), bookID, typ)
	if err != nil {
		return err
	}
	return h.render(c, "purchase_confirm.html", view.Page{
		Title:  "Confirm purchase",
		Data:   opt,
		Action: c.Request().URL.Path,
	})
}

func (h *Handler) Purchase(c echo.Context) error {
	bookID, typ, err := h.purchaseParams(c)
	if err != nil {
		return err
	}
	if _, err := h.svc.Purchase(c.Request().Context(), *currentUser(c), bookID, typ); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/member/")
}
