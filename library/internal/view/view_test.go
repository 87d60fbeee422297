package view_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/view"
)

func TestRenderer_Pages(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)

	user := &model.User{ID: 1, Username: "alice", IsSuperuser: true}
	book := model.Book{ID: 3, Title: "Dune", ISBN: "1234567890123", PublicationDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC), RentPrice: 1.5}
	bio := "reader"

	tests := []struct {
		name     string
		page     view.Page
		contains []string
	}{
		{
			name:     "login.html",
			page:     view.Page{Title: "Log in", Form: model.LoginRequest{Username: "bob", Role: "member"}, Error: "Invalid username, password, or role."},
			contains: []string{`value="bob"`, "Invalid username, password, or role.", `value="member" selected`},
		},
		{
			name:     "register.html",
			page:     view.Page{Form: model.RegisterRequest{}, Errors: map[string]string{"email": "Enter a valid email address."}},
			contains: []string{"Enter a valid email address."},
		},
		{
			name:     "books.html",
			page:     view.Page{User: user, Base: "/admin/books/", Data: []model.Book{book}},
			contains: []string{"/admin/books/edit/3/", "1965-08-01", "1.50", "Signed in as"},
		},
		{
			name:     "librarian_dashboard.html",
			page:     view.Page{User: user, Base: "/librarian/books/", Data: []model.Book{book}},
			contains: []string{"/librarian/books/delete/3/"},
		},
		{
			name:     "book_form.html",
			page:     view.Page{Form: model.BookRequestFrom(book), Action: "/books/edit/3/", Cancel: "/books/"},
			contains: []string{`action="/books/edit/3/"`, `value="1234567890123"`},
		},
		{
			name: "member_dashboard.html",
			page: view.Page{User: user, Data: model.MemberDashboard{
				Books:     []model.Book{book},
				Member:    &model.Member{ID: 1, Bio: &bio},
				Purchases: []model.PurchaseView{{Purchase: model.Purchase{Type: model.PurchaseRent}, BookTitle: "Dune"}},
			}},
			contains: []string{"/purchase/3/rent/", "Dune: rent"},
		},
		{
			name:     "member_dashboard.html",
			page:     view.Page{User: user, Data: model.MemberDashboard{}},
			contains: []string{"purchases are disabled"},
		},
		{
			name:     "members.html",
			page:     view.Page{Data: []model.MemberView{{Member: model.Member{ID: 2, Bio: &bio}, Username: "carol"}}},
			contains: []string{"carol", "reader", "/members/delete/2/"},
		},
		{
			name:     "librarian_form.html",
			page:     view.Page{Form: model.LibrarianCreateRequest{UserID: 4}, Data: []model.User{{ID: 4, Username: "dave"}}},
			contains: []string{`value="4" selected`},
		},
		{
			name:     "user_form.html",
			page:     view.Page{Form: model.UserUpdateRequest{IsAdmin: true}, Data: true, Action: "/users/edit/1/"},
			contains: []string{`name="is_admin" value="true" checked`},
		},
		{
			name:     "confirm_delete.html",
			page:     view.Page{Data: "Dune", Action: "/books/delete/3/", Cancel: "/books/"},
			contains: []string{`delete "Dune"?`},
		},
		{
			name:     "error.html",
			page:     view.Page{Title: "Not found", Data: view.ErrorData{Code: 404, Message: "not found"}},
			contains: []string{"404"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, tt.name, tt.page, nil))
			for _, s := range tt.contains {
				require.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)
	require.Error(t, r.Render(&bytes.Buffer{}, "nope.html", view.Page{}, nil))
}
