package model

import (
	"strings"
	"time"
)

type LoginRequest struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role" validate:"required"`
}

type RegisterRequest struct {
	Username  string `form:"username" validate:"required,max=150"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
	Role      string `form:"role" validate:"required,oneof=member librarian"`
}

type UserCreateRequest struct {
	Username    string `form:"username" validate:"required,max=150"`
	Email       string `form:"email" validate:"required,email,max=254"`
	Password    string `form:"password" validate:"required"`
	IsLibrarian bool   `form:"is_librarian"`
	IsAdmin     bool   `form:"is_admin"`
}

// UserUpdateRequest carries no password; it is only set on create.
type UserUpdateRequest struct {
	Username    string `form:"username" validate:"required,max=150"`
	Email       string `form:"email" validate:"required,email,max=254"`
	IsLibrarian bool   `form:"is_librarian"`
	IsAdmin     bool   `form:"is_admin"`
}

func UserUpdateFrom(u User) UserUpdateRequest {
	return UserUpdateRequest{
		Username:    u.Username,
		Email:       u.Email,
		IsLibrarian: u.IsLibrarian,
		IsAdmin:     u.IsAdmin,
	}
}

type SuperuserRequest struct {
	Username string `validate:"required,max=150"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required"`
}

type LibrarianCreateRequest struct {
	UserID        int64  `form:"user" validate:"required"`
	EmployeeID    string `form:"employee_id" validate:"required,max=10"`
	ContactNumber string `form:"contact_number" validate:"required,max=15"`
}

type MemberCreateRequest struct {
	UserID int64  `form:"user" validate:"required"`
	Bio    string `form:"bio"`
}

type ProfileRequest struct {
	Bio string `form:"bio"`
}

type BookRequest struct {
	Title           string  `form:"title" validate:"required,max=255"`
	Author          string  `form:"author" validate:"required,max=255"`
	ISBN            string  `form:"isbn" validate:"required,max=13"`
	PublicationDate string  `form:"publication_date" validate:"required,datetime=2006-01-02"`
	AvailableCopies int     `form:"available_copies" validate:"gte=0"`
	RentPrice       float64 `form:"rent_price" validate:"gte=0"`
	PurchasePrice   float64 `form:"purchase_price" validate:"gte=0"`
}

func BookRequestFrom(b Book) BookRequest {
	return BookRequest{
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate.Format(time.DateOnly),
		AvailableCopies: b.AvailableCopies,
		RentPrice:       b.RentPrice,
		PurchasePrice:   b.PurchasePrice,
	}
}

// Book converts a validated request; the date must already be well formed.
func (r BookRequest) Book() (Book, error) {
	date, err := time.Parse(time.DateOnly, r.PublicationDate)
	if err != nil {
		return Book{}, err
	}
	return Book{
		Title:           strings.TrimSpace(r.Title),
		Author:          strings.TrimSpace(r.Author),
		ISBN:            strings.TrimSpace(r.ISBN),
		PublicationDate: date,
		AvailableCopies: r.AvailableCopies,
		RentPrice:       r.RentPrice,
		PurchasePrice:   r.PurchasePrice,
	}, nil
}
