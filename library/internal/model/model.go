package model

import (
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsLibrarian  bool      `json:"isLibrarian" db:"is_librarian"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
	IsSuperuser  bool      `json:"isSuperuser" db:"is_superuser"`
	DateJoined   time.Time `json:"dateJoined" db:"date_joined"`
}

type Librarian struct {
	ID            int64  `json:"id" db:"id"`
	UserID        int64  `json:"userId" db:"user_id"`
	EmployeeID    string `json:"employeeId" db:"employee_id"`
	ContactNumber string `json:"contactNumber" db:"contact_number"`
}

// LibrarianView is a Librarian joined with its user for listings.
type LibrarianView struct {
	Librarian `json:",inline"`
	Username  string `json:"username" db:"username"`
	Email     string `json:"email" db:"email"`
}

type Member struct {
	ID             int64   `json:"id" db:"id"`
	UserID         int64   `json:"userId" db:"user_id"`
	ProfilePicture *string `json:"profilePicture" db:"profile_picture"`
	Bio            *string `json:"bio" db:"bio"`
}

type MemberView struct {
	Member   `json:",inline"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
}

type Book struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	ISBN            string    `json:"isbn" db:"isbn"`
	PublicationDate time.Time `json:"publicationDate" db:"publication_date"`
	AvailableCopies int       `json:"availableCopies" db:"available_copies"`
	RentPrice       float64   `json:"rentPrice" db:"rent_price"`
	PurchasePrice   float64   `json:"purchasePrice" db:"purchase_price"`
}

type Purchase struct {
	ID           int64        `json:"id" db:"id"`
	MemberID     int64        `json:"memberId" db:"member_id"`
	BookID       int64        `json:"bookId" db:"book_id"`
	Type         PurchaseType `json:"purchaseType" db:"purchase_type"`
	PurchaseDate time.Time    `json:"purchaseDate" db:"purchase_date"`
}

// PurchaseView is a purchase with the title of the book it refers to.
type PurchaseView struct {
	Purchase  `json:",inline"`
	BookTitle string `json:"bookTitle" db:"book_title"`
}

type PurchaseEvent struct {
	PurchaseID   int64        `json:"purchaseId"`
	MemberID     int64        `json:"memberId"`
	UserName     string       `json:"username"`
	BookID       int64        `json:"bookId"`
	ISBN         string       `json:"isbn"`
	Type         PurchaseType `json:"purchaseType"`
	PurchaseDate time.Time    `json:"purchaseDate"`
}

type Stats struct {
	Users      int `json:"users" db:"users"`
	Librarians int `json:"librarians" db:"librarians"`
	Members    int `json:"members" db:"members"`
	Books      int `json:"books" db:"books"`
	Purchases  int `json:"purchases" db:"purchases"`
}

// Session is the outcome of a successful login.
type Session struct {
	User      User
	Role      Role
	Token     string
	ExpiresAt time.Time
}

type MemberDashboard struct {
	Books     []Book
	Purchases []PurchaseView
	Member    *Member
}
