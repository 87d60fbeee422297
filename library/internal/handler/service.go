package handler

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	Login(ctx context.Context, req model.LoginRequest) (model.Session, error)
	SessionUser(ctx context.Context, token string) (model.User, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	CreateUser(ctx context.Context, req model.UserCreateRequest) (model.User, error)
	UpdateUser(ctx context.Context, id int64, req model.UserUpdateRequest) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error

	GetLibrarian(ctx context.Context, id int64) (model.LibrarianView, error)
	ListLibrarians(ctx context.Context) ([]model.LibrarianView, error)
	LibrarianCandidates(ctx context.Context) ([]model.User, error)
	AddLibrarian(ctx context.Context, req model.LibrarianCreateRequest) (model.Librarian, error)
	DeleteLibrarian(ctx context.Context, id int64) error

	GetMember(ctx context.Context, id int64) (model.MemberView, error)
	ListMembers(ctx context.Context) ([]model.MemberView, error)
	MemberCandidates(ctx context.Context) ([]model.User, error)
	AddMember(ctx context.Context, req model.MemberCreateRequest) (model.Member, error)
	DeleteMember(ctx context.Context, id int64) error
	Profile(ctx context.Context, user model.User) (model.Member, error)
	UpdateProfile(ctx context.Context, user model.User, req model.ProfileRequest) error

	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	CheckPurchase(ctx context.Context, user model.User, bookID int64, purchaseType string) (model.PurchaseOption, error)
	Purchase(ctx context.Context, user model.User, bookID int64, purchaseType string) (model.Purchase, error)
	MemberDashboard(ctx context.Context, user model.User) (model.MemberDashboard, error)
	Stats(ctx context.Context) (model.Stats, error)
}

var _ LibraryService = (*service.Service)(nil)
