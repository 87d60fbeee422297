package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateUser(ctx context.Context, user model.User, withMember bool) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, req model.UserUpdateRequest) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateLibrarian(ctx context.Context, librarian model.Librarian) (model.Librarian, error)
	GetLibrarian(ctx context.Context, id int64) (model.LibrarianView, error)
	ListLibrarians(ctx context.Context) ([]model.LibrarianView, error)
	DeleteLibrarian(ctx context.Context, id int64) error

	CreateMember(ctx context.Context, member model.Member) (model.Member, error)
	GetMember(ctx context.Context, id int64) (model.MemberView, error)
	GetMemberByUserID(ctx context.Context, userID int64) (model.Member, error)
	UpdateMemberBio(ctx context.Context, id int64, bio string) error
	ListMembers(ctx context.Context) ([]model.MemberView, error)
	DeleteMember(ctx context.Context, id int64) error

	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id int64, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	CreatePurchase(ctx context.Context, memberID, bookID int64, purchaseType model.PurchaseType) (model.Purchase, error)
	ListMemberPurchases(ctx context.Context, memberID int64) ([]model.PurchaseView, error)
	Stats(ctx context.Context) (model.Stats, error)
}

// UserFilter narrows ListUsers to candidates for an extension record.
type UserFilter struct {
	NotLibrarian  bool
	WithoutMember bool
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	if db == nil {
		return nil, errors.New("nil pool")
	}
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName      = `users`
	librariansTableName = `librarians`
	membersTableName    = `members`
	booksTableName      = `books`
	purchasesTableName  = `purchases`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func getOne[T any](ctx context.Context, q querier, query string, args ...any) (T, error) {
	var zero T
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, mapError(err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, errs.ErrNotFound
		}
		return zero, mapError(err)
	}
	return item, nil
}

func getMany[T any](ctx context.Context, q querier, query string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return items, nil
}

func execAffecting(ctx context.Context, q querier, query string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// uniqueFields maps unique constraints to the form field they guard.
var uniqueFields = map[string]string{
	"users_username_key":         "username",
	"users_email_key":            "email",
	"books_isbn_key":             "isbn",
	"librarians_employee_id_key": "employee_id",
	"librarians_user_id_key":     "user",
	"members_user_id_key":        "user",
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field, ok := uniqueFields[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
		}
		return &errs.UniqueViolation{Field: field}
	case pgerrcode.ForeignKeyViolation:
		return errs.ErrNotFound
	}
	return err
}

func columns(cols []string) string {
	return strings.Join(cols, ", ")
}

func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
