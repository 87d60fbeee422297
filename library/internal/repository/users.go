package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var userColumns = []string{
	"id", "username", "email", "password_hash",
	"is_librarian", "is_admin", "is_superuser", "date_joined",
}

// CreateUser inserts the user and, when withMember is set, its member
// profile in the same transaction.
func (r *repository) CreateUser(ctx context.Context, user model.User, withMember bool) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("username", "email", "password_hash", "is_librarian", "is_admin", "is_superuser").
		Values(user.Username, user.Email, user.PasswordHash, user.IsLibrarian, user.IsAdmin, user.IsSuperuser).
		Suffix("returning " + columns(userColumns)).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var created model.User
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		u, err := getOne[model.User](ctx, tx, query, args...)
		if err != nil {
			return err
		}
		created = u
		if !withMember {
			return nil
		}
		if _, err := tx.Exec(ctx, `insert into members (user_id) values ($1)`, u.ID); err != nil {
			return mapError(err)
		}
		return nil
	})
	if err != nil {
		r.log.Debug("CreateUser", zap.String("username", user.Username), zap.Error(err))
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return getOne[model.User](ctx, r.db, query, args...)
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return getOne[model.User](ctx, r.db, query, args...)
}

func (r *repository) ListUsers(ctx context.Context, filter UserFilter) ([]model.User, error) {
	q := qb.Select(prefixed("u", userColumns)...).
		From(usersTableName + " u").
		OrderBy("u.username")
	if filter.NotLibrarian {
		q = q.Where(sq.Eq{"u.is_librarian": false})
	}
	if filter.WithoutMember {
		q = q.Where("not exists (select 1 from " + membersTableName + " m where m.user_id = u.id)")
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return getMany[model.User](ctx, r.db, query, args...)
}

func (r *repository) UpdateUser(ctx context.Context, id int64, req model.UserUpdateRequest) (model.User, error) {
	query, args, err := qb.Update(usersTableName).
		SetMap(map[string]interface{}{
			"username":     req.Username,
			"email":        req.Email,
			"is_librarian": req.IsLibrarian,
			"is_admin":     req.IsAdmin,
		}).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + columns(userColumns)).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return getOne[model.User](ctx, r.db, query, args...)
}

// DeleteUser removes the user; librarian, member and purchase rows go with it.
func (r *repository) DeleteUser(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(usersTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.db, query, args...)
}

// CreateLibrarian attaches a librarian record to a user that is not yet a
// librarian and raises the user's flag in one transaction.
func (r *repository) CreateLibrarian(ctx context.Context, librarian model.Librarian) (model.Librarian, error) {
	var created model.Librarian
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var isLibrarian bool
		err := tx.QueryRow(ctx,
			`select is_librarian from users where id = $1 for update`, librarian.UserID,
		).Scan(&isLibrarian)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if isLibrarian {
			return &errs.UniqueViolation{Field: "user"}
		}

		query, args, err := qb.Insert(librariansTableName).
			Columns("user_id", "employee_id", "contact_number").
			Values(librarian.UserID, librarian.EmployeeID, librarian.ContactNumber).
			Suffix("returning id, user_id, employee_id, contact_number").
			ToSql()
		if err != nil {
			return err
		}
		if created, err = getOne[model.Librarian](ctx, tx, query, args...); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `update users set is_librarian = true where id = $1`, librarian.UserID)
		return err
	})
	if err != nil {
		return model.Librarian{}, err
	}
	return created, nil
}

func librarianViews() sq.SelectBuilder {
	return qb.Select("l.id", "l.user_id", "l.employee_id", "l.contact_number", "u.username", "u.email").
		From(librariansTableName + " l").
		Join(usersTableName + " u on u.id = l.user_id")
}

func (r *repository) GetLibrarian(ctx context.Context, id int64) (model.LibrarianView, error) {
	query, args, err := librarianViews().Where(sq.Eq{"l.id": id}).ToSql()
	if err != nil {
		return model.LibrarianView{}, err
	}
	return getOne[model.LibrarianView](ctx, r.db, query, args...)
}

func (r *repository) ListLibrarians(ctx context.Context) ([]model.LibrarianView, error) {
	query, args, err := librarianViews().OrderBy("u.username").ToSql()
	if err != nil {
		return nil, err
	}
	return getMany[model.LibrarianView](ctx, r.db, query, args...)
}

// DeleteLibrarian removes only the extension record; users.is_librarian is left as is.
func (r *repository) DeleteLibrarian(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(librariansTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.db, query, args...)
}
