package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
)

var bookColumns = []string{
	"id", "title", "author", "isbn", "publication_date",
	"available_copies", "rent_price", "purchase_price",
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "publication_date", "available_copies", "rent_price", "purchase_price").
		Values(book.Title, book.Author, book.ISBN, book.PublicationDate, book.AvailableCopies, book.RentPrice, book.PurchasePrice).
		Suffix("returning " + columns(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return getOne[model.Book](ctx, r.db, query, args...)
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return getOne[model.Book](ctx, r.db, query, args...)
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("title", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListBooks", zap.String("query", query))
	return getMany[model.Book](ctx, r.db, query, args...)
}

// UpdateBook overwrites every editable column, available_copies included:
// the operator's value is stored as typed.
func (r *repository) UpdateBook(ctx context.Context, id int64, book model.Book) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		SetMap(map[string]interface{}{
			"title":            book.Title,
			"author":           book.Author,
			"isbn":             book.ISBN,
			"publication_date": book.PublicationDate,
			"available_copies": book.AvailableCopies,
			"rent_price":       book.RentPrice,
			"purchase_price":   book.PurchasePrice,
		}).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + columns(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return getOne[model.Book](ctx, r.db, query, args...)
}

// DeleteBook removes the book and, through the foreign key, its purchases.
func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.db, query, args...)
}
