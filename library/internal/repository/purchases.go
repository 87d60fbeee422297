package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var purchaseColumns = []string{"id", "member_id", "book_id", "purchase_type", "purchase_date"}

// CreatePurchase records the purchase. A rental takes one copy off the shelf
// in the same transaction; the conditional update makes the last copy go to
// exactly one renter and keeps available_copies from going negative.
func (r *repository) CreatePurchase(ctx context.Context, memberID, bookID int64, purchaseType model.PurchaseType) (model.Purchase, error) {
	query, args, err := qb.Insert(purchasesTableName).
		Columns("member_id", "book_id", "purchase_type", "purchase_date").
		Values(memberID, bookID, string(purchaseType), sq.Expr("now()")).
		Suffix("returning " + columns(purchaseColumns)).
		ToSql()
	if err != nil {
		return model.Purchase{}, err
	}

	var created model.Purchase
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if purchaseType.ChangesInventory() {
			tag, err := tx.Exec(ctx, `
update books
    set available_copies = available_copies - 1
where id = @book_id and available_copies > 0`,
				pgx.NamedArgs{"book_id": bookID})
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return errs.ErrNoCopiesAvailable
			}
		}
		p, err := getOne[model.Purchase](ctx, tx, query, args...)
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		r.log.Debug("CreatePurchase",
			zap.Int64("member_id", memberID),
			zap.Int64("book_id", bookID),
			zap.String("type", string(purchaseType)),
			zap.Error(err))
		return model.Purchase{}, err
	}
	return created, nil
}

func (r *repository) ListMemberPurchases(ctx context.Context, memberID int64) ([]model.PurchaseView, error) {
	query, args, err := qb.Select(append(prefixed("p", purchaseColumns), "b.title as book_title")...).
		From(purchasesTableName+" p").
		Join(booksTableName+" b on b.id = p.book_id").
		Where(sq.Eq{"p.member_id": memberID}).
		OrderBy("p.purchase_date desc", "p.id desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	return getMany[model.PurchaseView](ctx, r.db, query, args...)
}

func (r *repository) Stats(ctx context.Context) (model.Stats, error) {
	const q = `
select (select count(*) from users)      as users,
       (select count(*) from librarians) as librarians,
       (select count(*) from members)    as members,
       (select count(*) from books)      as books,
       (select count(*) from purchases)  as purchases`
	return getOne[model.Stats](ctx, r.db, q)
}
