package service

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/kafka"
)

// CheckPurchase runs the purchase preconditions in order: the book must
// exist, the user must have a member profile, the type must be rent or buy.
func (s *Service) CheckPurchase(ctx context.Context, user model.User, bookID int64, purchaseType string) (model.PurchaseOption, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return model.PurchaseOption{}, err
	}
	member, err := s.Profile(ctx, user)
	if err != nil {
		return model.PurchaseOption{}, err
	}
	typ, ok := model.ParsePurchaseType(purchaseType)
	if !ok {
		return model.PurchaseOption{}, errs.ErrInvalidPurchaseType
	}
	return model.PurchaseOption{Book: book, Member: member, Type: typ}, nil
}

// Purchase records the purchase and, for a rental, takes a copy off the
// shelf. The event is published after the commit; a failed publish is logged
// and does not fail the purchase.
func (s *Service) Purchase(ctx context.Context, user model.User, bookID int64, purchaseType string) (model.Purchase, error) {
	opt, err := s.CheckPurchase(ctx, user, bookID, purchaseType)
	if err != nil {
		return model.Purchase{}, err
	}
	p, err := s.repo.CreatePurchase(ctx, opt.Member.ID, opt.Book.ID, opt.Type)
	if err != nil {
		return model.Purchase{}, errors.Wrapf(err, "purchase book %d", bookID)
	}
	s.log.Info("purchase",
		zap.Int64("purchase_id", p.ID),
		zap.Int64("book_id", p.BookID),
		zap.String("username", user.Username),
		zap.String("type", string(p.Type)))

	if s.publisher != nil {
		event := model.PurchaseEvent{
			PurchaseID:   p.ID,
			MemberID:     p.MemberID,
			UserName:     user.Username,
			BookID:       p.BookID,
			ISBN:         opt.Book.ISBN,
			Type:         p.Type,
			PurchaseDate: p.PurchaseDate,
		}
		if err := s.publisher.Publish(ctx, kafka.PurchaseTopic, strconv.FormatInt(p.BookID, 10), event); err != nil {
			s.log.Warn("publish purchase event", zap.Int64("purchase_id", p.ID), zap.Error(err))
		}
	}
	return p, nil
}

// MemberDashboard loads the catalog and, when the user has a member
// profile, its purchase history.
func (s *Service) MemberDashboard(ctx context.Context, user model.User) (model.MemberDashboard, error) {
	var dash model.MemberDashboard
	member, err := s.Profile(ctx, user)
	switch {
	case err == nil:
		dash.Member = &member
	case !errors.Is(err, errs.ErrPermissionDenied):
		return model.MemberDashboard{}, err
	}

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		books, err := s.repo.ListBooks(ctx)
		if err != nil {
			return err
		}
		dash.Books = books
		return nil
	})
	if dash.Member != nil {
		memberID := dash.Member.ID
		gg.Go(func() error {
			purchases, err := s.repo.ListMemberPurchases(ctx, memberID)
			if err != nil {
				return err
			}
			dash.Purchases = purchases
			return nil
		})
	}
	if err := gg.Wait(); err != nil {
		return model.MemberDashboard{}, err
	}
	return dash, nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	return s.repo.Stats(ctx)
}
