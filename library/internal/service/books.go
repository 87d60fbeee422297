package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	book, err := req.Book()
	if err != nil {
		return model.Book{}, fmt.Errorf("publication date: %w", err)
	}
	created, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return model.Book{}, fmt.Errorf("create book: %w", err)
	}
	s.log.Info("book created", zap.Int64("id", created.ID), zap.String("isbn", created.ISBN))
	return created, nil
}

func (s *Service) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error) {
	book, err := req.Book()
	if err != nil {
		return model.Book{}, fmt.Errorf("publication date: %w", err)
	}
	updated, err := s.repo.UpdateBook(ctx, id, book)
	if err != nil {
		return model.Book{}, fmt.Errorf("update book %d: %w", id, err)
	}
	return updated, nil
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.log.Info("book deleted", zap.Int64("id", id))
	return nil
}
