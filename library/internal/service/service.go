package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/pkg/auth"
)

// EventPublisher delivers domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, v any) error
}

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	tokens    *auth.TokenManager
	publisher EventPublisher
}

func NewService(repo repository.Repository, tokens *auth.TokenManager, publisher EventPublisher, log *zap.Logger) *Service {
	return &Service{
		log:       log.Named("service"),
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
	}
}
