package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/server"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/internal/view"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/Astemirdum/library-management/pkg/validate"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
	} else {
		log.Info("kafka disabled: purchase events are not published")
	}
	publisher := kafka.NewPublisher(producer, log)

	tokens := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL)
	svc := service.NewService(repo, tokens, publisher, log)

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal("view.NewRenderer", zap.Error(err))
	}
	h := handler.New(svc, cfg.Session, renderer, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = publisher.Close(); err != nil {
		log.Error("publisher.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}

// Migrate applies pending migrations and exits.
func Migrate(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return err
	}
	db.Close()
	return nil
}

// SuperuserRequest is re-exported so callers outside library/ (cmd/library)
// can build the request without importing the internal model package.
type SuperuserRequest = model.SuperuserRequest

// CreateSuperuser adds a user with full admin rights. No HTTP route can set
// is_superuser, so this is how the first administrator is made.
func CreateSuperuser(ctx context.Context, cfg *config.Config, req model.SuperuserRequest) (model.User, error) {
	if err := validate.NewCustomValidator().Validate(req); err != nil {
		return model.User{}, err
	}
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return model.User{}, err
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return model.User{}, err
	}
	user, err := service.NewService(repo, nil, nil, log).CreateSuperuser(ctx, req)
	if err != nil {
		return model.User{}, errors.Wrap(err, "create superuser")
	}
	return user, nil
}
