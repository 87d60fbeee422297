package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// dummyHash is compared against when the username is unknown so that the
// response takes as long as a wrong password does.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// Login checks the credentials and the claimed role. Every failure, whether
// unknown user, wrong password or role mismatch, is the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
			return model.Session{}, errs.ErrInvalidCredentials
		}
		return model.Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Debug("login: password mismatch", zap.String("username", user.Username))
		return model.Session{}, errs.ErrInvalidCredentials
	}
	if !user.CanLoginAs(req.Role) {
		s.log.Debug("login: role mismatch",
			zap.String("username", user.Username),
			zap.String("role", req.Role))
		return model.Session{}, errs.ErrInvalidCredentials
	}
	role, _ := model.ParseRole(req.Role)

	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{
		User:      user,
		Role:      role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// SessionUser resolves a session token to the current state of its user.
func (s *Service) SessionUser(ctx context.Context, token string) (model.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return model.User{}, errs.ErrUnauthenticated
	}
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errs.ErrUnauthenticated
		}
		return model.User{}, err
	}
	return user, nil
}

// Register creates a self-service account. A librarian gets the flag only;
// a member gets its profile in the same transaction.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	role, ok := model.ParseRole(req.Role)
	if !ok || role == model.RoleAdmin {
		return model.User{}, fmt.Errorf("register as %q: %w", req.Role, errs.ErrAccessDenied)
	}
	hash, err := hashPassword(req.Password1)
	if err != nil {
		return model.User{}, err
	}
	user := model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		IsLibrarian:  role == model.RoleLibrarian,
	}
	created, err := s.repo.CreateUser(ctx, user, role == model.RoleMember)
	if err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}
	s.log.Info("user registered",
		zap.Int64("id", created.ID),
		zap.String("username", created.Username),
		zap.String("role", string(role)))
	return created, nil
}

func (s *Service) CreateSuperuser(ctx context.Context, req model.SuperuserRequest) (model.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}
	user := model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		IsAdmin:      true,
		IsSuperuser:  true,
	}
	created, err := s.repo.CreateUser(ctx, user, false)
	if err != nil {
		return model.User{}, fmt.Errorf("create superuser: %w", err)
	}
	return created, nil
}
