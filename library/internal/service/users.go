package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
)

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx, repository.UserFilter{})
}

func (s *Service) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}
	user := model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		IsLibrarian:  req.IsLibrarian,
		IsAdmin:      req.IsAdmin,
	}
	created, err := s.repo.CreateUser(ctx, user, false)
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// UpdateUser writes the flags as given; it does not reconcile them with
// librarian or member records.
func (s *Service) UpdateUser(ctx context.Context, id int64, req model.UserUpdateRequest) (model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	return s.repo.UpdateUser(ctx, id, req)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int64("id", id))
	return nil
}

func (s *Service) GetLibrarian(ctx context.Context, id int64) (model.LibrarianView, error) {
	return s.repo.GetLibrarian(ctx, id)
}

func (s *Service) ListLibrarians(ctx context.Context) ([]model.LibrarianView, error) {
	return s.repo.ListLibrarians(ctx)
}

// LibrarianCandidates lists users that may be promoted to librarian.
func (s *Service) LibrarianCandidates(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx, repository.UserFilter{NotLibrarian: true})
}

// AddLibrarian promotes an existing user: the librarian record and the
// is_librarian flag are written together.
func (s *Service) AddLibrarian(ctx context.Context, req model.LibrarianCreateRequest) (model.Librarian, error) {
	lib, err := s.repo.CreateLibrarian(ctx, model.Librarian{
		UserID:        req.UserID,
		EmployeeID:    strings.TrimSpace(req.EmployeeID),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
	})
	if err != nil {
		return model.Librarian{}, fmt.Errorf("add librarian: %w", err)
	}
	s.log.Info("librarian added", zap.Int64("user_id", lib.UserID), zap.String("employee_id", lib.EmployeeID))
	return lib, nil
}

// DeleteLibrarian removes the record only; the user keeps is_librarian.
func (s *Service) DeleteLibrarian(ctx context.Context, id int64) error {
	return s.repo.DeleteLibrarian(ctx, id)
}

func (s *Service) GetMember(ctx context.Context, id int64) (model.MemberView, error) {
	return s.repo.GetMember(ctx, id)
}

func (s *Service) ListMembers(ctx context.Context) ([]model.MemberView, error) {
	return s.repo.ListMembers(ctx)
}

// MemberCandidates lists users without a member profile.
func (s *Service) MemberCandidates(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx, repository.UserFilter{WithoutMember: true})
}

func (s *Service) AddMember(ctx context.Context, req model.MemberCreateRequest) (model.Member, error) {
	member := model.Member{UserID: req.UserID}
	if bio := strings.TrimSpace(req.Bio); bio != "" {
		member.Bio = &bio
	}
	created, err := s.repo.CreateMember(ctx, member)
	if err != nil {
		return model.Member{}, fmt.Errorf("add member: %w", err)
	}
	return created, nil
}

func (s *Service) DeleteMember(ctx context.Context, id int64) error {
	return s.repo.DeleteMember(ctx, id)
}

// Profile returns the member profile of the user, ErrPermissionDenied if
// there is none.
func (s *Service) Profile(ctx context.Context, user model.User) (model.Member, error) {
	member, err := s.repo.GetMemberByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Member{}, errs.ErrPermissionDenied
		}
		return model.Member{}, err
	}
	return member, nil
}

func (s *Service) UpdateProfile(ctx context.Context, user model.User, req model.ProfileRequest) error {
	member, err := s.Profile(ctx, user)
	if err != nil {
		return err
	}
	return s.repo.UpdateMemberBio(ctx, member.ID, strings.TrimSpace(req.Bio))
}
