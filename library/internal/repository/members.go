package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/library-management/library/internal/model"
)

var memberColumns = []string{"id", "user_id", "profile_picture", "bio"}

func (r *repository) CreateMember(ctx context.Context, member model.Member) (model.Member, error) {
	query, args, err := qb.Insert(membersTableName).
		Columns("user_id", "profile_picture", "bio").
		Values(member.UserID, member.ProfilePicture, member.Bio).
		Suffix("returning " + columns(memberColumns)).
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	return getOne[model.Member](ctx, r.db, query, args...)
}

func (r *repository) GetMemberByUserID(ctx context.Context, userID int64) (model.Member, error) {
	query, args, err := qb.Select(memberColumns...).
		From(membersTableName).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	return getOne[model.Member](ctx, r.db, query, args...)
}

func (r *repository) UpdateMemberBio(ctx context.Context, id int64, bio string) error {
	query, args, err := qb.Update(membersTableName).
		Set("bio", bio).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.db, query, args...)
}

func memberViews() sq.SelectBuilder {
	return qb.Select(append(prefixed("m", memberColumns), "u.username", "u.email")...).
		From(membersTableName + " m").
		Join(usersTableName + " u on u.id = m.user_id")
}

func (r *repository) GetMember(ctx context.Context, id int64) (model.MemberView, error) {
	query, args, err := memberViews().Where(sq.Eq{"m.id": id}).ToSql()
	if err != nil {
		return model.MemberView{}, err
	}
	return getOne[model.MemberView](ctx, r.db, query, args...)
}

func (r *repository) ListMembers(ctx context.Context) ([]model.MemberView, error) {
	query, args, err := memberViews().OrderBy("u.username").ToSql()
	if err != nil {
		return nil, err
	}
	return getMany[model.MemberView](ctx, r.db, query, args...)
}

// DeleteMember removes the profile and, through the foreign key, its purchases.
func (r *repository) DeleteMember(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(membersTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.db, query, args...)
}
