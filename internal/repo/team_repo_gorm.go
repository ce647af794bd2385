package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"member-management/internal/domain"
	"member-management/internal/feature/team"
	"member-management/internal/feature/user"
)

// TeamRepo 软删记录由 gorm.DeletedAt 自动过滤
type TeamRepo struct{ db *gorm.DB }

func NewTeamRepo(db *gorm.DB) *TeamRepo { return &TeamRepo{db: db} }

func (r *TeamRepo) ExistsByNameAndNotDeleted(ctx context.Context, name string) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&team.TeamModel{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

func (r *TeamRepo) ExistsByNameAndNotDeletedAndIDNot(ctx context.Context, name string, id int64) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&team.TeamModel{}).
		Where("name = ? AND id <> ?", name, id).
		Count(&n).Error
	return n > 0, err
}

func (r *TeamRepo) FindByIDAndNotDeleted(ctx context.Context, id int64) (*domain.Team, error) {
	var m team.TeamModel
	err := conn(ctx, r.db).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := team.ToDomain(&m)
	return &t, nil
}

// Save ID 为 0 时插入，否则整行更新（含 deleted_at，用于软删）
func (r *TeamRepo) Save(ctx context.Context, t *domain.Team) (*domain.Team, error) {
	m := team.ToModel(t)
	db := conn(ctx, r.db)

	if m.ID == 0 {
		if err := db.Create(m).Error; err != nil {
			return nil, translate(err)
		}
		out := team.ToDomain(m)
		return &out, nil
	}

	res := db.Model(&team.TeamModel{}).Where("id = ?", m.ID).Updates(map[string]any{
		"name":        m.Name,
		"description": m.Description,
		"updated_at":  m.UpdatedAt,
		"deleted_at":  m.DeletedAt,
	})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFoundID("Team", m.ID)
	}
	out := team.ToDomain(m)
	return &out, nil
}

func (r *TeamRepo) List(ctx context.Context, offset, limit int) ([]domain.Team, int64, error) {
	offset, limit = clampPage(offset, limit)
	q := conn(ctx, r.db).Model(&team.TeamModel{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []team.TeamModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Team, 0, len(ms))
	for i := range ms {
		out = append(out, team.ToDomain(&ms[i]))
	}
	return out, total, nil
}

type MembershipRepo struct{ db *gorm.DB }

func NewMembershipRepo(db *gorm.DB) *MembershipRepo { return &MembershipRepo{db: db} }

func (r *MembershipRepo) Exists(ctx context.Context, teamID, userID int64) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&team.MemberModel{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *MembershipRepo) Add(ctx context.Context, m *domain.Membership) error {
	return translate(conn(ctx, r.db).Create(team.MemberToModel(m)).Error)
}

// Remove 成员关系物理删除
func (r *MembershipRepo) Remove(ctx context.Context, teamID, userID int64) (bool, error) {
	res := conn(ctx, r.db).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&team.MemberModel{})
	return res.RowsAffected > 0, res.Error
}

// ListUsers 按加入时间排序；已软删的用户不返回
func (r *MembershipRepo) ListUsers(ctx context.Context, teamID int64) ([]domain.User, error) {
	var us []user.UserModel
	err := conn(ctx, r.db).Model(&user.UserModel{}).
		Joins("JOIN team_members tm ON tm.user_id = users.id").
		Where("tm.team_id = ?", teamID).
		Order("tm.created_at ASC").
		Find(&us).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(us))
	for i := range us {
		out = append(out, user.ToDomain(&us[i]))
	}
	return out, nil
}
