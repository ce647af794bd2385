package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"member-management/internal/domain"
	"member-management/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) ExistsByEmailAndNotDeleted(ctx context.Context, email string) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&user.UserModel{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) ExistsByEmailAndNotDeletedAndIDNot(ctx context.Context, email string, id int64) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&user.UserModel{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&n).Error
	return n > 0, err
}

// ExistsActiveByRole 未删除且状态为 ACTIVE
func (r *UserRepo) ExistsActiveByRole(ctx context.Context, role domain.Role) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&user.UserModel{}).
		Where("role = ? AND status = ?", string(role), string(domain.UserActive)).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) FindByIDAndNotDeleted(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByEmail 只查未删除用户（登录用）
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := conn(ctx, r.db).First(&m, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := user.ToDomain(&m)
	return &u, nil
}

func (r *UserRepo) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	m := user.ToModel(u)
	db := conn(ctx, r.db)

	if m.ID == 0 {
		if err := db.Create(m).Error; err != nil {
			return nil, translate(err)
		}
		out := user.ToDomain(m)
		return &out, nil
	}

	res := db.Model(&user.UserModel{}).Where("id = ?", m.ID).Updates(map[string]any{
		"name":          m.Name,
		"email":         m.Email,
		"password_hash": m.PasswordHash,
		"birthday":      m.Birthday,
		"role":          m.Role,
		"status":        m.Status,
		"updated_at":    m.UpdatedAt,
		"deleted_at":    m.DeletedAt,
	})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFoundID("User", m.ID)
	}
	out := user.ToDomain(m)
	return &out, nil
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	offset, limit := clampPage(f.Offset, f.Limit)
	q := conn(ctx, r.db).Model(&user.UserModel{})
	if f.WithDeleted {
		q = q.Unscoped()
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + s + "%"
		q = q.Where("email LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var us []user.UserModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&us).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.User, 0, len(us))
	for i := range us {
		out = append(out, user.ToDomain(&us[i]))
	}
	return out, total, nil
}
