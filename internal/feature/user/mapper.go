package user

import (
	"time"

	"gorm.io/gorm"

	"member-management/internal/domain"
)

func ToModel(u *domain.User) *UserModel {
	m := &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Birthday:     u.Birthday,
		Role:         string(u.Role),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if at, ok := u.Lifecycle.DeletedAt(); ok {
		m.DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
	}
	return m
}

func ToDomain(m *UserModel) domain.User {
	u := domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Birthday:     m.Birthday,
		Role:         domain.Role(m.Role),
		Status:       domain.UserStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		u.Lifecycle = domain.DeletedAt(m.DeletedAt.Time)
	}
	return u
}

// ToDTO 不输出密码哈希
func ToDTO(u domain.User) DTO {
	d := DTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Birthday != nil {
		d.Birthday = u.Birthday.Format(DateLayout)
	}
	if at, ok := u.Lifecycle.DeletedAt(); ok {
		d.DeletedAt = &at
	}
	return d
}

func ToDTOs(us []domain.User) []DTO {
	out := make([]DTO, 0, len(us))
	for _, u := range us {
		out = append(out, ToDTO(u))
	}
	return out
}

// ParseBirthday "" 表示未填写
func ParseBirthday(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
