package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleMember }

type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)

func (s UserStatus) Valid() bool { return s == UserActive || s == UserInactive }

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Birthday     *time.Time // 只有日期
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Lifecycle    Lifecycle
}

type UserFilter struct {
	Offset      int
	Limit       int
	Query       string // email/name 模糊匹配
	WithDeleted bool
}

type UserRepository interface {
	ExistsByEmailAndNotDeleted(ctx context.Context, email string) (bool, error)
	ExistsByEmailAndNotDeletedAndIDNot(ctx context.Context, email string, id int64) (bool, error)
	FindByIDAndNotDeleted(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsActiveByRole(ctx context.Context, role Role) (bool, error)
	Save(ctx context.Context, u *User) (*User, error)
	List(ctx context.Context, f UserFilter) ([]User, int64, error)
}
