package domain

import (
	"context"
	"time"
)

type Team struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lifecycle   Lifecycle
}

type Membership struct {
	TeamID   int64
	UserID   int64
	JoinedAt time.Time
}

// TeamRepository 只返回未删除的团队；查不到返回 (nil, nil)
type TeamRepository interface {
	ExistsByNameAndNotDeleted(ctx context.Context, name string) (bool, error)
	ExistsByNameAndNotDeletedAndIDNot(ctx context.Context, name string, id int64) (bool, error)
	FindByIDAndNotDeleted(ctx context.Context, id int64) (*Team, error)
	Save(ctx context.Context, t *Team) (*Team, error)
	List(ctx context.Context, offset, limit int) ([]Team, int64, error)
}

type MembershipRepository interface {
	Exists(ctx context.Context, teamID, userID int64) (bool, error)
	Add(ctx context.Context, m *Membership) error
	Remove(ctx context.Context, teamID, userID int64) (bool, error)
	ListUsers(ctx context.Context, teamID int64) ([]User, error)
}

// Transactor fn 内用传入的 ctx 调仓储即加入同一事务
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
