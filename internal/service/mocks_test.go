package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"member-management/internal/domain"
	"member-management/internal/feature/team"
)

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) ExistsByNameAndNotDeleted(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamRepository) ExistsByNameAndNotDeletedAndIDNot(ctx context.Context, name string, id int64) (bool, error) {
	args := m.Called(ctx, name, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamRepository) FindByIDAndNotDeleted(ctx context.Context, id int64) (*domain.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) Save(ctx context.Context, t *domain.Team) (*domain.Team, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context, offset, limit int) ([]domain.Team, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Team), args.Get(1).(int64), args.Error(2)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Exists(ctx context.Context, teamID, userID int64) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) Add(ctx context.Context, ms *domain.Membership) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *MockMembershipRepository) Remove(ctx context.Context, teamID, userID int64) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) ListUsers(ctx context.Context, teamID int64) ([]domain.User, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) ExistsByEmailAndNotDeleted(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailAndNotDeletedAndIDNot(ctx context.Context, email string, id int64) (bool, error) {
	args := m.Called(ctx, email, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindByIDAndNotDeleted(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsActiveByRole(ctx context.Context, role domain.Role) (bool, error) {
	args := m.Called(ctx, role)
	return args.Bool(0), args.Error(1)
}

// Save 返回值可以是 *domain.User，也可以是基于入参生成结果的函数
func (m *MockUserRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	switch v := args.Get(0).(type) {
	case nil:
		return nil, args.Error(1)
	case func(context.Context, *domain.User) *domain.User:
		return v(ctx, u), args.Error(1)
	default:
		return v.(*domain.User), args.Error(1)
	}
}

func (m *MockUserRepository) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

// inlineTx 直接执行回调，记录调用次数
type inlineTx struct {
	mu    sync.Mutex
	calls int
}

func (tx *inlineTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	tx.calls++
	tx.mu.Unlock()
	return fn(ctx)
}

// mapCache 内存版 TeamCache
type mapCache struct {
	mu          sync.Mutex
	items       map[int64]*team.DTO
	loads       int
	invalidated []int64
}

func newMapCache() *mapCache { return &mapCache{items: map[int64]*team.DTO{}} }

func (c *mapCache) GetOrLoad(ctx context.Context, id int64, load func(context.Context) (*team.DTO, error)) (*team.DTO, error) {
	c.mu.Lock()
	if v, ok := c.items[id]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.loads++
	c.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.items[id] = v
	c.mu.Unlock()
	return v, nil
}

func (c *mapCache) Invalidate(_ context.Context, id int64) {
	c.mu.Lock()
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	c.mu.Unlock()
}
