package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"member-management/internal/feature/team"
	"member-management/internal/feature/user"
)

type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) CreateTeam(ctx context.Context, in team.CreateInput) (*team.DTO, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.DTO), args.Error(1)
}

func (m *MockTeamService) UpdateTeam(ctx context.Context, id int64, in team.UpdateInput) (*team.DTO, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.DTO), args.Error(1)
}

func (m *MockTeamService) DeleteTeam(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamService) GetTeam(ctx context.Context, id int64) (*team.DTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.DTO), args.Error(1)
}

func (m *MockTeamService) ListTeams(ctx context.Context, q team.ListQuery) (*team.Page, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Page), args.Error(1)
}

func (m *MockTeamService) AddMember(ctx context.Context, teamID, userID int64) (*team.MemberDTO, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.MemberDTO), args.Error(1)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return m.Called(ctx, teamID, userID).Error(0)
}

func (m *MockTeamService) ListMembers(ctx context.Context, teamID int64) (*team.MembersDTO, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.MembersDTO), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, in user.CreateInput) (*user.DTO, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.DTO), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id int64) (*user.DTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.DTO), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, q user.ListQuery) (*user.Page, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Page), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id int64, in user.UpdateInput) (*user.DTO, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.DTO), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*user.DTO, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.DTO), args.Error(1)
}
