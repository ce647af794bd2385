package handler

import (
	"context"
	"time"

	"member-management/internal/domain"
	"member-management/internal/feature/team"
	"member-management/internal/feature/user"
)

type TeamService interface {
	CreateTeam(ctx context.Context, in team.CreateInput) (*team.DTO, error)
	UpdateTeam(ctx context.Context, id int64, in team.UpdateInput) (*team.DTO, error)
	DeleteTeam(ctx context.Context, id int64) (bool, error)
	GetTeam(ctx context.Context, id int64) (*team.DTO, error)
	ListTeams(ctx context.Context, q team.ListQuery) (*team.Page, error)
	AddMember(ctx context.Context, teamID, userID int64) (*team.MemberDTO, error)
	RemoveMember(ctx context.Context, teamID, userID int64) error
	ListMembers(ctx context.Context, teamID int64) (*team.MembersDTO, error)
}

type UserService interface {
	CreateUser(ctx context.Context, in user.CreateInput) (*user.DTO, error)
	GetUser(ctx context.Context, id int64) (*user.DTO, error)
	ListUsers(ctx context.Context, q user.ListQuery) (*user.Page, error)
	UpdateUser(ctx context.Context, id int64, in user.UpdateInput) (*user.DTO, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	Authenticate(ctx context.Context, email, password string) (*user.DTO, error)
}

type TokenIssuer interface {
	Issue(uid int64, role domain.Role) (string, time.Time, error)
}
