package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"member-management/internal/core/clock"
	"member-management/internal/domain"
	"member-management/internal/feature/team"
	"member-management/internal/feature/user"
)

// TeamCache 团队详情的读缓存；nil 时直接查库
type TeamCache interface {
	GetOrLoad(ctx context.Context, id int64, load func(ctx context.Context) (*team.DTO, error)) (*team.DTO, error)
	Invalidate(ctx context.Context, id int64)
}

type TeamService struct {
	teams   domain.TeamRepository
	members domain.MembershipRepository
	users   domain.UserRepository
	tx      domain.Transactor
	cache   TeamCache
	clock   clock.Clock
	log     *zap.Logger
}

type TeamOption func(*TeamService)

func WithTeamCache(c TeamCache) TeamOption { return func(s *TeamService) { s.cache = c } }

func WithTeamClock(c clock.Clock) TeamOption { return func(s *TeamService) { s.clock = c } }

func NewTeamService(
	teams domain.TeamRepository,
	members domain.MembershipRepository,
	users domain.UserRepository,
	tx domain.Transactor,
	log *zap.Logger,
	opts ...TeamOption,
) *TeamService {
	s := &TeamService{
		teams:   teams,
		members: members,
		users:   users,
		tx:      tx,
		clock:   clock.System{},
		log:     log,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cache == nil {
		s.cache = nopTeamCache{}
	}
	return s
}

func (s *TeamService) CreateTeam(ctx context.Context, in team.CreateInput) (*team.DTO, error) {
	name := strings.TrimSpace(in.Name)
	s.log.Info("creating team", zap.String("name", name))
	if name == "" {
		return nil, domain.NewBadRequest("Team name must not be blank")
	}

	var saved *domain.Team
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		exists, err := s.teams.ExistsByNameAndNotDeleted(ctx, name)
		if err != nil {
			return fmt.Errorf("check team name: %w", err)
		}
		if exists {
			s.log.Warn("team name already exists", zap.String("name", name))
			return duplicateTeamName(name)
		}

		now := s.clock.Now()
		saved, err = s.teams.Save(ctx, &domain.Team{
			Name:        name,
			Description: in.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if errors.Is(err, domain.ErrUniqueViolation) {
			// 并发创建同名：检查通过但被唯一索引拦下
			return duplicateTeamName(name)
		}
		if err != nil {
			return fmt.Errorf("save team: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("team created", zap.Int64("team_id", saved.ID))
	dto := team.ToDTO(*saved)
	return &dto, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, id int64, in team.UpdateInput) (*team.DTO, error) {
	s.log.Info("updating team", zap.Int64("team_id", id))

	var saved *domain.Team
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		t, err := s.activeTeam(ctx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.NewBadRequest("Team name must not be blank")
			}
			if name != t.Name {
				exists, err := s.teams.ExistsByNameAndNotDeletedAndIDNot(ctx, name, id)
				if err != nil {
					return fmt.Errorf("check team name: %w", err)
				}
				if exists {
					s.log.Warn("team name already exists", zap.String("name", name))
					return duplicateTeamName(name)
				}
				t.Name = name
			}
		}
		t.Description = in.Description
		t.UpdatedAt = s.clock.Now()

		saved, err = s.teams.Save(ctx, t)
		if errors.Is(err, domain.ErrUniqueViolation) {
			return duplicateTeamName(t.Name)
		}
		if err != nil {
			return fmt.Errorf("save team: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	s.log.Info("team updated", zap.Int64("team_id", id))
	dto := team.ToDTO(*saved)
	return &dto, nil
}

// DeleteTeam 软删：只写 deleted_at，记录保留
func (s *TeamService) DeleteTeam(ctx context.Context, id int64) (bool, error) {
	s.log.Info("soft deleting team", zap.Int64("team_id", id))

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		t, err := s.activeTeam(ctx, id)
		if err != nil {
			return err
		}
		t.Lifecycle = t.Lifecycle.Delete(s.clock.Now())
		if _, err := s.teams.Save(ctx, t); err != nil {
			return fmt.Errorf("save team: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.cache.Invalidate(ctx, id)
	s.log.Info("team soft deleted", zap.Int64("team_id", id))
	return true, nil
}

func (s *TeamService) GetTeam(ctx context.Context, id int64) (*team.DTO, error) {
	return s.cache.GetOrLoad(ctx, id, func(ctx context.Context) (*team.DTO, error) {
		t, err := s.activeTeam(ctx, id)
		if err != nil {
			return nil, err
		}
		dto := team.ToDTO(*t)
		return &dto, nil
	})
}

func (s *TeamService) ListTeams(ctx context.Context, q team.ListQuery) (*team.Page, error) {
	ts, total, err := s.teams.List(ctx, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return &team.Page{Total: total, Items: team.ToDTOs(ts)}, nil
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID int64) (*team.MemberDTO, error) {
	s.log.Info("adding team member", zap.Int64("team_id", teamID), zap.Int64("user_id", userID))

	m := domain.Membership{TeamID: teamID, UserID: userID}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.activeTeam(ctx, teamID); err != nil {
			return err
		}
		u, err := s.users.FindByIDAndNotDeleted(ctx, userID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if u == nil {
			return domain.NotFoundID("User", userID)
		}
		if u.Status == domain.UserInactive {
			return domain.NewBadRequest(fmt.Sprintf("User is inactive: %d", userID))
		}

		exists, err := s.members.Exists(ctx, teamID, userID)
		if err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if exists {
			return domain.DuplicateField("Membership", "userId", userID)
		}

		m.JoinedAt = s.clock.Now()
		err = s.members.Add(ctx, &m)
		if errors.Is(err, domain.ErrUniqueViolation) {
			return domain.DuplicateField("Membership", "userId", userID)
		}
		if err != nil {
			return fmt.Errorf("add membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, teamID)
	dto := team.MemberToDTO(m)
	return &dto, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID int64) error {
	s.log.Info("removing team member", zap.Int64("team_id", teamID), zap.Int64("user_id", userID))

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.activeTeam(ctx, teamID); err != nil {
			return err
		}
		removed, err := s.members.Remove(ctx, teamID, userID)
		if err != nil {
			return fmt.Errorf("remove membership: %w", err)
		}
		if !removed {
			return domain.NotFoundField("Membership", "userId", userID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, teamID)
	return nil
}

func (s *TeamService) ListMembers(ctx context.Context, teamID int64) (*team.MembersDTO, error) {
	t, err := s.activeTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	us, err := s.members.ListUsers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return &team.MembersDTO{Team: team.ToDTO(*t), Members: user.ToDTOs(us)}, nil
}

func (s *TeamService) activeTeam(ctx context.Context, id int64) (*domain.Team, error) {
	t, err := s.teams.FindByIDAndNotDeleted(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find team: %w", err)
	}
	if t == nil {
		s.log.Warn("team not found", zap.Int64("team_id", id))
		return nil, domain.NotFoundID("Team", id)
	}
	return t, nil
}

func duplicateTeamName(name string) *domain.Error {
	return domain.NewDuplicate("Team name already exists: " + name)
}

type nopTeamCache struct{}

func (nopTeamCache) GetOrLoad(ctx context.Context, _ int64, load func(context.Context) (*team.DTO, error)) (*team.DTO, error) {
	return load(ctx)
}

func (nopTeamCache) Invalidate(context.Context, int64) {}
