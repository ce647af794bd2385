package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"member-management/internal/core/clock"
	"member-management/internal/domain"
	"member-management/internal/feature/user"
	"member-management/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
	tx    domain.Transactor
	clock clock.Clock
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, tx domain.Transactor, log *zap.Logger, c clock.Clock) *UserService {
	if c == nil {
		c = clock.System{}
	}
	return &UserService{users: users, tx: tx, clock: c, log: log}
}

func (s *UserService) CreateUser(ctx context.Context, in user.CreateInput) (*user.DTO, error) {
	email := utils.NormalizeEmail(in.Email)
	s.log.Info("creating user", zap.String("email", email))
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errBlankUserName()
	}

	birthday, err := user.ParseBirthday(in.Birthday)
	if err != nil {
		return nil, domain.NewBadRequest("Invalid birthday: " + in.Birthday).WithCause(err)
	}
	role := domain.RoleMember
	if in.Role != "" {
		role = domain.Role(in.Role)
	}
	if !role.Valid() {
		return nil, domain.NewBadRequest("Invalid role: " + in.Role)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.NewBadRequest("Invalid password").WithCause(err)
	}

	var saved *domain.User
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByEmailAndNotDeleted(ctx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			s.log.Warn("email already registered", zap.String("email", email))
			return domain.DuplicateField("User", "email", email)
		}

		now := s.clock.Now()
		saved, err = s.users.Save(ctx, &domain.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Birthday:     birthday,
			Role:         role,
			Status:       domain.UserActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if errors.Is(err, domain.ErrUniqueViolation) {
			return domain.DuplicateField("User", "email", email)
		}
		if err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.Int64("user_id", saved.ID))
	dto := user.ToDTO(*saved)
	return &dto, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*user.DTO, error) {
	u, err := s.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := user.ToDTO(*u)
	return &dto, nil
}

func (s *UserService) ListUsers(ctx context.Context, q user.ListQuery) (*user.Page, error) {
	us, total, err := s.users.List(ctx, domain.UserFilter{
		Offset:      q.Offset,
		Limit:       q.Limit,
		Query:       q.Q,
		WithDeleted: q.WithDeleted,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &user.Page{Total: total, Items: user.ToDTOs(us)}, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, in user.UpdateInput) (*user.DTO, error) {
	s.log.Info("updating user", zap.Int64("user_id", id))

	var saved *domain.User
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		u, err := s.activeUser(ctx, id)
		if err != nil {
			return err
		}

		if in.Email != nil {
			email := utils.NormalizeEmail(*in.Email)
			if email != u.Email {
				exists, err := s.users.ExistsByEmailAndNotDeletedAndIDNot(ctx, email, id)
				if err != nil {
					return fmt.Errorf("check email: %w", err)
				}
				if exists {
					return domain.DuplicateField("User", "email", email)
				}
				u.Email = email
			}
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return errBlankUserName()
			}
			u.Name = name
		}
		if in.Password != nil {
			hash, err := utils.HashPassword(*in.Password)
			if err != nil {
				return domain.NewBadRequest("Invalid password").WithCause(err)
			}
			u.PasswordHash = hash
		}
		if in.Birthday != nil {
			b, err := user.ParseBirthday(*in.Birthday)
			if err != nil {
				return domain.NewBadRequest("Invalid birthday: " + *in.Birthday).WithCause(err)
			}
			u.Birthday = b
		}
		if in.Role != nil {
			if r := domain.Role(*in.Role); r.Valid() {
				u.Role = r
			} else {
				return domain.NewBadRequest("Invalid role: " + *in.Role)
			}
		}
		if in.Status != nil {
			if st := domain.UserStatus(*in.Status); st.Valid() {
				u.Status = st
			} else {
				return domain.NewBadRequest("Invalid status: " + *in.Status)
			}
		}
		u.UpdatedAt = s.clock.Now()

		saved, err = s.users.Save(ctx, u)
		if errors.Is(err, domain.ErrUniqueViolation) {
			return domain.DuplicateField("User", "email", u.Email)
		}
		if err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := user.ToDTO(*saved)
	return &dto, nil
}

// DeleteUser 软删；成员关系保留，但列成员时不再出现
func (s *UserService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	s.log.Info("soft deleting user", zap.Int64("user_id", id))

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		u, err := s.activeUser(ctx, id)
		if err != nil {
			return err
		}
		u.Lifecycle = u.Lifecycle.Delete(s.clock.Now())
		if _, err := s.users.Save(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Authenticate 邮箱或密码错误统一返回同一条消息
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.DTO, error) {
	email = utils.NormalizeEmail(email)
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		s.log.Warn("login failed", zap.String("email", email))
		return nil, domain.NewUnauthorized("Invalid email or password")
	}
	if u.Status != domain.UserActive {
		return nil, domain.NewForbidden("User account is inactive")
	}
	dto := user.ToDTO(*u)
	return &dto, nil
}

// EnsureAdmin 没有可用 ADMIN 时创建一个；邮箱已被占用视为已初始化。
// 返回是否新建
func (s *UserService) EnsureAdmin(ctx context.Context, in user.CreateInput) (bool, error) {
	exists, err := s.users.ExistsActiveByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return false, nil
	}

	in.Role = string(domain.RoleAdmin)
	u, err := s.CreateUser(ctx, in)
	if errors.Is(err, domain.ErrDuplicate) {
		s.log.Warn("bootstrap admin email already registered", zap.String("email", utils.NormalizeEmail(in.Email)))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.Info("bootstrap admin created", zap.Int64("user_id", u.ID))
	return true, nil
}

func (s *UserService) activeUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.FindByIDAndNotDeleted(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.NotFoundID("User", id)
	}
	return u, nil
}

func errBlankUserName() *domain.Error { return domain.NewBadRequest("User name must not be blank") }
