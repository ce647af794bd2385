package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"member-management/internal/core/auth"
	"member-management/internal/core/cache"
	"member-management/internal/core/config"
	"member-management/internal/core/database"
	"member-management/internal/core/logger"
	"member-management/internal/core/server"
	"member-management/internal/feature/team"
	"member-management/internal/feature/user"
	"member-management/internal/repo"
	"member-management/internal/service"
	"member-management/internal/transport/http/handler"
	"member-management/internal/transport/http/router"
)

// App 两个入口共用的依赖装配
type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache // redis.enable=false 时为 nil
	JWT   *auth.JWTer

	Teams *service.TeamService
	Users *service.UserService
}

// NewLogger 两个进程共用：按配置建 zap（可选文件切割），并接管标准库 log。
// stdout 为 nil 时写 os.Stdout
func NewLogger(cfg config.Log, stdout io.Writer) (*zap.Logger, func()) {
	log, cleanup := logger.New(logger.Options{
		Level:     cfg.Level,
		JSON:      cfg.JSON,
		AddCaller: true,
		Rotate:    logger.FileRotate(cfg.File),
		Stdout:    stdout,
	})
	restore := logger.RedirectStdLog(log, zap.InfoLevel)
	return log, func() {
		restore()
		cleanup()
	}
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             log,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	a := &App{
		Cfg: cfg,
		Log: log,
		DB:  db,
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    cfg.JWT.TTL(),
		},
	}

	teamRepo := repo.NewTeamRepo(db)
	memberRepo := repo.NewMembershipRepo(db)
	userRepo := repo.NewUserRepo(db)
	tx := repo.NewTransactor(db)

	var opts []service.TeamOption
	if cfg.Redis.Enable {
		a.Cache = cache.New(cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		// redis 不可用只告警，读路径会回源数据库
		pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.Cache.Ping(pctx); err != nil {
			log.Warn("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		opts = append(opts, service.WithTeamCache(team.NewCache(a.Cache, cfg.Redis.TeamTTL, log)))
	}

	a.Teams = service.NewTeamService(teamRepo, memberRepo, userRepo, tx, log, opts...)
	a.Users = service.NewUserService(userRepo, tx, log, nil)
	return a, nil
}

// SeedAdmin 库里没有可用 ADMIN 时按 admin.bootstrap 创建；未配置邮箱则跳过
func (a *App) SeedAdmin(ctx context.Context) error {
	b := a.Cfg.Admin.Bootstrap
	if b.Email == "" {
		return nil
	}
	name := b.Name
	if name == "" {
		name = "Administrator"
	}
	_, err := a.Users.EnsureAdmin(ctx, user.CreateInput{Name: name, Email: b.Email, Password: b.Password})
	return err
}

// Modules 用户端和后台共用一份注册表，各自只挂自己实现的接口
func (a *App) Modules() *router.Registry {
	return router.NewRegistry(
		handler.NewAuthHandler(a.Users, a.JWT, a.Log),
		handler.NewTeamHandler(a.Teams, a.Log),
		handler.NewUserHandler(a.Users, a.Log),
	)
}

func (a *App) Deps(name string) router.Deps {
	mode := gin.DebugMode
	if a.Cfg.App.Env == "prod" || a.Cfg.App.Env == "production" {
		mode = gin.ReleaseMode
	}
	return router.Deps{
		Log:    a.Log,
		JWT:    a.JWT,
		Limits: a.Cfg.Limits,
		Server: server.Options{
			Name:        name,
			Mode:        mode,
			CORSOrigins: a.Cfg.App.CORSOrigins,
			Health:      a.Health,
		},
		Modules: a.Modules(),
	}
}

// Health 数据库必须可用；启用 redis 时一并检查
func (a *App) Health(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	var errs []error
	if err := sqlDB.PingContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("db: %w", err))
	}
	if a.Cache != nil {
		if err := a.Cache.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Log.Warn("redis close", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
