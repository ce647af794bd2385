package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

func (h HTTP) ReadTimeout() time.Duration  { return time.Duration(h.ReadTimeoutSec) * time.Second }
func (h HTTP) WriteTimeout() time.Duration { return time.Duration(h.WriteTimeoutSec) * time.Second }
func (h HTTP) IdleTimeout() time.Duration  { return time.Duration(h.IdleTimeoutSec) * time.Second }

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin HTTP
	// CORS 允许的来源，空表示全部放行
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

type Redis struct {
	Enable   bool          `mapstructure:"enable"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TeamTTL  time.Duration `mapstructure:"team_ttl"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// BootstrapAdmin 空库时由用户端创建的首个 ADMIN；email 为空表示不创建
type BootstrapAdmin struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type Admin struct {
	Bootstrap BootstrapAdmin `mapstructure:"bootstrap"`
}

// Limits 中间件限流/超时参数
type Limits struct {
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	RatePerSec     float64       `mapstructure:"rate_per_sec"`
	Burst          int           `mapstructure:"burst"`
	PerIPRate      float64       `mapstructure:"per_ip_rate"`
	PerIPBurst     int           `mapstructure:"per_ip_burst"`
	MaxConcurrent  int64         `mapstructure:"max_concurrent"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Redis  Redis  `mapstructure:"redis"`
	Limits Limits `mapstructure:"limits"`
	Admin  Admin  `mapstructure:"admin"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "member-management")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.admin.readtimeoutsec", 5)
	v.SetDefault("app.admin.writetimeoutsec", 10)
	v.SetDefault("app.admin.idletimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 7)
	v.SetDefault("log.file.maxagedays", 30)

	v.SetDefault("jwt.issuer", "member-management")
	v.SetDefault("jwt.accesstokenttlmin", 120)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 50)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.prefix", "mm")
	v.SetDefault("redis.team_ttl", 5*time.Minute)

	v.SetDefault("admin.bootstrap.name", "Administrator")
	// 注册空默认值，APP_ADMIN_BOOTSTRAP_* 环境变量才能生效
	v.SetDefault("admin.bootstrap.email", "")
	v.SetDefault("admin.bootstrap.password", "")

	v.SetDefault("limits.max_body_bytes", 1<<20)
	v.SetDefault("limits.rate_per_sec", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.per_ip_rate", 20)
	v.SetDefault("limits.per_ip_burst", 40)
	v.SetDefault("limits.max_concurrent", 256)
	v.SetDefault("limits.acquire_timeout", 200*time.Millisecond)
	v.SetDefault("limits.request_timeout", 10*time.Second)
}

// Load 读取 yaml 并叠加 APP_ 前缀的环境变量，如 APP_DB_DSN
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	switch c.DB.Driver {
	case "postgres", "mysql":
	default:
		errs = append(errs, fmt.Errorf("db.driver %q not supported", c.DB.Driver))
	}
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn is required"))
	}
	if b := c.Admin.Bootstrap; b.Email != "" && (len(b.Password) < 8 || len(b.Password) > 72) {
		errs = append(errs, errors.New("admin.bootstrap.password must be 8-72 bytes"))
	}
	return errors.Join(errs...)
}
