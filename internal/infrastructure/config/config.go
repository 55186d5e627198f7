package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、.env文件、环境变量覆盖
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	MQ        MQConfig        `mapstructure:"mq"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Admin     AdminConfig     `mapstructure:"admin"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
}

// 支持的数据库驱动
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | postgres | sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"` // sqlite文件路径，":memory:"表示内存库
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 按驱动生成连接字符串
// mysql:    user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// postgres: host=... port=... user=... password=... dbname=... sslmode=disable
// sqlite:   文件路径
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverPostgres:
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, sslMode)
	case DriverSQLite:
		return d.Path
	default:
		// loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
		loc := url.QueryEscape(d.Loc)
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
			d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
	}
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpire  time.Duration `mapstructure:"access_token_expire"`
	RefreshTokenExpire time.Duration `mapstructure:"refresh_token_expire"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// 支持的对象存储驱动
const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

// StorageConfig 教材封面、用户头像的对象存储
type StorageConfig struct {
	Driver        string        `mapstructure:"driver"` // s3 | local
	Bucket        string        `mapstructure:"bucket"`
	Endpoint      string        `mapstructure:"endpoint"` // 兼容S3的自建服务（MinIO等）
	Region        string        `mapstructure:"region"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	UsePathStyle  bool          `mapstructure:"use_path_style"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	LocalDir      string        `mapstructure:"local_dir"`
	MaxImageBytes int64         `mapstructure:"max_image_bytes"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
}

// CatalogConfig 榜单与搜索的上限
type CatalogConfig struct {
	PopularLimit    int           `mapstructure:"popular_limit"`
	SearchLimit     int           `mapstructure:"search_limit"`
	PopularCacheTTL time.Duration `mapstructure:"popular_cache_ttl"`
}

type MQConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// AdminConfig 允许新增课程、教材的管理员邮箱
type AdminConfig struct {
	Emails []string `mapstructure:"emails"`
}

// RateLimitConfig 写接口限流（按客户端IP）
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// Load 加载配置文件
// 支持：
// 1. 默认加载config/config.yaml
// 2. 通过环境变量COURSEBOOK_ENV指定环境（如config.prod.yaml）
// 3. 当前目录存在.env时先加载到进程环境
// 4. 环境变量覆盖（如COURSEBOOK_DATABASE_PASSWORD）
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取.env失败: %w", err)
	}

	name := "config"
	if env := os.Getenv("COURSEBOOK_ENV"); env != "" {
		name = "config." + env
	}
	return LoadFile(name, "./config", ".")
}

// LoadFile 从指定目录加载名为name的YAML配置
func LoadFile(name string, paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName(name)
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 环境变量绑定（COURSEBOOK_DATABASE_PASSWORD → database.password）
	v.SetEnvPrefix("COURSEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", DriverMySQL)
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("jwt.access_token_expire", 2*time.Hour)
	v.SetDefault("jwt.refresh_token_expire", 7*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("storage.driver", StorageLocal)
	v.SetDefault("storage.local_dir", "./uploads")
	v.SetDefault("storage.public_base_url", "/uploads")
	v.SetDefault("storage.max_image_bytes", 5<<20)
	v.SetDefault("storage.fetch_timeout", 10*time.Second)

	v.SetDefault("catalog.popular_limit", 6)
	v.SetDefault("catalog.search_limit", 50)
	v.SetDefault("catalog.popular_cache_ttl", 60*time.Second)

	v.SetDefault("mq.exchange", "coursebook.events")
	v.SetDefault("tracing.service_name", "coursebook-api")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.Secret == "" {
		return fmt.Errorf("必须配置JWT密钥")
	}
	if cfg.JWT.Secret == "your-secret-key-change-in-production" && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	switch cfg.Database.Driver {
	case DriverMySQL, DriverPostgres:
	case DriverSQLite:
		if cfg.Database.Path == "" {
			return fmt.Errorf("sqlite驱动必须配置database.path")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	switch cfg.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if cfg.Storage.Bucket == "" {
			return fmt.Errorf("s3存储必须配置storage.bucket")
		}
	default:
		return fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}

	if cfg.Catalog.PopularLimit <= 0 || cfg.Catalog.SearchLimit <= 0 {
		return fmt.Errorf("catalog上限必须为正数")
	}

	if cfg.MQ.Enabled && cfg.MQ.URL == "" {
		return fmt.Errorf("启用消息队列时必须配置mq.url")
	}

	return nil
}

// IsAdmin 判断邮箱是否在管理员名单中（忽略大小写）
func (a AdminConfig) IsAdmin(email string) bool {
	for _, e := range a.Emails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}
