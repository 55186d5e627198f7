package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 按database.driver选择方言：mysql（默认）、postgres、sqlite（本地开发/测试）
// 2. TranslateError开启后，唯一索引冲突统一为gorm.ErrDuplicatedKey
// 3. 配置连接池参数
// 4. 按配置自动迁移表结构
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	// 开发环境打印SQL
	logLevel := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// SQLite同一时刻只允许一个写连接；内存库每个连接都是独立的库
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

func dialectorFor(d config.DatabaseConfig) (gorm.Dialector, error) {
	switch d.Driver {
	case config.DriverMySQL, "":
		return mysql.Open(d.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(d.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(d.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", d.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// 注意：生产环境应使用版本化的迁移脚本
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&CourseModel{},
		&TextbookModel{},
		&CourseTextbookModel{},
		&ReviewModel{},
		&ReviewVoteModel{},
	)
}
