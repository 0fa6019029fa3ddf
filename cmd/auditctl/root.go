package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roster-guard/config"
	"roster-guard/internal/repository"
	"roster-guard/internal/service"
	"roster-guard/pkg/database"
	applogger "roster-guard/pkg/logger"
	"roster-guard/pkg/redis"
)

var (
	configPath string
	verbose    bool
	noLock     bool
	timeout    time.Duration
)

// app 子命令共享的运行时依赖
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	rdb    *redis.Client
	svc    *service.Service
}

var rootCmd = &cobra.Command{
	Use:           "auditctl",
	Short:         "Schedule constraint validation and daily audit tool",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noLock, "no-lock", false, "Skip redis; run audits without the run lock")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(rotationCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

// loadConfig 读取配置；CLI 默认输出 console 格式日志
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logCfg := cfg.Log
	logCfg.Format = "console"
	if verbose {
		logCfg.Level = "debug"
	} else {
		logCfg.Level = "warn"
	}
	logger, err := applogger.NewLogger(&logCfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newApp 组装数据库、Redis 与服务层
func newApp() (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(&cfg.Database, logger.Level().String(), logger)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if !noLock {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 不可用，审计不加锁运行", zap.Error(err))
			rdb = nil
		}
	}

	svc := service.NewService(cfg, repository.NewRepository(db), rdb, logger)
	return &app{cfg: cfg, logger: logger, db: db, rdb: rdb, svc: svc}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	if a.rdb != nil {
		a.rdb.Close()
	}
	a.logger.Sync()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
