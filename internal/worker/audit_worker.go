package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"roster-guard/config"
	"roster-guard/internal/model"
	"roster-guard/internal/service"
)

// DefaultRunTimeout 单次定时审计的超时
const DefaultRunTimeout = 10 * time.Minute

// AuditRunner 审计执行方，由 service.AuditService 实现
type AuditRunner interface {
	RunDailyAudit(ctx context.Context, date time.Time) (*service.AuditResult, error)
}

// AuditWorker 定时每日审计
// 多副本部署时由审计服务内部的 Redis 锁保证同一天只跑一次
type AuditWorker struct {
	cron    *cron.Cron
	runner  AuditRunner
	spec    string
	loc     *time.Location
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuditWorker 创建定时审计 Worker；cron 表达式按门店时区解释
func NewAuditWorker(runner AuditRunner, cfg *config.AuditConfig, loc *time.Location, logger *zap.Logger) (*AuditWorker, error) {
	if loc == nil {
		loc = time.UTC
	}
	spec := cfg.Cron
	if spec == "" {
		spec = "0 5 * * *"
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("无效的审计 cron 表达式 %q: %w", spec, err)
	}

	cl := cronLogger{logger: logger.Sugar()}
	w := &AuditWorker{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		runner:  runner,
		spec:    spec,
		loc:     loc,
		timeout: DefaultRunTimeout,
		logger:  logger,
		now:     time.Now,
	}

	if _, err := w.cron.AddFunc(spec, w.tick); err != nil {
		return nil, fmt.Errorf("注册审计任务失败: %w", err)
	}
	return w, nil
}

// Start 启动调度（非阻塞）
func (w *AuditWorker) Start() {
	w.cron.Start()
	w.logger.Info("每日审计调度已启动", zap.String("cron", w.spec), zap.String("timezone", w.loc.String()))
}

// Stop 停止调度并等待进行中的审计结束，ctx 到期则直接返回
func (w *AuditWorker) Stop(ctx context.Context) error {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		w.logger.Info("每日审计调度已停止")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce 立即审计门店时区下的今天
func (w *AuditWorker) RunOnce(ctx context.Context) (*service.AuditResult, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	date := model.DateOf(w.now(), w.loc)
	start := time.Now()

	result, err := w.runner.RunDailyAudit(ctx, date)
	if err != nil {
		if errors.Is(err, service.ErrAuditInProgress) {
			w.logger.Info("其他实例正在执行当日审计，跳过", zap.String("date", date.Format("2006-01-02")))
		} else {
			w.logger.Error("定时审计失败", zap.String("date", date.Format("2006-01-02")), zap.Error(err))
		}
		return nil, err
	}

	w.logger.Info("定时审计完成",
		zap.String("date", date.Format("2006-01-02")),
		zap.String("run_id", result.RunID),
		zap.Int("total", result.TotalIssues),
		zap.Int("critical", result.CriticalIssues),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (w *AuditWorker) tick() {
	_, _ = w.RunOnce(context.Background())
}

// cronLogger 把 cron 内部日志转到 zap
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
