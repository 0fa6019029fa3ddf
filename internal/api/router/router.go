package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roster-guard/config"
	"roster-guard/internal/api/handler"
	"roster-guard/internal/api/middleware"
	"roster-guard/pkg/jwt"
	"roster-guard/pkg/redis"
)

// 校验接口由排班界面在拖拽时高频调用，限流放宽
const (
	validateRateLimit = 120
	defaultRateLimit  = 30
	rateLimitWindow   = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：此时不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(middleware.DefaultMaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "redis": rdb != nil}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": false})
				return
			}
			status["database"] = true
		}
		c.JSON(http.StatusOK, status)
	})

	// ── API v1（全部需要认证） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 排班校验
		schedules := v1.Group("/schedules")
		{
			schedules.POST("/validate", middleware.RateLimit(limiter, validateRateLimit, rateLimitWindow), h.Validation.Validate)
		}

		// 每日审计
		audits := v1.Group("/audits")
		{
			audits.POST("/daily",
				middleware.RoleAuth(middleware.RoleAdmin, middleware.RoleScheduler),
				middleware.RateLimit(limiter, defaultRateLimit, rateLimitWindow),
				h.Audit.RunDaily,
			)
			audits.GET("", h.Audit.List)
			audits.GET("/:id/export", h.Audit.Export)
		}

		// 轮值；calendar.ics 为静态路由，优先于 :role 匹配
		rotations := v1.Group("/rotations")
		{
			rotations.GET("/calendar.ics", h.Rotation.Calendar)
			rotations.GET("/:role", h.Rotation.Get)
		}
	}

	return r
}
