package controller

import (
	"audit_survey_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// HealthController DB 为空表示使用内存数据源
type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response "依赖不可用"
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{"database": "memory"}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			util.InternalServerError(ctx)
			return
		}
		if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		components["database"] = "up"
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Redis unavailable")
			return
		}
		components["redis"] = "up"
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
