package middleware

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"audit_survey_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	// WebSocket 握手无法带 Header，允许 query 传 token
	return c.Query("token")
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT解析错误", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// RoleMiddleware 管理员直接放行
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if user.IsAdmin() {
			c.Next()
			return
		}
		for _, want := range roles {
			for _, have := range user.Roles {
				if have == want {
					c.Next()
					return
				}
			}
		}

		util.Forbidden(c)
		c.Abort()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}
