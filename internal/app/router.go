package app

import (
	"audit_survey_backend/docs"
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/middleware"
	"audit_survey_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// 2. 用户端
		a.registerUserRoutes(authGroup, c)

		// 3. 管理端
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	user := rg.Group("/user")
	{
		user.GET("/me", c.auth.GetProfile)
		user.GET("/surveys", c.user.ListSurveys)
		user.GET("/surveys/:id/questions", c.user.GetQuestions)
		user.PUT("/surveys/:id/draft", c.user.SaveDraft)
		user.POST("/surveys/:id/responses", c.user.SubmitResponse)

		// 逐题作答
		user.POST("/surveys/:id/sessions", c.user.StartSession)
		user.GET("/sessions/:sid", c.user.GetSession)
		user.PUT("/sessions/:sid/answers/:questionId", c.user.SetAnswer)
		user.POST("/sessions/:sid/next", c.user.Next)
		user.POST("/sessions/:sid/previous", c.user.Previous)
		user.POST("/sessions/:sid/submit", c.user.SubmitSession)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/templates", c.admin.ListTemplates)
		admin.GET("/users", c.auth.ListUsers)

		admin.GET("/surveys", c.admin.ListSurveys)
		admin.POST("/surveys", c.admin.CreateSurvey)
		admin.GET("/surveys/export", c.admin.ExportSurveys)
		admin.GET("/surveys/:id", c.admin.GetSurvey)
		admin.GET("/surveys/:id/overview", c.admin.Overview)
		admin.GET("/surveys/:id/questions", c.admin.ListQuestions)
		admin.GET("/surveys/:id/assignments", c.admin.ListAssignments)
		admin.GET("/surveys/:id/assignments/export", c.admin.ExportAssignments)
		admin.GET("/surveys/:id/responses", c.admin.ListResponses)
		admin.GET("/surveys/:id/results", c.admin.GetResults)
		admin.GET("/surveys/:id/results/live", c.admin.LiveResults)
		admin.GET("/surveys/:id/export", c.admin.ExportResults)
		admin.POST("/surveys/:id/activate", c.admin.ActivateSurvey)
		admin.POST("/surveys/:id/close", c.admin.CloseSurvey)

		admin.POST("/assignments/:id/discard", c.admin.DiscardAssignment)
	}
}
