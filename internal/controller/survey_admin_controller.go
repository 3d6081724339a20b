package controller

import (
	"audit_survey_backend/internal/service"
	"audit_survey_backend/internal/util"
	"audit_survey_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SurveyAdminController 管理端问卷接口
type SurveyAdminController struct {
	Surveys   *service.SurveyService
	Results   *service.ResultsService
	Exports   *service.ExportService
	Templates *service.TemplateService
	Hub       *service.ResultsHub
}

func NewSurveyAdminController(surveys *service.SurveyService, results *service.ResultsService, exports *service.ExportService, templates *service.TemplateService, hub *service.ResultsHub) *SurveyAdminController {
	return &SurveyAdminController{
		Surveys:   surveys,
		Results:   results,
		Exports:   exports,
		Templates: templates,
		Hub:       hub,
	}
}

// ListSurveys godoc
// @Summary 问卷列表
// @Description 按状态筛选（ALL 表示全部），q 匹配标题或项目，按 sort/order 排序，limit 为 0 时不分页
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "DRAFT / ACTIVE / CLOSED / ALL"
// @Param q query string false "搜索"
// @Param sort query string false "title / project / status / deadline / createdAt / completion"
// @Param order query string false "asc / desc"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]model.SurveySummary}} "成功"
// @Failure 400 {object} util.Response "参数错误"
// @Router /admin/surveys [get]
func (c *SurveyAdminController) ListSurveys(ctx *gin.Context) {
	q, err := listQuery(ctx)
	if err != nil {
		util.HandleError(ctx, err, "load surveys")
		return
	}
	list, err := c.Surveys.ListAdminSurveys(ctx.Request.Context(), q)
	if err != nil {
		util.HandleError(ctx, err, "load surveys")
		return
	}
	page, limit := util.ParsePage(ctx)
	util.Success(ctx, util.PageResponse{
		List:  util.Paginate(list, page, limit),
		Total: int64(len(list)),
		Page:  page,
		Limit: limit,
	})
}

// GetSurvey godoc
// @Summary 问卷详情
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response{data=model.Survey} "成功"
// @Failure 404 {object} util.Response "问卷不存在"
// @Router /admin/surveys/{id} [get]
func (c *SurveyAdminController) GetSurvey(ctx *gin.Context) {
	survey, err := c.Surveys.GetSurvey(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "load survey details")
		return
	}
	util.Success(ctx, survey)
}

// Overview godoc
// @Summary 问卷概览
// @Description 题目数、分配统计与答卷数
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response{data=service.SurveyOverview} "成功"
// @Router /admin/surveys/{id}/overview [get]
func (c *SurveyAdminController) Overview(ctx *gin.Context) {
	overview, err := c.Surveys.Overview(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "load survey overview")
		return
	}
	util.Success(ctx, overview)
}

// ListQuestions godoc
// @Summary 问卷题目
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Router /admin/surveys/{id}/questions [get]
func (c *SurveyAdminController) ListQuestions(ctx *gin.Context) {
	questions, err := c.Surveys.ListQuestions(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "load questions")
		return
	}
	util.Success(ctx, questions)
}

// ListAssignments godoc
// @Summary 问卷分配
// @Description 状态筛选支持 COMPLETED 作为 SUBMITTED 的别名；统计始终基于全部分配
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Param status query string false "PENDING / DRAFT / SUBMITTED / DISCARDED / ALL"
// @Param q query string false "按用户ID搜索"
// @Param sort query string false "assignee / userRole / status / emailStatus / assignedAt / submittedAt"
// @Param order query string false "asc / desc"
// @Success 200 {object} util.Response{data=service.AssignmentList} "成功"
// @Router /admin/surveys/{id}/assignments [get]
func (c *SurveyAdminController) ListAssignments(ctx *gin.Context) {
	q, err := listQuery(ctx)
	if err != nil {
		util.HandleError(ctx, err, "load assignments")
		return
	}
	list, err := c.Surveys.ListAssignments(ctx.Request.Context(), ctx.Param("id"), q)
	if err != nil {
		util.HandleError(ctx, err, "load assignments")
		return
	}
	util.Success(ctx, list)
}

// ListResponses godoc
// @Summary 问卷答卷
// @Description 匿名问卷不返回用户ID
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response{data=service.ResponseList} "成功"
// @Router /admin/surveys/{id}/responses [get]
func (c *SurveyAdminController) ListResponses(ctx *gin.Context) {
	list, err := c.Surveys.ListResponses(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "load responses")
		return
	}
	util.Success(ctx, list)
}

// GetResults godoc
// @Summary 问卷结果
// @Description 每题每个选项的票数与百分比、完成率与平均完成时长
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response{data=model.ResultsReport} "成功"
// @Failure 404 {object} util.Response "问卷不存在"
// @Router /admin/surveys/{id}/results [get]
func (c *SurveyAdminController) GetResults(ctx *gin.Context) {
	report, err := c.Results.GetResults(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "load results")
		return
	}
	util.Success(ctx, report)
}

// LiveResults godoc
// @Summary 实时结果
// @Description WebSocket；连接后先推送当前结果，之后每次提交推送一次
// @Tags 问卷管理
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Param token query string false "JWT"
// @Router /admin/surveys/{id}/results/live [get]
func (c *SurveyAdminController) LiveResults(ctx *gin.Context) {
	surveyID := ctx.Param("id")
	report, err := c.Results.GetResults(ctx.Request.Context(), surveyID)
	if err != nil {
		util.HandleError(ctx, err, "load results")
		return
	}
	if err := c.Hub.Serve(ctx.Writer, ctx.Request, surveyID, report); err != nil {
		logger.Log.Warn("WebSocket upgrade failed", zap.String("surveyId", surveyID), zap.Error(err))
	}
}

// ExportResults godoc
// @Summary 导出结果
// @Description format 为 CSV 或 JSON；archive=true 时上传到对象存储并返回地址
// @Tags 问卷管理
// @Produce text/csv,json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Param format query string false "CSV / JSON"
// @Param archive query bool false "是否归档"
// @Success 200 {file} file "导出文件"
// @Failure 400 {object} util.Response "格式不支持"
// @Router /admin/surveys/{id}/export [get]
func (c *SurveyAdminController) ExportResults(ctx *gin.Context) {
	format, err := service.ParseExportFormat(ctx.Query("format"))
	if err != nil {
		util.HandleError(ctx, err, "export results")
		return
	}
	archive := boolQuery(ctx, "archive")
	file, err := c.Exports.ExportResults(ctx.Request.Context(), ctx.Param("id"), format, archive)
	if err != nil {
		util.HandleError(ctx, err, "export results")
		return
	}
	sendFile(ctx, file, archive)
}

// ExportSurveys godoc
// @Summary 导出问卷列表
// @Description 与问卷列表相同的筛选与排序，CSV 格式
// @Tags 问卷管理
// @Produce text/csv
// @Security ApiKeyAuth
// @Param status query string false "状态"
// @Param q query string false "搜索"
// @Param sort query string false "排序字段"
// @Param order query string false "asc / desc"
// @Param archive query bool false "是否归档"
// @Success 200 {file} file "导出文件"
// @Router /admin/surveys/export [get]
func (c *SurveyAdminController) ExportSurveys(ctx *gin.Context) {
	q, err := listQuery(ctx)
	if err != nil {
		util.HandleError(ctx, err, "export surveys")
		return
	}
	archive := boolQuery(ctx, "archive")
	file, err := c.Exports.ExportSurveys(ctx.Request.Context(), q, archive)
	if err != nil {
		util.HandleError(ctx, err, "export surveys")
		return
	}
	sendFile(ctx, file, archive)
}

// ExportAssignments godoc
// @Summary 导出分配列表
// @Tags 问卷管理
// @Produce text/csv
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Param status query string false "状态"
// @Param q query string false "按用户ID搜索"
// @Param sort query string false "排序字段"
// @Param order query string false "asc / desc"
// @Param archive query bool false "是否归档"
// @Success 200 {file} file "导出文件"
// @Router /admin/surveys/{id}/assignments/export [get]
func (c *SurveyAdminController) ExportAssignments(ctx *gin.Context) {
	q, err := listQuery(ctx)
	if err != nil {
		util.HandleError(ctx, err, "export assignments")
		return
	}
	archive := boolQuery(ctx, "archive")
	file, err := c.Exports.ExportAssignments(ctx.Request.Context(), ctx.Param("id"), q, archive)
	if err != nil {
		util.HandleError(ctx, err, "export assignments")
		return
	}
	sendFile(ctx, file, archive)
}

// CreateSurvey godoc
// @Summary 创建问卷
// @Description 按模板生成题目并为每个用户创建分配；publish=true 时直接发布并发送通知
// @Tags 问卷管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateSurveyRequest true "问卷信息"
// @Success 201 {object} util.Response{data=model.Survey} "创建成功"
// @Failure 400 {object} util.Response "参数错误"
// @Router /admin/surveys [post]
func (c *SurveyAdminController) CreateSurvey(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	var req service.CreateSurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	survey, err := c.Surveys.CreateSurvey(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err, "create survey")
		return
	}
	util.Created(ctx, survey)
}

// ActivateSurvey godoc
// @Summary 发布问卷
// @Description DRAFT → ACTIVE，并通知尚未收到邮件的用户
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response{data=model.Survey} "成功"
// @Failure 409 {object} util.Response "状态不允许"
// @Router /admin/surveys/{id}/activate [post]
func (c *SurveyAdminController) ActivateSurvey(ctx *gin.Context) {
	survey, err := c.Surveys.ActivateSurvey(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "activate survey")
		return
	}
	util.Success(ctx, survey)
}

// CloseSurvey godoc
// @Summary 关闭问卷
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response{data=model.Survey} "成功"
// @Failure 409 {object} util.Response "问卷已关闭"
// @Router /admin/surveys/{id}/close [post]
func (c *SurveyAdminController) CloseSurvey(ctx *gin.Context) {
	survey, err := c.Surveys.CloseSurvey(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "close survey")
		return
	}
	util.Success(ctx, survey)
}

// DiscardAssignment godoc
// @Summary 作废分配
// @Description 仅未提交的分配可作废
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "分配ID"
// @Success 200 {object} util.Response{data=model.Assignment} "成功"
// @Failure 409 {object} util.Response "已提交"
// @Router /admin/assignments/{id}/discard [post]
func (c *SurveyAdminController) DiscardAssignment(ctx *gin.Context) {
	a, err := c.Surveys.DiscardAssignment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "discard assignment")
		return
	}
	util.Success(ctx, a)
}

// ListTemplates godoc
// @Summary 问卷模板
// @Tags 问卷管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.SurveyTemplate} "成功"
// @Router /admin/templates [get]
func (c *SurveyAdminController) ListTemplates(ctx *gin.Context) {
	templates, err := c.Templates.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err, "load templates")
		return
	}
	util.Success(ctx, templates)
}
