package controller

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/service"
	"audit_survey_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserSurveyController 用户端：我的问卷与作答
type UserSurveyController struct {
	Surveys  *service.SurveyService
	Sessions *service.SessionService
}

func NewUserSurveyController(surveys *service.SurveyService, sessions *service.SessionService) *UserSurveyController {
	return &UserSurveyController{Surveys: surveys, Sessions: sessions}
}

// AnswersRequest 整份答案
type AnswersRequest struct {
	Answers []model.Answer `json:"answers"`
}

// AnswerRequest 单题答案；选择题使用 value，文本题使用 textValue
type AnswerRequest struct {
	Value     []string `json:"value"`
	TextValue string   `json:"textValue"`
}

// ListSurveys godoc
// @Summary 我的问卷
// @Description 草稿问卷与已作废的分配不返回；urgent 表示距截止日不超过 3 天
// @Tags 问卷作答
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "ACTIVE / CLOSED / ALL"
// @Param q query string false "搜索"
// @Param sort query string false "排序字段"
// @Param order query string false "asc / desc"
// @Success 200 {object} util.Response{data=service.UserSurveyList} "成功"
// @Router /user/surveys [get]
func (c *UserSurveyController) ListSurveys(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	q, err := listQuery(ctx)
	if err != nil {
		util.HandleError(ctx, err, "load surveys")
		return
	}
	list, err := c.Surveys.ListUserSurveys(ctx.Request.Context(), user.UserID, q)
	if err != nil {
		util.HandleError(ctx, err, "load surveys")
		return
	}
	util.Success(ctx, list)
}

// GetQuestions godoc
// @Summary 作答题目
// @Description 只返回面向当前用户角色的题目，附带已保存的草稿
// @Tags 问卷作答
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response{data=service.TakeView} "成功"
// @Failure 403 {object} util.Response "未被分配"
// @Router /user/surveys/{id}/questions [get]
func (c *UserSurveyController) GetQuestions(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	view, err := c.Surveys.UserQuestions(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	if err != nil {
		util.HandleError(ctx, err, "load questions")
		return
	}
	util.Success(ctx, view)
}

// SaveDraft godoc
// @Summary 保存草稿
// @Tags 问卷作答
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Param body body AnswersRequest true "部分答案"
// @Success 200 {object} util.Response{data=model.Assignment} "成功"
// @Failure 409 {object} util.Response "问卷已关闭或已提交"
// @Router /user/surveys/{id}/draft [put]
func (c *UserSurveyController) SaveDraft(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	var req AnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.Surveys.SaveDraft(ctx.Request.Context(), ctx.Param("id"), user.UserID, req.Answers)
	if err != nil {
		util.HandleError(ctx, err, "save draft")
		return
	}
	util.Success(ctx, a)
}

// SubmitResponse godoc
// @Summary 提交答卷
// @Tags 问卷作答
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Param body body AnswersRequest true "全部答案"
// @Success 201 {object} util.Response{data=model.Response} "提交成功"
// @Failure 400 {object} util.Response "必答题缺失或答案无效"
// @Failure 409 {object} util.Response "问卷已关闭或已提交"
// @Router /user/surveys/{id}/responses [post]
func (c *UserSurveyController) SubmitResponse(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	var req AnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	resp, err := c.Surveys.SubmitResponse(ctx.Request.Context(), ctx.Param("id"), user.UserID, req.Answers)
	if err != nil {
		util.HandleError(ctx, err, "submit response")
		return
	}
	util.Created(ctx, resp)
}

// StartSession godoc
// @Summary 开始逐题作答
// @Description 同一问卷复用未过期的会话
// @Tags 问卷作答
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Router /user/surveys/{id}/sessions [post]
func (c *UserSurveyController) StartSession(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	view, err := c.Sessions.Start(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	if err != nil {
		util.HandleError(ctx, err, "start session")
		return
	}
	util.Success(ctx, view)
}

// GetSession godoc
// @Summary 当前作答状态
// @Tags 问卷作答
// @Produce json
// @Security ApiKeyAuth
// @Param sid path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 404 {object} util.Response "会话不存在或已过期"
// @Router /user/sessions/{sid} [get]
func (c *UserSurveyController) GetSession(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	view, err := c.Sessions.Get(ctx.Param("sid"), user.UserID)
	if err != nil {
		util.HandleError(ctx, err, "load session")
		return
	}
	util.Success(ctx, view)
}

// SetAnswer godoc
// @Summary 作答单题
// @Description 空答案表示清除
// @Tags 问卷作答
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sid path string true "会话ID"
// @Param questionId path string true "题目ID"
// @Param body body AnswerRequest true "答案"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 400 {object} util.Response "答案无效"
// @Router /user/sessions/{sid}/answers/{questionId} [put]
func (c *UserSurveyController) SetAnswer(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.Sessions.SetAnswer(ctx.Param("sid"), user.UserID, ctx.Param("questionId"), req.Value, req.TextValue)
	if err != nil {
		util.HandleError(ctx, err, "save answer")
		return
	}
	util.Success(ctx, view)
}

// Next godoc
// @Summary 下一题
// @Description 必答题未作答时不能前进
// @Tags 问卷作答
// @Produce json
// @Security ApiKeyAuth
// @Param sid path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 400 {object} util.Response "必答题未作答或已是最后一题"
// @Router /user/sessions/{sid}/next [post]
func (c *UserSurveyController) Next(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	view, err := c.Sessions.Next(ctx.Param("sid"), user.UserID)
	if err != nil {
		util.HandleError(ctx, err, "move to next question")
		return
	}
	util.Success(ctx, view)
}

// Previous godoc
// @Summary 上一题
// @Tags 问卷作答
// @Produce json
// @Security ApiKeyAuth
// @Param sid path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Router /user/sessions/{sid}/previous [post]
func (c *UserSurveyController) Previous(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	view, err := c.Sessions.Previous(ctx.Param("sid"), user.UserID)
	if err != nil {
		util.HandleError(ctx, err, "move to previous question")
		return
	}
	util.Success(ctx, view)
}

// SubmitSession godoc
// @Summary 提交会话答卷
// @Tags 问卷作答
// @Produce json
// @Security ApiKeyAuth
// @Param sid path string true "会话ID"
// @Success 201 {object} util.Response{data=model.Response} "提交成功"
// @Failure 400 {object} util.Response "必答题缺失"
// @Router /user/sessions/{sid}/submit [post]
func (c *UserSurveyController) SubmitSession(ctx *gin.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	resp, err := c.Sessions.Submit(ctx.Request.Context(), ctx.Param("sid"), user.UserID)
	if err != nil {
		util.HandleError(ctx, err, "submit response")
		return
	}
	util.Created(ctx, resp)
}
