package controller

import (
	"audit_survey_backend/internal/service"
	"audit_survey_backend/internal/util"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// listQuery 解析 status / q / sort / order 查询参数
func listQuery(ctx *gin.Context) (service.ListQuery, error) {
	order, err := service.ParseSortOrder(ctx.Query("order"), service.SortDesc)
	if err != nil {
		return service.ListQuery{}, err
	}
	return service.ListQuery{
		Status: ctx.Query("status"),
		Search: ctx.Query("q"),
		Sort:   ctx.Query("sort"),
		Order:  order,
	}, nil
}

func boolQuery(ctx *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(ctx.Query(key))
	return v
}

func currentUser(ctx *gin.Context) *util.Claims {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
	}
	return claims
}

// sendFile 归档时返回地址，否则直接下载
func sendFile(ctx *gin.Context, file *service.ExportFile, archived bool) {
	if archived {
		util.Success(ctx, file)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}
