package util

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ParsePage page 从 1 开始；limit 为 0 表示不分页
func ParsePage(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit < 0 {
		limit = 0
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Paginate limit 为 0 时返回全部
func Paginate[T any](list []T, page, limit int) []T {
	if limit == 0 {
		return list
	}
	// 先按页数比较，超大 page 相乘会溢出
	if page < 1 || page-1 >= (len(list)+limit-1)/limit {
		return []T{}
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// ParseDate 接受 YYYY-MM-DD 或 RFC3339
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
