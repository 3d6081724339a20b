package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ResultsCache 结果缓存；nil 表示未启用 Redis，所有方法均可安全调用
type ResultsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResultsCache(rdb *redis.Client, ttl time.Duration) *ResultsCache {
	if rdb == nil {
		return nil
	}
	return &ResultsCache{rdb: rdb, ttl: ttl}
}

func resultsKey(surveyID string) string {
	return fmt.Sprintf("survey:results:%s", surveyID)
}

func (c *ResultsCache) Get(ctx context.Context, surveyID string) (*model.ResultsReport, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, resultsKey(surveyID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Results cache read failed", zap.String("surveyId", surveyID), zap.Error(err))
		}
		return nil, false
	}
	var report model.ResultsReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false
	}
	return &report, true
}

func (c *ResultsCache) Set(ctx context.Context, surveyID string, report *model.ResultsReport) {
	if c == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, resultsKey(surveyID), data, c.ttl).Err(); err != nil {
		logger.Log.Warn("Results cache write failed", zap.String("surveyId", surveyID), zap.Error(err))
	}
}

func (c *ResultsCache) Invalidate(ctx context.Context, surveyID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, resultsKey(surveyID)).Err(); err != nil {
		logger.Log.Warn("Results cache invalidation failed", zap.String("surveyId", surveyID), zap.Error(err))
	}
}
