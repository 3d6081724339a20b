package service

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/model"
	"audit_survey_backend/pkg/logger"
	"audit_survey_backend/pkg/monitoring"
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const notifyConcurrency = 4

// Notifier 发送问卷分配通知
type Notifier interface {
	NotifyAssignment(ctx context.Context, survey *model.Survey, user *model.User) error
}

// ResendNotifier 通过 Resend 发送邮件
type ResendNotifier struct {
	client  *resend.Client
	from    string
	replyTo string
	baseURL string
}

func NewResendNotifier(cfg *config.EmailConfig) *ResendNotifier {
	return &ResendNotifier{
		client:  resend.NewClient(cfg.ResendAPIKey),
		from:    cfg.From,
		replyTo: cfg.ReplyTo,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (n *ResendNotifier) NotifyAssignment(ctx context.Context, survey *model.Survey, user *model.User) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{user.Email},
		Subject: fmt.Sprintf("New audit survey: %s", survey.Title),
		Html:    assignmentBody(survey, user, n.baseURL),
	}
	if n.replyTo != "" {
		params.ReplyTo = n.replyTo
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	logger.Log.Debug("Assignment email sent", zap.String("id", sent.Id), zap.String("to", user.Email))
	return nil
}

func assignmentBody(survey *model.Survey, user *model.User, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(user.Name))
	fmt.Fprintf(&b, "<p>You have been asked to complete <strong>%s</strong> for project %s.</p>",
		html.EscapeString(survey.Title), html.EscapeString(survey.Project))
	if !survey.Deadline.IsZero() {
		fmt.Fprintf(&b, "<p>Deadline: %s</p>", survey.Deadline.Format("2006-01-02"))
	}
	if baseURL != "" {
		link := fmt.Sprintf("%s/surveys/%s/take", baseURL, survey.ID)
		fmt.Fprintf(&b, `<p><a href="%s">Open the survey</a></p>`, html.EscapeString(link))
	}
	return b.String()
}

// LogNotifier 未配置邮件服务时只记录日志
type LogNotifier struct{}

func (LogNotifier) NotifyAssignment(ctx context.Context, survey *model.Survey, user *model.User) error {
	logger.Log.Info("Assignment notification",
		zap.String("surveyId", survey.ID),
		zap.String("userId", user.ID),
		zap.String("email", user.Email),
	)
	return nil
}

func NewNotifier(cfg *config.EmailConfig) Notifier {
	if strings.EqualFold(cfg.Provider, "resend") {
		if cfg.ResendAPIKey != "" {
			return NewResendNotifier(cfg)
		}
		logger.Log.Warn("RESEND_API_KEY not set, falling back to log notifier")
	}
	return LogNotifier{}
}

type NotificationService struct {
	notifier Notifier
	enabled  bool
}

func NewNotificationService(notifier Notifier, enabled bool) *NotificationService {
	return &NotificationService{notifier: notifier, enabled: enabled}
}

// NotifyAssignees 逐个通知被分配用户，返回 userID → 投递结果；未启用时返回 nil
func (s *NotificationService) NotifyAssignees(ctx context.Context, survey *model.Survey, users []model.User) map[string]model.EmailStatus {
	if s == nil || !s.enabled || len(users) == 0 {
		return nil
	}

	var mu sync.Mutex
	statuses := make(map[string]model.EmailStatus, len(users))
	g := new(errgroup.Group)
	g.SetLimit(notifyConcurrency)
	for i := range users {
		u := &users[i]
		g.Go(func() error {
			status := model.EmailSent
			if err := s.notifier.NotifyAssignment(ctx, survey, u); err != nil {
				status = model.EmailFailed
				logger.Log.Warn("Assignment notification failed",
					zap.String("surveyId", survey.ID),
					zap.String("userId", u.ID),
					zap.Error(err),
				)
			}
			monitoring.NotificationsTotal.WithLabelValues(string(status)).Inc()
			mu.Lock()
			statuses[u.ID] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return statuses
}
