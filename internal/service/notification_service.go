package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/consulting-service/internal/config"
	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/events"
)

// NotificationService emits stub notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventResourceCreated, n.handleResourceCreated)
	n.dispatcher.Subscribe(events.EventCourseViewed, n.handleCourseViewed)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.UserRegisteredPayload)
	n.logger.Info("UserRegistered", zap.String("user_id", event.ResourceID))
	n.sendEmailStub(ctx, payload.Email, "welcome", event)
	return nil
}

// handleResourceCreated tells the office about new appointments and
// contact messages.
func (n *NotificationService) handleResourceCreated(ctx context.Context, event events.Event) error {
	switch event.Resource {
	case domain.ResourceAppointments, domain.ResourceContactMessages:
	default:
		return nil
	}
	n.logger.Info("ResourceCreated",
		zap.String("resource", string(event.Resource)),
		zap.String("resource_id", event.ResourceID),
		zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, n.cfg.AdminEmail, string(event.Resource), event)
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCourseViewed(ctx context.Context, event events.Event) error {
	n.logger.Debug("CourseViewed", zap.String("course_id", event.ResourceID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailStub(_ context.Context, to, template string, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(to) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("template", template),
		zap.String("event_id", event.ID))
}

func (n *NotificationService) sendWebhookStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID))
}
