package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/events"
)

const webhookTimeout = 5 * time.Second

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	deliver    func(url string, event events.Event) error
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		deliver:    postWebhook,
	}
}

// RegisterHandlers subscribes to complaint events and reports which ones.
func (n *NotificationService) RegisterHandlers() []events.EventType {
	if n.dispatcher == nil {
		return nil
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
	return []events.EventType{events.EventComplaintCreated, events.EventComplaintStatusChanged}
}

// WebhookEnabled reports whether events are forwarded to an HTTP endpoint.
func (n *NotificationService) WebhookEnabled() bool {
	return strings.TrimSpace(n.cfg.WebhookURL) != ""
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleComplaintStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintStatusChanged",
		zap.String("complaint_id", event.ComplaintID),
		zap.String("work_id", event.Actor.WorkID),
		zap.Any("payload", event.Payload))
	n.sendWebhook(ctx, event)
	return nil
}

// sendWebhook posts the event in the background; failures are only logged.
func (n *NotificationService) sendWebhook(_ context.Context, event events.Event) {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return
	}
	go func() {
		if err := n.deliver(url, event); err != nil {
			n.logger.Warn("webhook delivery failed",
				zap.String("url", url),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}()
}

func postWebhook(url string, event events.Event) error {
	agent := fiber.Post(url).JSON(event).Timeout(webhookTimeout)
	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code >= fiber.StatusBadRequest {
		return fiber.NewError(code, "webhook rejected event")
	}
	return nil
}
