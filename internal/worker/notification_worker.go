package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/service"
)

// StartNotificationWorker subscribes the notification service to complaint
// events. Webhook delivery runs on its own goroutines inside the service.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Info("notifications disabled")
		return
	}
	subscribed := notificationService.RegisterHandlers()
	names := make([]string, 0, len(subscribed))
	for _, eventType := range subscribed {
		names = append(names, string(eventType))
	}
	logger.Info("notification worker started",
		zap.Strings("events", names),
		zap.Bool("webhook", notificationService.WebhookEnabled()))
}
