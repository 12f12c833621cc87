package worker

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/service"
)

func TestStartNotificationWorkerSubscribes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, config.NotificationConfig{})

	StartNotificationWorker(notifications, logger)

	if err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventComplaintCreated, ComplaintID: "CMP-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if logs.FilterMessage("notification worker started").Len() != 1 {
		t.Fatalf("expected startup log")
	}
	if logs.FilterMessage("ComplaintCreated").Len() != 1 {
		t.Fatalf("expected created event to be handled")
	}
}

func TestStartNotificationWorkerNil(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	StartNotificationWorker(nil, zap.New(core))
	if logs.FilterMessage("notifications disabled").Len() != 1 {
		t.Fatalf("expected disabled log")
	}
}
