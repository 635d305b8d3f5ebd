package worker

import (
	"github.com/spec-kit/site-safety-service/internal/events"
	"github.com/spec-kit/site-safety-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to the
// domain events it reacts to.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService) {
	if dispatcher == nil || notifications == nil {
		return
	}
	dispatcher.Subscribe(events.EventRecordCreated, notifications.HandleRecordEvent)
	dispatcher.Subscribe(events.EventTemplateSaved, notifications.HandleRecordEvent)
	dispatcher.Subscribe(events.EventTemplateDeleted, notifications.HandleRecordEvent)
}
