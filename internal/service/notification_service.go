package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/petsafe/pettag-service/internal/config"
	"github.com/petsafe/pettag-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
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
	n.dispatcher.Subscribe(events.EventPetRegistered, n.handlePetRegistered)
	n.dispatcher.Subscribe(events.EventPetMissingToggled, n.handlePetMissingToggled)
}

func (n *NotificationService) handlePetRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("PetRegistered", zap.String("pet_id", event.PetID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePetMissingToggled(ctx context.Context, event events.Event) error {
	n.logger.Info("PetMissingToggled", zap.String("pet_id", event.PetID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("pet_id", event.PetID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("pet_id", event.PetID),
		zap.String("event_type", string(event.Type)))
}
