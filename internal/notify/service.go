package notify

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"carelink-server/internal/config"
	"carelink-server/internal/models"
	"carelink-server/pkg/logging"
)

// Sender delivers a rendered notification over one channel (email, sms, ...).
type Sender interface {
	Send(ctx context.Context, recipient models.User, subject, body string) error
}

// Service persists notifications and delivers them best-effort. Delivery
// failures are logged and swallowed: a reschedule that committed must never
// be reported as failed because the patient email bounced.
type Service struct {
	db      *gorm.DB
	senders map[string]Sender
	cfg     config.NotifyConfig
	logger  *logging.Logger
}

// NewService creates a notification service.
func NewService(db *gorm.DB, cfg config.NotifyConfig, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		db:      db,
		senders: map[string]Sender{},
		cfg:     cfg,
		logger:  logger,
	}
}

// RegisterSender wires a delivery channel into the service.
func (s *Service) RegisterSender(channel string, sender Sender) {
	s.senders[channel] = sender
}

// Dispatch stores the notification and attempts delivery. The returned error
// covers persistence only; delivery problems are logged, never propagated.
func (s *Service) Dispatch(ctx context.Context, n *models.Notification) error {
	if n.Channel == "" {
		n.Channel = s.cfg.DefaultChannel
	}

	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("notify: store notification: %w", err)
	}

	sender, ok := s.senders[n.Channel]
	if !ok {
		s.logger.Warn("notify: no sender for channel, notification stored undelivered",
			"channel", n.Channel, "notification_id", n.ID)
		return nil
	}

	var recipient models.User
	if err := s.db.WithContext(ctx).First(&recipient, "id = ?", n.RecipientID).Error; err != nil {
		s.logger.Error("notify: recipient lookup failed", "error", err,
			"recipient_id", n.RecipientID, "notification_id", n.ID)
		return nil
	}

	subject := subjectFor(n.Type)
	if err := sender.Send(ctx, recipient, subject, n.Message); err != nil {
		s.logger.Error("notify: delivery failed", "error", err,
			"channel", n.Channel, "notification_id", n.ID)
		return nil
	}

	now := time.Now()
	n.SentAt = &now
	if err := s.db.WithContext(ctx).Model(n).Update("sent_at", now).Error; err != nil {
		s.logger.Error("notify: failed to record delivery time", "error", err,
			"notification_id", n.ID)
	}

	s.logger.Info("notification delivered", "channel", n.Channel,
		"type", n.Type, "notification_id", n.ID)
	return nil
}

func subjectFor(t models.NotificationType) string {
	switch t {
	case models.NotificationReschedule:
		return "Your appointment has been rescheduled"
	case models.NotificationStatusChange:
		return "Your appointment status has changed"
	default:
		return "CareLink notification"
	}
}

// LogSender writes notifications to the application log instead of an
// external provider. Used in development and as the default channel sink.
type LogSender struct {
	Logger *logging.Logger
}

// Send implements Sender.
func (l LogSender) Send(ctx context.Context, recipient models.User, subject, body string) error {
	logger := l.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger.Info("notification (log channel)",
		"to", recipient.Email, "subject", subject, "body", body)
	return nil
}
