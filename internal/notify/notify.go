// Package notify delivers maintenance notifications to technicians and
// equipment owners over NATS, or to the log when no broker is configured.
package notify

import (
	"context"
	"time"

	"gearguard-backend/internal/logger"

	"github.com/google/uuid"
)

// NATS subjects notifications are published on
const (
	SubjectOverdue  = "gearguard.notifications.overdue"
	SubjectWarranty = "gearguard.notifications.warranty"
)

// Kind identifies the notification type
type Kind string

const (
	KindOverdueReminder Kind = "overdue_reminder"
	KindWarrantyAlert   Kind = "warranty_alert"
)

// Subject returns the NATS subject for the kind
func (k Kind) Subject() string {
	if k == KindWarrantyAlert {
		return SubjectWarranty
	}
	return SubjectOverdue
}

// Notification is a rendered message addressed to one recipient
type Notification struct {
	Kind           Kind        `json:"kind"`
	RecipientID    *uuid.UUID  `json:"recipient_id,omitempty"`
	RecipientEmail string      `json:"recipient_email,omitempty"`
	EquipmentID    *uuid.UUID  `json:"equipment_id,omitempty"`
	RequestIDs     []uuid.UUID `json:"request_ids,omitempty"`
	Subject        string      `json:"subject"`
	Body           string      `json:"body"`
	SentAt         time.Time   `json:"sent_at"`
}

// Notifier delivers notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the application log
type LogNotifier struct{}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification at info level
func (LogNotifier) Notify(ctx context.Context, n Notification) error {
	fields := map[string]interface{}{
		"kind":    n.Kind,
		"subject": n.Subject,
	}
	if n.RecipientID != nil {
		fields["recipient"] = n.RecipientID.String()
	}
	if n.EquipmentID != nil {
		fields["equipment_id"] = n.EquipmentID.String()
	}
	if len(n.RequestIDs) > 0 {
		fields["requests"] = len(n.RequestIDs)
	}
	logger.WithContext(ctx).WithFields(fields).Info("notification")
	return nil
}
