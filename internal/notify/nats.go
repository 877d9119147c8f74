package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gearguard-backend/internal/logger"

	"github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn the notifier needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes notifications as JSON on the subject of their kind
type NATSNotifier struct {
	conn Publisher
}

// NewNATSNotifier creates a notifier over an existing publisher
func NewNATSNotifier(conn Publisher) *NATSNotifier {
	return &NATSNotifier{conn: conn}
}

// Connect dials the NATS server with reconnects enabled
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("gearguard-backend"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.New().WithError(err).Warn("NATS disconnected")
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return conn, nil
}

// Notify publishes the notification
func (n *NATSNotifier) Notify(ctx context.Context, notification Notification) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := n.conn.Publish(notification.Kind.Subject(), data); err != nil {
		return fmt.Errorf("publish %s: %w", notification.Kind, err)
	}
	return nil
}
