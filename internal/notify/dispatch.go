package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/conference-room-backend/internal/pkg/metrics"
)

// Dispatch delivers each message through the notifier. Failures are logged
// and dropped; they never propagate to the caller, so a state transition can
// not be failed by its own notifications.
func Dispatch(ctx context.Context, n Notifier, msgs []Message) {
	for _, msg := range msgs {
		if err := n.Notify(ctx, msg); err != nil {
			metrics.NotifyFailures.Inc()
			logrus.WithError(err).WithFields(logrus.Fields{
				"to":      msg.To,
				"subject": msg.Subject,
			}).Warn("notification delivery failed, dropping")
		}
	}
}
