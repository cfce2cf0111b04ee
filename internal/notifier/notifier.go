package notifier

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers a short text to a user through whatever front channel is
// attached. Delivery is best-effort; callers log failures and move on, they
// never roll back ledger state because a message did not go out.
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}

// LogNotifier writes notifications to the log. It stands in for a real
// messaging transport in tests and in deployments without one.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{
		logger: zap.L(),
	}
}

func (n *LogNotifier) Send(_ context.Context, userID int64, text string) error {
	n.logger.Info("notification",
		zap.Int64("user_id", userID),
		zap.String("text", text),
	)

	return nil
}
