package notify

import (
	"context"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/logging"
)

// LogSink writes the digest to the service log. It is always wired so a
// deployment without external sinks still surfaces transactions.
type LogSink struct {
	logger *logging.Logger
}

func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}

	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string {
	return "log"
}

func (s *LogSink) Publish(ctx context.Context, message string) error {
	s.logger.InfoContext(ctx, "transaction digest", "message", message)
	return nil
}
