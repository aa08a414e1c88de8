package slack

import (
	"context"

	"go.uber.org/zap"
)

// MockSlack implements Notifier by logging the message. It is used when no
// webhook URL is configured.
type MockSlack struct {
	log *zap.Logger
}

func NewMockSlack(log *zap.Logger) *MockSlack {
	return &MockSlack{log: log}
}

func (m *MockSlack) Publish(ctx context.Context, message string) error {
	m.log.Info("published to slack channel (mock)", zap.String("message", message))
	return nil
}
