package slack

import (
	"context"
	"fmt"
)

// Notifier publishes audit messages to a notification channel.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}

// RoleEscalationMessage formats the audit line sent when a user is promoted to admin.
func RoleEscalationMessage(userID string, matched, modified int64, requestID string) string {
	return fmt.Sprintf(":warning: *Admin role granted*\nUser: `%s`\nMatched: %d, modified: %d\nRequest: `%s`",
		userID, matched, modified, requestID)
}
