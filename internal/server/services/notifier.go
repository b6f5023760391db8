package services

import (
	"context"

	"github.com/dmitrijs2005/mixmini/internal/logging"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

// ResetNotifier delivers a raw password reset token to its user.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, user *models.User, token string) error
}

// LogResetNotifier writes reset tokens to the log. There is no mail delivery.
type LogResetNotifier struct {
	log logging.Logger
}

func NewLogResetNotifier(log logging.Logger) *LogResetNotifier {
	return &LogResetNotifier{log: log}
}

func (n *LogResetNotifier) NotifyPasswordReset(ctx context.Context, user *models.User, token string) error {
	n.log.Info(ctx, "password reset requested", "user_id", user.ID, "email", user.Email, "token", token)
	return nil
}
