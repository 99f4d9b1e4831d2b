// Package notify delivers user notifications. Messages are written to the log; no mail is sent.
package notify

import (
	"context"

	"github.com/d8nd8/python-final-diplom/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderNotice describes a confirmed order
type OrderNotice struct {
	OrderID int64
	Email   string
	Items   int
	Total   decimal.Decimal
}

// LogNotifier writes notifications as structured log entries
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier
func NewLogNotifier(l *zap.Logger) *LogNotifier {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogNotifier{logger: l.Named("notify")}
}

// SendEmailConfirmation records the confirmation token issued to a new user
func (n *LogNotifier) SendEmailConfirmation(ctx context.Context, email, token string) error {
	logger.Enrich(ctx, n.logger).Info("Email confirmation issued",
		zap.String("email", email),
		zap.String("token", token),
	)
	return nil
}

// SendOrderConfirmation records that an order was confirmed
func (n *LogNotifier) SendOrderConfirmation(ctx context.Context, notice OrderNotice) error {
	logger.Enrich(ctx, n.logger).Info("Order confirmed",
		zap.Int64("order_id", notice.OrderID),
		zap.String("email", notice.Email),
		zap.Int("items", notice.Items),
		zap.String("total", notice.Total.StringFixed(2)),
	)
	return nil
}
