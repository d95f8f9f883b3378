// Package gateway issues refunds against the payment gateway.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

var ErrRefundUnavailable = errors.New("refunds are not configured")

type Refunder interface {
	// Refund returns the gateway's refund id. amount is in paise.
	Refund(ctx context.Context, paymentID string, amount int64, notes map[string]string) (string, error)
}

type RazorpayRefunder struct {
	client *razorpay.Client
	log    *zap.Logger
}

func NewRazorpayRefunder(keyID, keySecret string, log *zap.Logger) *RazorpayRefunder {
	return &RazorpayRefunder{
		client: razorpay.NewClient(keyID, keySecret),
		log:    log.With(zap.String("component", "razorpay")),
	}
}

func (r *RazorpayRefunder) Refund(ctx context.Context, paymentID string, amount int64, notes map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := map[string]interface{}{
		"speed": "normal",
	}
	if len(notes) > 0 {
		n := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			n[k] = v
		}
		data["notes"] = n
	}

	body, err := r.client.Payment.Refund(paymentID, int(amount), data, nil)
	if err != nil {
		r.log.Error("Refund request failed",
			zap.Error(err),
			zap.String("payment_id", paymentID),
			zap.Int64("amount", amount),
		)
		return "", fmt.Errorf("refund payment %s: %w", paymentID, err)
	}

	refundID, _ := body["id"].(string)
	if refundID == "" {
		return "", fmt.Errorf("refund payment %s: gateway returned no refund id", paymentID)
	}

	r.log.Info("Refund issued",
		zap.String("payment_id", paymentID),
		zap.String("refund_id", refundID),
		zap.Int64("amount", amount),
	)
	return refundID, nil
}

// DisabledRefunder rejects every refund; cancellations still complete and
// the refund is settled manually.
type DisabledRefunder struct{}

func (DisabledRefunder) Refund(context.Context, string, int64, map[string]string) (string, error) {
	return "", ErrRefundUnavailable
}
