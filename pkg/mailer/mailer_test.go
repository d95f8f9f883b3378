package mailer

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestRenderCancellation(t *testing.T) {
	body, err := RenderCancellation(CancellationMail{
		Name:          "Asha <script>",
		BookingCode:   "PCN-AB12CD",
		Total:         "₹10,000.00",
		Fee:           "₹2,500.00",
		Refund:        "₹7,500.00",
		FeePercentage: 25,
		PolicyMessage: "25% cancellation fee.",
	})
	if err != nil {
		t.Fatalf("RenderCancellation() error = %v", err)
	}

	for _, want := range []string{"PCN-AB12CD", "Cancellation fee (25%)", "₹7,500.00", "25% cancellation fee."} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "<script>") {
		t.Error("customer name was not escaped")
	}
}

func TestRenderOTP(t *testing.T) {
	body, err := RenderOTP(OTPMail{Name: "Ravi", Purpose: "verification", Code: "482913", Minutes: 10})
	if err != nil {
		t.Fatalf("RenderOTP() error = %v", err)
	}
	if !strings.Contains(body, "482913") || !strings.Contains(body, "10 minutes") {
		t.Errorf("unexpected body:\n%s", body)
	}
}

func TestLogMailerNeverFails(t *testing.T) {
	m := NewLogMailer(zap.NewNop())
	if err := m.Send(context.Background(), "asha@example.com", "subject", "<p>body</p>"); err != nil {
		t.Errorf("Send() error = %v", err)
	}
}
