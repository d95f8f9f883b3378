package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/internal/dto/request"
	"picnify/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authFixture struct {
	svc      AuthService
	users    *fakeUserRepo
	otps     *fakeOTPRepo
	sessions *fakeSessionRepo
	mailer   *fakeMailer
	user     *entity.User
	now      time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	user := &entity.User{
		Base:     entity.Base{ID: uuid.New()},
		FullName: "Meera Iyer",
		Email:    "meera@example.com",
		Role:     entity.RoleCustomer,
		IsActive: true,
	}
	f := &authFixture{
		users:    &fakeUserRepo{user: user},
		otps:     &fakeOTPRepo{},
		sessions: &fakeSessionRepo{},
		mailer:   &fakeMailer{},
		user:     user,
		now:      fixedNow,
	}

	repo := &repository.Repository{User: f.users, OTP: f.otps, Session: f.sessions}
	config := &utils.Config{OTP: utils.OTPConfig{ExpiryMinutes: 10, Length: 6}}
	f.svc = NewAuthService(repo, config, Deps{
		Mailer: f.mailer,
		Now:    func() time.Time { return f.now },
	}, zap.NewNop())
	return f
}

func (f *authFixture) sendOTP(t *testing.T, otpType entity.OTPType) string {
	t.Helper()
	err := f.svc.SendOTP(context.Background(), &request.SendOTPRequest{Email: " Meera@Example.com ", Type: string(otpType)})
	if err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	return f.otps.otps[len(f.otps.otps)-1].OTPCode
}

func TestSendOTPIssuesCode(t *testing.T) {
	f := newAuthFixture(t)
	code := f.sendOTP(t, entity.OTPTypePasswordReset)

	if len(code) != 6 {
		t.Errorf("code %q, want 6 digits", code)
	}
	otp := f.otps.otps[0]
	if otp.UserID != f.user.ID || otp.OTPType != entity.OTPTypePasswordReset {
		t.Errorf("unexpected otp %+v", otp)
	}
	if want := fixedNow.Add(10 * time.Minute); !otp.ExpiresAt.Equal(want) {
		t.Errorf("expires at %s, want %s", otp.ExpiresAt, want)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0] != f.user.Email {
		t.Errorf("mailed %v, want [%s]", f.mailer.sent, f.user.Email)
	}
}

func TestSendOTPReplacesPendingCode(t *testing.T) {
	f := newAuthFixture(t)
	first := f.sendOTP(t, entity.OTPTypePasswordReset)
	second := f.sendOTP(t, entity.OTPTypePasswordReset)

	if f.otps.invalidated != 1 {
		t.Fatalf("invalidated %d pending codes, want 1", f.otps.invalidated)
	}
	if first == second {
		t.Skip("generator repeated a code; nothing to distinguish")
	}

	err := f.svc.ResetPassword(context.Background(), &request.ResetPasswordRequest{
		Email: f.user.Email, OTP: first, NewPassword: "monsoon-2026",
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("replaced code still accepted: %v", err)
	}
}

func TestSendOTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *authFixture) *request.SendOTPRequest
		wantErr error
	}{
		{
			name: "unknown email",
			setup: func(f *authFixture) *request.SendOTPRequest {
				return &request.SendOTPRequest{Email: "nobody@example.com", Type: "password_reset"}
			},
			wantErr: ErrNotFound,
		},
		{
			name: "email already verified",
			setup: func(f *authFixture) *request.SendOTPRequest {
				f.user.EmailVerified = true
				return &request.SendOTPRequest{Email: f.user.Email, Type: "email_verification"}
			},
			wantErr: ErrConflict,
		},
		{
			name: "unknown type",
			setup: func(f *authFixture) *request.SendOTPRequest {
				return &request.SendOTPRequest{Email: f.user.Email, Type: "login"}
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			err := f.svc.SendOTP(context.Background(), tt.setup(f))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(f.mailer.sent) != 0 {
				t.Error("mail sent for a rejected request")
			}
		})
	}
}

func TestVerifyEmailIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	code := f.sendOTP(t, entity.OTPTypeEmailVerification)
	req := &request.VerifyEmailRequest{Email: f.user.Email, OTP: code}

	if err := f.svc.VerifyEmail(context.Background(), req); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	if f.users.verified != f.user.ID {
		t.Errorf("verified %s, want %s", f.users.verified, f.user.ID)
	}

	if err := f.svc.VerifyEmail(context.Background(), req); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("second use: expected invalid argument, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	code := f.sendOTP(t, entity.OTPTypePasswordReset)

	err := f.svc.ResetPassword(context.Background(), &request.ResetPasswordRequest{
		Email: f.user.Email, OTP: code, NewPassword: "monsoon-2026",
	})
	if err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if f.users.updated == nil || !utils.CheckPasswordHash("monsoon-2026", f.users.updated.PasswordHash) {
		t.Fatal("new password was not stored")
	}
	if f.sessions.revokedFor != f.user.ID {
		t.Error("existing sessions were not revoked")
	}
}

func TestResetPasswordRejectsBadCodes(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *authFixture) string
	}{
		{
			name: "expired",
			setup: func(t *testing.T, f *authFixture) string {
				code := f.sendOTP(t, entity.OTPTypePasswordReset)
				f.now = fixedNow.Add(10 * time.Minute)
				return code
			},
		},
		{
			name: "issued for email verification",
			setup: func(t *testing.T, f *authFixture) string {
				return f.sendOTP(t, entity.OTPTypeEmailVerification)
			},
		},
		{
			name: "never issued",
			setup: func(t *testing.T, f *authFixture) string {
				return "000000"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			code := tt.setup(t, f)

			err := f.svc.ResetPassword(context.Background(), &request.ResetPasswordRequest{
				Email: f.user.Email, OTP: code, NewPassword: "monsoon-2026",
			})
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
			if f.users.updated != nil || f.sessions.revokedFor != uuid.Nil {
				t.Error("password changed with a bad code")
			}
		})
	}
}
