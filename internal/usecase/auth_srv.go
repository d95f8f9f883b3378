package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/internal/dto/request"
	"picnify/internal/dto/response"
	"picnify/pkg/mailer"
	"picnify/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	SendOTP(ctx context.Context, req *request.SendOTPRequest) error
	VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

// SessionMeta is the client information recorded with a new session.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

type authService struct {
	repo   *repository.Repository // groups user, session and otp repos
	config *utils.Config
	mailer mailer.Mailer
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, deps Deps, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mailer: deps.Mailer,
		now:    deps.Now,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Email must be free
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	// 3. Username must be free
	existing, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username already taken", ErrConflict)
	}

	// 4. Hash password
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := entity.RoleCustomer
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:     strings.TrimSpace(req.FullName),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
	}

	// 5. Save user
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	// 6. Send verification code in the background
	go s.sendVerificationOTP(user)

	// 7. Log the new user straight in
	session, err := s.createSession(ctx, user.ID, SessionMeta{})
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// username or email
	identifier := strings.TrimSpace(req.Username)
	user, err := s.repo.User.FindByEmail(ctx, strings.ToLower(identifier))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("identifier", utils.MaskEmail(identifier)))
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}

	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: invalid token format", ErrUnauthorized)
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID); err != nil {
		s.log.Warn("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("%w: session not found or already revoked", ErrUnauthorized)
	}

	return nil
}

func (s *authService) SendOTP(ctx context.Context, req *request.SendOTPRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user not found", ErrNotFound)
	}

	otpType := entity.OTPType(req.Type)
	if otpType == entity.OTPTypeEmailVerification && user.EmailVerified {
		return fmt.Errorf("%w: email already verified", ErrConflict)
	}

	return s.issueOTP(ctx, user, otpType)
}

func (s *authService) VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return err
	}

	otp, err := s.consumeOTP(ctx, req.Email, req.OTP, entity.OTPTypeEmailVerification)
	if err != nil {
		return err
	}

	if err := s.repo.User.MarkEmailVerified(ctx, otp.UserID); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}

	s.log.Info("Email verified", zap.String("user_id", otp.UserID.String()))
	return nil
}

// ResetPassword sets a new password and signs the user out everywhere.
func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return err
	}

	otp, err := s.consumeOTP(ctx, req.Email, req.OTP, entity.OTPTypePasswordReset)
	if err != nil {
		return err
	}

	user, err := s.repo.User.FindByID(ctx, otp.UserID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user not found", ErrNotFound)
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hashed
	user.UpdatedAt = s.now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.repo.Session.RevokeAllUserSessions(ctx, user.ID); err != nil {
		s.log.Warn("Failed to revoke sessions after password reset",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, meta SessionMeta) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(time.Duration(s.config.App.SessionHours) * time.Hour),
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IPAddress != "" {
		session.IPAddress = &meta.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *authService) issueOTP(ctx context.Context, user *entity.User, otpType entity.OTPType) error {
	if err := s.repo.OTP.InvalidatePending(ctx, user.Email, otpType); err != nil {
		return fmt.Errorf("invalidate previous codes: %w", err)
	}

	now := s.now()
	code := utils.GenerateOTP(s.config.OTP.Length)
	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Email:     user.Email,
		OTPCode:   code,
		OTPType:   otpType,
		ExpiresAt: now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}

	purpose := otpType.Purpose()

	body, err := mailer.RenderOTP(mailer.OTPMail{
		Name:    user.FullName,
		Purpose: purpose,
		Code:    code,
		Minutes: s.config.OTP.ExpiryMinutes,
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, user.Email, "Your Picnify "+purpose+" code", body); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}

	s.log.Info("OTP sent",
		zap.String("email", utils.MaskEmail(user.Email)),
		zap.String("otp_type", string(otpType)),
	)
	return nil
}

func (s *authService) consumeOTP(ctx context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	otp, err := s.repo.OTP.FindValidOTP(ctx, email, code, otpType)
	if err != nil {
		return nil, fmt.Errorf("find otp: %w", err)
	}
	if otp == nil || otp.Expired(s.now()) {
		return nil, fmt.Errorf("%w: invalid or expired OTP", ErrInvalidArgument)
	}

	if err := s.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		// lost a race with another request using the same code
		return nil, fmt.Errorf("%w: invalid or expired OTP", ErrInvalidArgument)
	}

	return otp, nil
}

func (s *authService) sendVerificationOTP(user *entity.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.issueOTP(ctx, user, entity.OTPTypeEmailVerification); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Error("Failed to send verification OTP", zap.Error(err), zap.String("user_id", user.ID.String()))
	}
}
