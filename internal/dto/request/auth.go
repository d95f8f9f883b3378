package request

type RegisterRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2,max=100"`
	Username string  `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,in_phone"`
	// admin accounts are never self-registered
	Role string `json:"role,omitempty" validate:"omitempty,oneof=customer owner agent"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"` // username or email
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,numeric,min=4,max=8"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Type  string `json:"type" validate:"required,oneof=email_verification password_reset"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,numeric,min=4,max=8"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}
