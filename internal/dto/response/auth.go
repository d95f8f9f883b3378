package response

import (
	"time"

	"picnify/internal/data/entity"
	"picnify/pkg/utils"
)

type AuthResponse struct {
	UserID     string          `json:"user_id"`
	Token      string          `json:"token,omitempty"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	FullName   string          `json:"full_name"`
	Email      string          `json:"email"`
	Username   string          `json:"username"`
	Role       entity.UserRole `json:"role"`
	IsVerified bool            `json:"is_verified"`
}

type UserResponse struct {
	ID         string          `json:"id"`
	FullName   string          `json:"full_name"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	Phone      *string         `json:"phone,omitempty"`
	Role       entity.UserRole `json:"role"`
	IsVerified bool            `json:"is_verified"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// BankDetailsResponse never carries the full account number or PAN.
type BankDetailsResponse struct {
	AccountHolderName string    `json:"account_holder_name"`
	AccountNumber     string    `json:"account_number"`
	IFSC              string    `json:"ifsc"`
	BankName          string    `json:"bank_name"`
	PAN               *string   `json:"pan,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		FullName:   user.FullName,
		Username:   user.Username,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       user.Role,
		IsVerified: user.EmailVerified,
		IsActive:   user.IsActive,
		CreatedAt:  user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:     user.ID.String(),
		FullName:   user.FullName,
		Email:      user.Email,
		Username:   user.Username,
		Role:       user.Role,
		IsVerified: user.EmailVerified,
	}

	if session != nil {
		resp.Token = session.Token.String()
		expires := session.ExpiresAt
		resp.ExpiresAt = &expires
	}

	return resp
}

func BankDetailsToResponse(d *entity.BankDetail) BankDetailsResponse {
	resp := BankDetailsResponse{
		AccountHolderName: d.AccountHolderName,
		AccountNumber:     utils.MaskAccountNumber(d.AccountNumber),
		IFSC:              d.IFSC,
		BankName:          d.BankName,
		UpdatedAt:         d.UpdatedAt,
	}
	if d.PAN != nil {
		masked := utils.MaskPAN(*d.PAN)
		resp.PAN = &masked
	}
	return resp
}
