package request

type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,in_phone"`
}

type ListUsersRequest struct {
	PaginatedRequest
	Role string `json:"role,omitempty" validate:"omitempty,oneof=customer owner agent admin"`
}

type BankDetailsRequest struct {
	AccountHolderName string  `json:"account_holder_name" validate:"required,min=2,max=100"`
	AccountNumber     string  `json:"account_number" validate:"required,bank_account"`
	IFSC              string  `json:"ifsc" validate:"required,ifsc"`
	BankName          string  `json:"bank_name" validate:"required,max=100"`
	PAN               *string `json:"pan,omitempty" validate:"omitempty,pan"`
}
