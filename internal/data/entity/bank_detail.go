package entity

import "github.com/google/uuid"

// BankDetail is where an owner's payouts go. Stored in full, always
// returned masked.
type BankDetail struct {
	BaseNoDelete
	UserID            uuid.UUID `db:"user_id"`
	AccountHolderName string    `db:"account_holder_name"`
	AccountNumber     string    `db:"account_number"`
	IFSC              string    `db:"ifsc"`
	BankName          string    `db:"bank_name"`
	PAN               *string   `db:"pan"`
}
