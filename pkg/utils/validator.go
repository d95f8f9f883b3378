package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ifscPattern        = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	bankAccountPattern = regexp.MustCompile(`^[0-9]{9,18}$`)
	panPattern         = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	phonePattern       = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("ifsc", func(fl validator.FieldLevel) bool {
		return IsValidIFSC(fl.Field().String())
	})
	_ = v.RegisterValidation("bank_account", func(fl validator.FieldLevel) bool {
		return IsValidBankAccount(fl.Field().String())
	})
	_ = v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return IsValidPAN(fl.Field().String())
	})
	_ = v.RegisterValidation("in_phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})

	return v
}

func IsValidIFSC(code string) bool {
	return ifscPattern.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

func IsValidBankAccount(number string) bool {
	return bankAccountPattern.MatchString(strings.TrimSpace(number))
}

func IsValidPAN(pan string) bool {
	return panPattern.MatchString(strings.ToUpper(strings.TrimSpace(pan)))
}

// IsValidPhone accepts 10-digit Indian mobile numbers, with or without +91.
func IsValidPhone(phone string) bool {
	p := strings.TrimPrefix(strings.TrimSpace(phone), "+")
	if len(p) == 12 && strings.HasPrefix(p, "91") {
		p = p[2:]
	}
	return phonePattern.MatchString(p)
}

func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors[err.Field()] = getErrorMessage(err)
		}
	}

	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum value is %s", err.Param())
	case "max":
		return fmt.Sprintf("Maximum value is %s", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "ifsc":
		return "Invalid IFSC code"
	case "bank_account":
		return "Account number must be 9 to 18 digits"
	case "pan":
		return "Invalid PAN format"
	case "in_phone":
		return "Invalid mobile number"
	case "gtfield":
		return fmt.Sprintf("Must be after %s", err.Param())
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// formats validation errors map into single string
func FormatValidationErrors(errors map[string]string) string {
	var msgs []string
	for field, msg := range errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}
