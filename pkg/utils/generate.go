package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const bookingCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOTP creates a numeric OTP of the given length.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			n = big.NewInt(int64(time.Now().UnixNano() % 10))
		}
		sb.WriteString(n.String())
	}

	return sb.String()
}

// GenerateBookingCode returns a human friendly reference.
// Format: PCN-YYYYMMDD-XXXXXX
func GenerateBookingCode(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingCodeAlphabet))))
		if err != nil {
			n = big.NewInt(int64(now.UnixNano()>>uint(i)) % int64(len(bookingCodeAlphabet)))
		}
		suffix[i] = bookingCodeAlphabet[n.Int64()]
	}

	return fmt.Sprintf("PCN-%s-%s", now.Format("20060102"), string(suffix))
}
