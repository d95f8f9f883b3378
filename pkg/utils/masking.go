package utils

import "strings"

// MaskAccountNumber keeps the last four digits: "123456789012" -> "XXXXXXXX9012".
func MaskAccountNumber(number string) string {
	return maskKeepLast(strings.TrimSpace(number), 4)
}

// MaskPhone keeps the last four digits of a mobile number.
func MaskPhone(phone string) string {
	return maskKeepLast(strings.TrimSpace(phone), 4)
}

// MaskPAN keeps the first two and last character: "ABCDE1234F" -> "ABXXXXXXXF".
func MaskPAN(pan string) string {
	p := strings.ToUpper(strings.TrimSpace(pan))
	if len(p) <= 3 {
		return strings.Repeat("X", len(p))
	}
	return p[:2] + strings.Repeat("X", len(p)-3) + p[len(p)-1:]
}

// MaskEmail keeps the first character of the local part: "priya@x.in" -> "p****@x.in".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return maskKeepLast(email, 0)
	}
	local, domain := email[:at], email[at:]
	if len(local) == 1 {
		return "*" + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-1) + domain
}

func maskKeepLast(s string, keep int) string {
	if len(s) <= keep {
		return s
	}
	return strings.Repeat("X", len(s)-keep) + s[len(s)-keep:]
}
