package registration

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AutoLinkCRM/AutoLinkCRM/internal/sale"
)

const (
	minNameLen  = 2
	minPhoneLen = 10
)

// validate 逐条收集违规项（不做 fail-fast），全部通过返回空切片。
func validate(in RegisterInput) []string {
	var violations []string

	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < minNameLen {
		violations = append(violations, "name must be at least 2 characters")
	}

	// 邮箱只做最弱校验：同时包含 '@' 和 '.'，不追求 RFC 合规
	email := strings.TrimSpace(in.Email)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		violations = append(violations, "email must contain '@' and '.'")
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" || !digitsOnly(phone) {
		violations = append(violations, "phone must contain digits only")
	}
	if len(phone) < minPhoneLen {
		violations = append(violations, "phone must be at least 10 digits")
	}

	if in.PaymentStatus != "" && !sale.ValidPaymentStatus(sale.PaymentStatus(in.PaymentStatus)) {
		violations = append(violations, "payment_status must be one of Pending, Partial, Completed")
	}
	if in.SaleAmount != nil && *in.SaleAmount < 0 {
		violations = append(violations, "sale_amount must not be negative")
	}

	return violations
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
