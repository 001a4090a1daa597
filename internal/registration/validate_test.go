package registration

import (
	"strings"
	"testing"
)

func TestValidateBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   RegisterInput
		want string // 期望出现的违规关键字；空串表示应通过
	}{
		{"ok", RegisterInput{Name: "Al", Email: "a@b.c", Phone: "1234567890"}, ""},
		{"name 1 char", RegisterInput{Name: "A", Email: "a@b.c", Phone: "1234567890"}, "name"},
		{"name 2 chars passes", RegisterInput{Name: "Al", Email: "a@b.c", Phone: "1234567890"}, ""},
		{"name whitespace only", RegisterInput{Name: "  ", Email: "a@b.c", Phone: "1234567890"}, "name"},
		{"email missing at", RegisterInput{Name: "Al", Email: "a.b", Phone: "1234567890"}, "email"},
		{"email missing dot", RegisterInput{Name: "Al", Email: "a@b", Phone: "1234567890"}, "email"},
		{"phone 9 digits", RegisterInput{Name: "Al", Email: "a@b.c", Phone: "123456789"}, "10 digits"},
		{"phone 10 digits passes", RegisterInput{Name: "Al", Email: "a@b.c", Phone: "1234567890"}, ""},
		{"phone with letters", RegisterInput{Name: "Al", Email: "a@b.c", Phone: "12345abcde"}, "digits only"},
		{"bad payment status", RegisterInput{Name: "Al", Email: "a@b.c", Phone: "1234567890", PaymentStatus: "Paid"}, "payment_status"},
		{"negative amount", RegisterInput{Name: "Al", Email: "a@b.c", Phone: "1234567890", SaleAmount: ptrInt64(-1)}, "sale_amount"},
	}

	for _, tc := range cases {
		violations := validate(tc.in)
		if tc.want == "" {
			if len(violations) != 0 {
				t.Fatalf("%s: expected valid, got %v", tc.name, violations)
			}
			continue
		}
		found := false
		for _, v := range violations {
			if strings.Contains(v, tc.want) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("%s: expected violation containing %q, got %v", tc.name, tc.want, violations)
		}
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	violations := validate(RegisterInput{Name: "A", Email: "nope", Phone: "abc"})
	if len(violations) < 3 {
		t.Fatalf("expected at least 3 violations, got %v", violations)
	}
}

func ptrInt64(v int64) *int64 { return &v }
