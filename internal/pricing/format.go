package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR formatea con agrupación india: ₹12,34,567 o ₹1,540.50
func FormatINR(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs().Round(2)

	whole := d.Truncate(0).String()
	frac := d.Sub(d.Truncate(0))

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(whole))
	if !frac.IsZero() {
		b.WriteString(".")
		b.WriteString(strings.TrimPrefix(frac.StringFixed(2), "0."))
	}
	return b.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
