// Package notify は注文通知メールの組み立てと送信の約束を持つ。
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Message は送信する1通分。
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender はメール送信の外部依存。
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Payment はwebhookから取れた決済情報。Amountはパイサ。
type Payment struct {
	PaymentID      string
	Amount         int64
	Email          string
	Contact        string
	Method         string
	GatewayOrderID string
}

// インド標準時（DSTなし）
var ist = time.FixedZone("IST", 5*60*60+30*60)

// FormatRupees はパイサをルピー表記（インド式の桁区切り）にする。
// 350000 -> "3,500" / 123456789 -> "12,34,567.89"
func FormatRupees(paise int64) string {
	s := decimal.New(paise, -2).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	return sign + groupIndian(intPart) + frac
}

// 下3桁、その上は2桁ずつ
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

func formatTimestamp(t time.Time) string {
	return t.In(ist).Format("2/1/2006, 3:04:05 pm")
}
