package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
)

const EventPaymentCaptured = "payment.captured"

var ErrMalformedPayload = errors.New("malformed payload")

// Event はwebhookの封筒部分。
type Event struct {
	Event     string   `json:"event"`
	AccountID string   `json:"account_id"`
	CreatedAt int64    `json:"created_at"`
	Payload   payload  `json:"payload"`
	Contains  []string `json:"contains"`
}

type payload struct {
	Payment struct {
		Entity PaymentEntity `json:"entity"`
	} `json:"payment"`
}

type PaymentEntity struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	OrderID  string `json:"order_id"`
	Method   string `json:"method"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
}

// PaymentCaptured はpayment.capturedから取り出した値。Amountは最小単位（パイサ）。
type PaymentCaptured struct {
	PaymentID      string
	Amount         int64
	Currency       string
	Email          string
	Contact        string
	Method         string
	GatewayOrderID string
}

// ParseEvent は検証済みbodyを封筒として読む。
func ParseEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return ev, nil
}

// Captured は payment.captured のときだけ ok=true。
func (e Event) Captured() (PaymentCaptured, bool, error) {
	if e.Event != EventPaymentCaptured {
		return PaymentCaptured{}, false, nil
	}

	p := e.Payload.Payment.Entity
	if p.ID == "" {
		return PaymentCaptured{}, true, fmt.Errorf("%w: payment id missing", ErrMalformedPayload)
	}

	method := p.Method
	if method == "" {
		method = "unknown"
	}

	return PaymentCaptured{
		PaymentID:      p.ID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Email:          p.Email,
		Contact:        p.Contact,
		Method:         method,
		GatewayOrderID: p.OrderID,
	}, true, nil
}
