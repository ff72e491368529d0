package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent_Captured(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"account_id": "acc_1",
		"contains": ["payment"],
		"payload": {"payment": {"entity": {
			"id": "pay_xyz", "amount": 350000, "currency": "INR", "status": "captured",
			"order_id": "order_abc123", "method": "card",
			"email": "c@example.com", "contact": "+919876543210"
		}}}
	}`)

	ev, err := ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, ev.Event)

	pc, ok, err := ev.Captured()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PaymentCaptured{
		PaymentID:      "pay_xyz",
		Amount:         350000,
		Currency:       "INR",
		Email:          "c@example.com",
		Contact:        "+919876543210",
		Method:         "card",
		GatewayOrderID: "order_abc123",
	}, pc)
}

func TestCaptured_DefaultsAndOtherEvents(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`))
	require.NoError(t, err)
	pc, ok, err := ev.Captured()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "unknown", pc.Method)
	assert.Empty(t, pc.GatewayOrderID)

	ev, err = ParseEvent([]byte(`{"event":"payment.failed"}`))
	require.NoError(t, err)
	_, ok, err = ev.Captured()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCaptured_MissingPaymentID(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"amount":1}}}}`))
	require.NoError(t, err)

	_, ok, err := ev.Captured()
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestParseEvent_Malformed(t *testing.T) {
	for _, body := range []string{``, `{`, `[]`, `{"event": 5}`} {
		_, err := ParseEvent([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedPayload, "body %q", body)
	}
}
