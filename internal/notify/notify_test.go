package notify

import (
	"testing"
	"time"

	"storefront/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRupees(t *testing.T) {
	cases := map[int64]string{
		0:         "0",
		100:       "1",
		150:       "1.5",
		99900:     "999",
		350000:    "3,500",
		12345678:  "1,23,456.78",
		123456789: "12,34,567.89",
		-250000:   "-2,500",
	}
	for paise, want := range cases {
		assert.Equal(t, want, FormatRupees(paise), "paise=%d", paise)
	}
}

func TestFormatTimestamp_UsesIST(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 30, 5, 0, time.UTC)
	assert.Equal(t, "14/3/2026, 4:00:05 pm", formatTimestamp(ts))
}

func TestRenderOrderNotification_WithOrder(t *testing.T) {
	order := &model.Order{
		GatewayOrderID: "order_abc123",
		CustomerName:   "Asha Rai",
		CustomerEmail:  "asha@example.com",
		Address: model.ShippingAddress{
			Street: "12 MG Road", City: "Pune", State: "MH", Zip: "411001", Phone: "9876543210",
		},
		Items: []model.LineItem{
			{Title: "Classic Gurkha Pant B1", Quantity: 2, Price: 1750, Size: "32", Fabric: "Linen"},
			{Quantity: 0},
		},
	}
	p := Payment{PaymentID: "pay_xyz", Amount: 350000, Method: "upi", GatewayOrderID: "order_abc123"}

	msg, err := RenderOrderNotification(p, order, time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC), "Fittara Store")
	require.NoError(t, err)

	assert.Equal(t, "New Order Received - Fittara Store", msg.Subject)
	assert.Empty(t, msg.To)
	assert.Contains(t, msg.HTML, "&#8377;3,500")
	assert.Contains(t, msg.HTML, "Classic Gurkha Pant B1")
	assert.Contains(t, msg.HTML, "&#8377;1,750")
	assert.Contains(t, msg.HTML, ">Item<")
	assert.Contains(t, msg.HTML, "Pune, MH - 411001")
	assert.Contains(t, msg.HTML, "asha@example.com")
	assert.Contains(t, msg.HTML, "14/3/2026, 4:00:00 pm")
	assert.NotContains(t, msg.HTML, "Order record was not found")
	assert.NotContains(t, msg.HTML, "No item details available")
}

func TestRenderOrderNotification_WithoutOrder(t *testing.T) {
	p := Payment{PaymentID: "pay_xyz", Amount: 350000, Method: "card", Email: "c@example.com"}

	msg, err := RenderOrderNotification(p, nil, time.Now(), "Fittara Store")
	require.NoError(t, err)

	assert.Contains(t, msg.HTML, "No item details available")
	assert.Contains(t, msg.HTML, "Order record was not found")
	assert.Contains(t, msg.HTML, "N/A")
	assert.Contains(t, msg.HTML, "c@example.com")
}

func TestRenderOrderNotification_EscapesCustomerInput(t *testing.T) {
	order := &model.Order{CustomerName: `<script>alert(1)</script>`}

	msg, err := RenderOrderNotification(Payment{PaymentID: "pay_1"}, order, time.Now(), "Store")
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}
