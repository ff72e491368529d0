package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"storefront/internal/domain/model"
)

type itemRow struct {
	Title    string
	Size     string
	Fabric   string
	Fit      string
	Quantity int64
	Price    string
}

type emailData struct {
	StoreName string
	Amount    string
	PaymentID string
	OrderID   string
	Method    string
	Timestamp string

	Items []itemRow

	CustomerName string
	Street       string
	CityLine     string
	Phone        string
	Email        string
	// 注文行がDBに無かった（決済情報だけで作った）
	Degraded bool
}

var orderTmpl = template.Must(template.New("order").Parse(`<div style="font-family: Arial, sans-serif; max-width: 700px; margin: 0 auto; padding: 20px; background: #f9f9f9;">
  <div style="background: #000; color: #fff; padding: 20px; text-align: center;">
    <h1 style="margin: 0;">New Order Received!</h1>
  </div>
  <div style="background: #fff; padding: 30px; border: 1px solid #eee; margin-bottom: 20px;">
    <h2 style="margin-top: 0; border-bottom: 2px solid #000; padding-bottom: 10px;">Payment Details</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 10px 0; color: #666;">Amount</td><td style="padding: 10px 0; font-weight: bold; text-align: right; color: #22c55e;">&#8377;{{.Amount}}</td></tr>
      <tr><td style="padding: 10px 0; color: #666;">Payment ID</td><td style="padding: 10px 0; font-family: monospace; text-align: right;">{{.PaymentID}}</td></tr>
      <tr><td style="padding: 10px 0; color: #666;">Order ID</td><td style="padding: 10px 0; font-family: monospace; text-align: right;">{{.OrderID}}</td></tr>
      <tr><td style="padding: 10px 0; color: #666;">Payment Method</td><td style="padding: 10px 0; text-align: right; text-transform: capitalize;">{{.Method}}</td></tr>
      <tr><td style="padding: 10px 0; color: #666;">Timestamp</td><td style="padding: 10px 0; text-align: right;">{{.Timestamp}}</td></tr>
    </table>
  </div>
  <div style="background: #fff; padding: 30px; border: 1px solid #eee; margin-bottom: 20px;">
    <h2 style="margin-top: 0; border-bottom: 2px solid #000; padding-bottom: 10px;">Order Items</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr style="background: #f5f5f5;"><th style="padding: 10px; text-align: left;">Item</th><th style="padding: 10px;">Size</th><th style="padding: 10px;">Fabric</th><th style="padding: 10px;">Fit</th><th style="padding: 10px;">Qty</th><th style="padding: 10px; text-align: right;">Price</th></tr>
      </thead>
      <tbody>
      {{- range .Items}}
        <tr><td style="padding: 8px;">{{.Title}}</td><td style="padding: 8px; text-align: center;">{{.Size}}</td><td style="padding: 8px; text-align: center;">{{.Fabric}}</td><td style="padding: 8px; text-align: center;">{{.Fit}}</td><td style="padding: 8px; text-align: center;">{{.Quantity}}</td><td style="padding: 8px; text-align: right;">&#8377;{{.Price}}</td></tr>
      {{- else}}
        <tr><td colspan="6" style="padding: 10px; text-align: center; color: #999;">No item details available</td></tr>
      {{- end}}
      </tbody>
    </table>
  </div>
  <div style="background: #fff; padding: 30px; border: 1px solid #eee; margin-bottom: 20px;">
    <h2 style="margin-top: 0; border-bottom: 2px solid #000; padding-bottom: 10px;">Shipping Address</h2>
    <p style="margin: 0; font-weight: bold;">{{.CustomerName}}</p>
    <p style="margin: 5px 0; color: #666;">{{.Street}}</p>
    <p style="margin: 5px 0; color: #666;">{{.CityLine}}</p>
    <p style="margin: 10px 0 0 0;"><strong>Phone:</strong> {{.Phone}}</p>
    <p style="margin: 5px 0 0 0;"><strong>Email:</strong> {{.Email}}</p>
    {{- if .Degraded}}
    <p style="margin: 10px 0 0 0; color: #b91c1c;">Order record was not found. Shipping details are unavailable; check the order in the dashboard.</p>
    {{- end}}
  </div>
  <div style="text-align: center; padding: 20px; color: #999; font-size: 12px;">
    <p>This is an automated notification from {{.StoreName}}.</p>
  </div>
</div>
`))

// RenderOrderNotification は決済完了の通知メールを作る。orderがnilなら決済情報だけで作る。
func RenderOrderNotification(p Payment, order *model.Order, now time.Time, storeName string) (Message, error) {
	d := emailData{
		StoreName: storeName,
		Amount:    FormatRupees(p.Amount),
		PaymentID: p.PaymentID,
		OrderID:   p.GatewayOrderID,
		Method:    p.Method,
		Timestamp: formatTimestamp(now),
		Degraded:  order == nil,
	}

	var addr model.ShippingAddress
	customer := ""
	if order != nil {
		addr = order.Address
		customer = order.CustomerName
		for _, it := range order.Items {
			qty := it.Quantity
			if qty <= 0 {
				qty = 1
			}
			d.Items = append(d.Items, itemRow{
				Title:    orDefault(it.Title, "Item"),
				Size:     orDefault(it.Size, "-"),
				Fabric:   orDefault(it.Fabric, "-"),
				Fit:      orDefault(it.Fit, "-"),
				Quantity: qty,
				Price:    FormatRupees(it.Price * 100),
			})
		}
	}

	d.CustomerName = firstNonEmpty(customer, addr.Name, "N/A")
	d.Street = orDefault(addr.Street, "N/A")
	d.CityLine = fmt.Sprintf("%s, %s - %s", addr.City, addr.State, addr.Zip)
	d.Phone = firstNonEmpty(addr.Phone, p.Contact, "N/A")
	d.Email = firstNonEmpty(p.Email, orderEmail(order), "N/A")

	var buf bytes.Buffer
	if err := orderTmpl.Execute(&buf, d); err != nil {
		return Message{}, fmt.Errorf("render order email: %w", err)
	}

	return Message{
		Subject: "New Order Received - " + storeName,
		HTML:    buf.String(),
	}, nil
}

func orderEmail(o *model.Order) string {
	if o == nil {
		return ""
	}
	return o.CustomerEmail
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
