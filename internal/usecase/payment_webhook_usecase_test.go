package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/notify"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_123"

const capturedBody = `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_xyz","amount":350000,"currency":"INR","status":"captured","order_id":"order_abc123","method":"upi","email":"c@example.com","contact":"+919876543210"}}}}`

type webhookFixture struct {
	tx     *TxManagerMock
	orders *OrderRepoMock
	events *WebhookEventRepoMock
	audit  *AuditRepoMock
	sender *SenderMock
	uc     *usecase.PaymentWebhookUsecase
}

func newWebhookFixture() *webhookFixture {
	f := &webhookFixture{
		tx:     new(TxManagerMock),
		orders: new(OrderRepoMock),
		events: new(WebhookEventRepoMock),
		audit:  new(AuditRepoMock),
		sender: new(SenderMock),
	}
	f.tx.Repos = &TxReposMock{orders: f.orders, webhookEvents: f.events, auditLogs: f.audit}
	f.uc = usecase.NewPaymentWebhookUsecase(f.tx, f.sender, testWebhookSecret, "Fittara Store", fixedClock{testNow}, discardLogger())
	return f
}

func pendingOrder() model.Order {
	return model.Order{
		ID:             7,
		GatewayOrderID: "order_abc123",
		CustomerName:   "Asha Rai",
		CustomerEmail:  "asha@example.com",
		Address: model.ShippingAddress{
			Street: "12 MG Road", City: "Pune", State: "MH", Zip: "411001", Phone: "9876543210",
		},
		Items: []model.LineItem{
			{ProductID: 1, Title: "Fittara Modern Gurkha Pant A1", Quantity: 1, Price: 3500, Size: "32", Fabric: "Cotton", Fit: "Slim"},
		},
		Amount: 350000,
		Status: model.OrderStatusPending,
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "want HTTPError, got %v", err)
	return he.Status
}

// =====================
// 署名・振り分け
// =====================

func TestHandleWebhook_MissingSignature(t *testing.T) {
	f := newWebhookFixture()

	_, err := f.uc.HandleWebhook(context.Background(), []byte(capturedBody), "")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assertErrContains(t, err, "Missing signature")

	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	f := newWebhookFixture()

	sig := webhook.Sign([]byte(capturedBody), "other-secret")
	_, err := f.uc.HandleWebhook(context.Background(), []byte(capturedBody), sig)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	assertErrContains(t, err, "Invalid signature")

	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHandleWebhook_InvalidPayload(t *testing.T) {
	f := newWebhookFixture()

	body := []byte(`{"event":`)
	_, err := f.uc.HandleWebhook(context.Background(), body, webhook.Sign(body, testWebhookSecret))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assertErrContains(t, err, "Invalid payload")
}

func TestHandleWebhook_CapturedWithoutPaymentID(t *testing.T) {
	f := newWebhookFixture()

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"amount":100}}}}`)
	_, err := f.uc.HandleWebhook(context.Background(), body, webhook.Sign(body, testWebhookSecret))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestHandleWebhook_NonCapturedEventIsAcknowledged(t *testing.T) {
	for _, name := range []string{"payment.failed", "order.paid", "refund.created"} {
		t.Run(name, func(t *testing.T) {
			f := newWebhookFixture()

			body := []byte(`{"event":"` + name + `","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_abc123"}}}}`)
			out, err := f.uc.HandleWebhook(context.Background(), body, webhook.Sign(body, testWebhookSecret))
			require.NoError(t, err)
			assert.Equal(t, name, out.Event)
			assert.False(t, out.Handled)

			f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
			f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

// =====================
// 反映
// =====================

func TestHandleWebhook_CapturedMarksOrderPaidAndNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	f := newWebhookFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByGatewayOrderID", mock.Anything, "order_abc123").Return(pendingOrder(), nil)
	f.events.On("Create", mock.Anything, mock.MatchedBy(func(ev model.WebhookEvent) bool {
		return ev.PaymentID == "pay_xyz" && ev.GatewayOrderID == "order_abc123" && ev.OrderFound
	})).Return(nil).Once()
	f.orders.On("MarkPaidIfPending", mock.Anything, int64(7), "pay_xyz", testNow).Return(true, nil).Once()
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Actor == model.ActorWebhook &&
			l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceID == 7 &&
			strings.Contains(l.BeforeJSON, `"pending"`) &&
			strings.Contains(l.AfterJSON, `"paid"`)
	})).Return(nil).Once()

	var sent notify.Message
	f.sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(notify.Message) }).
		Return(nil).Once()

	out, err := f.uc.HandleWebhook(ctx, []byte(capturedBody), webhook.Sign([]byte(capturedBody), testWebhookSecret))
	require.NoError(t, err)

	assert.True(t, out.Handled)
	assert.True(t, out.OrderFound)
	assert.True(t, out.Transitioned)
	assert.True(t, out.Notified)
	assert.False(t, out.Duplicate)

	assert.Equal(t, "New Order Received - Fittara Store", sent.Subject)
	assert.Contains(t, sent.HTML, "&#8377;3,500")
	assert.Contains(t, sent.HTML, "pay_xyz")
	assert.Contains(t, sent.HTML, "order_abc123")
	assert.Contains(t, sent.HTML, "Fittara Modern Gurkha Pant A1")
	assert.Contains(t, sent.HTML, "Asha Rai")

	f.orders.AssertExpectations(t)
	f.events.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	f.sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestHandleWebhook_CallerCancelDoesNotAbortReconcile(t *testing.T) {
	// 相手が切断した後でも、反映とメール送信は最後までやる
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newWebhookFixture()

	liveCtx := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })

	f.tx.On("WithinTx", liveCtx).Return(nil).Once()
	f.orders.On("FindByGatewayOrderID", mock.Anything, "order_abc123").Return(pendingOrder(), nil)
	f.events.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.orders.On("MarkPaidIfPending", mock.Anything, int64(7), "pay_xyz", testNow).Return(true, nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.sender.On("Send", liveCtx, mock.Anything).Return(nil).Once()

	out, err := f.uc.HandleWebhook(ctx, []byte(capturedBody), webhook.Sign([]byte(capturedBody), testWebhookSecret))
	require.NoError(t, err)

	assert.True(t, out.Transitioned)
	assert.True(t, out.Notified)
	f.tx.AssertExpectations(t)
	f.sender.AssertExpectations(t)
}

func TestHandleWebhook_CapturedOrderMissingSendsDegradedNotification(t *testing.T) {
	ctx := context.Background()
	f := newWebhookFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByGatewayOrderID", mock.Anything, "order_abc123").Return(model.Order{}, repo.ErrNotFound)
	f.events.On("Create", mock.Anything, mock.MatchedBy(func(ev model.WebhookEvent) bool {
		return !ev.OrderFound
	})).Return(nil)

	var sent notify.Message
	f.sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(notify.Message) }).
		Return(nil).Once()

	out, err := f.uc.HandleWebhook(ctx, []byte(capturedBody), webhook.Sign([]byte(capturedBody), testWebhookSecret))
	require.NoError(t, err)

	assert.False(t, out.OrderFound)
	assert.False(t, out.Transitioned)
	assert.True(t, out.Notified)
	assert.Contains(t, sent.HTML, "No item details available")
	assert.Contains(t, sent.HTML, "Order record was not found")
	assert.Contains(t, sent.HTML, "919876543210")

	f.orders.AssertNotCalled(t, "MarkPaidIfPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandleWebhook_DuplicateDeliveryDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	f := newWebhookFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByGatewayOrderID", mock.Anything, "order_abc123").Return(pendingOrder(), nil)
	f.events.On("Create", mock.Anything, mock.Anything).Return(repo.ErrDuplicate)

	out, err := f.uc.HandleWebhook(ctx, []byte(capturedBody), webhook.Sign([]byte(capturedBody), testWebhookSecret))
	require.NoError(t, err)
	assert.True(t, out.Duplicate)
	assert.False(t, out.Notified)

	f.orders.AssertNotCalled(t, "MarkPaidIfPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHandleWebhook_OrderAlreadyPaidSkipsNotification(t *testing.T) {
	ctx := context.Background()
	f := newWebhookFixture()

	paid := pendingOrder()
	paid.Status = model.OrderStatusPaid

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByGatewayOrderID", mock.Anything, "order_abc123").Return(paid, nil)
	f.events.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("MarkPaidIfPending", mock.Anything, int64(7), "pay_xyz", testNow).Return(false, nil)

	out, err := f.uc.HandleWebhook(ctx, []byte(capturedBody), webhook.Sign([]byte(capturedBody), testWebhookSecret))
	require.NoError(t, err)
	assert.True(t, out.OrderFound)
	assert.False(t, out.Transitioned)
	assert.False(t, out.Notified)

	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHandleWebhook_SendFailureReturns500(t *testing.T) {
	ctx := context.Background()
	f := newWebhookFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByGatewayOrderID", mock.Anything, "order_abc123").Return(pendingOrder(), nil)
	f.events.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("MarkPaidIfPending", mock.Anything, int64(7), "pay_xyz", testNow).Return(true, nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp: 535 auth failed"))

	out, err := f.uc.HandleWebhook(ctx, []byte(capturedBody), webhook.Sign([]byte(capturedBody), testWebhookSecret))

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "Webhook processing failed", he.Message)
	assert.Contains(t, he.Details, "535 auth failed")
	assert.False(t, out.Notified)
	assert.False(t, out.Duplicate)
}

func TestHandleWebhook_LookupErrorReturns500(t *testing.T) {
	ctx := context.Background()
	f := newWebhookFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByGatewayOrderID", mock.Anything, "order_abc123").Return(model.Order{}, errors.New("conn reset"))

	_, err := f.uc.HandleWebhook(ctx, []byte(capturedBody), webhook.Sign([]byte(capturedBody), testWebhookSecret))
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))

	f.events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
