package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/notify"
	repo "storefront/internal/repository"
	"storefront/internal/webhook"
)

// 1配信の反映にかける上限。リクエストのctxとは切り離して使う
const reconcileTimeout = 30 * time.Second

// 同じpayment_idの2回目以降の配信（txをロールバックさせるための印）
var errDuplicateDelivery = errors.New("duplicate delivery")

type PaymentWebhookUsecase struct {
	tx        repo.TransactionManager
	sender    notify.Sender
	secret    string
	storeName string
	clock     Clock
	logger    *slog.Logger
}

func NewPaymentWebhookUsecase(
	tx repo.TransactionManager,
	sender notify.Sender,
	secret string,
	storeName string,
	clock Clock,
	logger *slog.Logger,
) *PaymentWebhookUsecase {
	return &PaymentWebhookUsecase{
		tx:        tx,
		sender:    sender,
		secret:    secret,
		storeName: storeName,
		clock:     clock,
		logger:    logger,
	}
}

// WebhookOutcome は1回の配信で何が起きたか。レスポンスには出さない（ログとテスト用）。
type WebhookOutcome struct {
	Event string
	// payment.capturedを処理した
	Handled bool
	// 同じpayment_idが処理済みだった
	Duplicate bool
	// 注文行が見つかった
	OrderFound bool
	// pending -> paid に遷移した
	Transitioned bool
	// 通知を送った
	Notified bool
}

// HandleWebhook は生のbodyと署名ヘッダを受けて、検証→振り分け→反映を行う。
func (u *PaymentWebhookUsecase) HandleWebhook(ctx context.Context, body []byte, signature string) (WebhookOutcome, error) {
	//署名チェック（ここで落ちたら何も書き込まない）
	if err := webhook.Check(body, signature, u.secret); err != nil {
		if errors.Is(err, webhook.ErrMissingSignature) {
			u.logger.Warn("webhook rejected: missing signature")
			return WebhookOutcome{}, NewHTTPError(http.StatusBadRequest, "Missing signature")
		}
		u.logger.Warn("webhook rejected: invalid signature")
		return WebhookOutcome{}, NewHTTPError(http.StatusUnauthorized, "Invalid signature")
	}

	ev, err := webhook.ParseEvent(body)
	if err != nil {
		u.logger.Warn("webhook rejected: malformed payload", "error", err)
		return WebhookOutcome{}, NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}

	u.logger.Info("webhook received", "event", ev.Event)

	pc, ok, err := ev.Captured()
	if err != nil {
		u.logger.Warn("webhook rejected: malformed payment entity", "error", err)
		return WebhookOutcome{Event: ev.Event}, NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}
	if !ok {
		//知らないイベントは受け取って何もしない
		return WebhookOutcome{Event: ev.Event}, nil
	}

	out, err := u.Reconcile(ctx, pc)
	out.Event = ev.Event
	if err != nil {
		u.logger.Error("webhook processing failed",
			"payment_id", pc.PaymentID,
			"gateway_order_id", pc.GatewayOrderID,
			"error", err,
		)
		return out, &HTTPError{
			Status:  http.StatusInternalServerError,
			Message: "Webhook processing failed",
			Details: err.Error(),
		}
	}
	return out, nil
}

// Reconcile はpayment.capturedを注文に反映して通知する。
// payment_idの記録・ステータス更新・通知送信を1つのtxで行い、送信に失敗したら全部戻す。
func (u *PaymentWebhookUsecase) Reconcile(ctx context.Context, pc webhook.PaymentCaptured) (WebhookOutcome, error) {
	out := WebhookOutcome{Handled: true}
	now := u.clock.Now()

	// 相手の切断やタイムアウトで、送信済みのメールごとロールバックしないようにする
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconcileTimeout)
	defer cancel()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var order *model.Order
		if pc.GatewayOrderID != "" {
			o, err := r.Orders().FindByGatewayOrderID(ctx, pc.GatewayOrderID)
			switch {
			case err == nil:
				order = &o
			case errors.Is(err, repo.ErrNotFound):
			default:
				return fmt.Errorf("find order: %w", err)
			}
		}
		out.OrderFound = order != nil

		//重複配信ガード（同じpayment_idはここで止まる）
		err := r.WebhookEvents().Create(ctx, model.WebhookEvent{
			PaymentID:      pc.PaymentID,
			EventType:      webhook.EventPaymentCaptured,
			GatewayOrderID: pc.GatewayOrderID,
			OrderFound:     out.OrderFound,
			ProcessedAt:    now,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return errDuplicateDelivery
		}
		if err != nil {
			return fmt.Errorf("record webhook event: %w", err)
		}

		if order == nil {
			//注文行が無い。ステータスは未解決のまま残るので運用で確認する
			u.logger.Warn("order row not found for captured payment; status left unresolved",
				"payment_id", pc.PaymentID,
				"gateway_order_id", pc.GatewayOrderID,
			)
		} else {
			moved, err := r.Orders().MarkPaidIfPending(ctx, order.ID, pc.PaymentID, now)
			if err != nil {
				return fmt.Errorf("mark order paid: %w", err)
			}
			if !moved {
				// 既にpaid/failed。通知は送らない
				u.logger.Info("order not pending; skip notification",
					"order_id", order.ID,
					"status", order.Status,
					"payment_id", pc.PaymentID,
				)
				return nil
			}
			out.Transitioned = true

			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				Actor:        model.ActorWebhook,
				Action:       model.AuditActionUpdateOrderStatus,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   order.ID,
				BeforeJSON:   `{"status":"` + string(order.Status) + `"}`,
				AfterJSON:    `{"status":"` + string(model.OrderStatusPaid) + `","payment_id":"` + pc.PaymentID + `"}`,
				CreatedAt:    now,
			}); err != nil {
				return fmt.Errorf("write audit log: %w", err)
			}
		}

		msg, err := notify.RenderOrderNotification(notify.Payment{
			PaymentID:      pc.PaymentID,
			Amount:         pc.Amount,
			Email:          pc.Email,
			Contact:        pc.Contact,
			Method:         pc.Method,
			GatewayOrderID: pc.GatewayOrderID,
		}, order, now, u.storeName)
		if err != nil {
			return err
		}

		//送信失敗ならロールバックして、ゲートウェイの再送に任せる
		if err := u.sender.Send(ctx, msg); err != nil {
			return fmt.Errorf("send notification: %w", err)
		}
		out.Notified = true
		return nil
	})

	if errors.Is(err, errDuplicateDelivery) {
		u.logger.Info("duplicate webhook delivery ignored", "payment_id", pc.PaymentID)
		return WebhookOutcome{Handled: true, Duplicate: true, OrderFound: out.OrderFound}, nil
	}
	if err != nil {
		return WebhookOutcome{Handled: true, OrderFound: out.OrderFound}, err
	}

	u.logger.Info("payment captured processed",
		"payment_id", pc.PaymentID,
		"gateway_order_id", pc.GatewayOrderID,
		"order_found", out.OrderFound,
		"transitioned", out.Transitioned,
	)
	return out, nil
}
