package handler

import (
	"errors"
	"io"
	"net/http"

	"storefront/internal/usecase"
	"storefront/internal/webhook"

	"github.com/labstack/echo/v4"
)

// 1配信あたりのbody上限
const maxWebhookBody = 1 << 20

type WebhookStatusResponse struct {
	Status string `json:"status"`
}

// POST /api/razorpay/webhook
type WebhookHandler struct {
	uc *usecase.PaymentWebhookUsecase
}

func NewWebhookHandler(uc *usecase.PaymentWebhookUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/razorpay/webhook", h.receive)
}

func (h *WebhookHandler) receive(c echo.Context) error {
	// 署名は生のbodyに対して計算されるので、Bindせずにそのまま読む
	// 上限を超えたら切り詰めずに413で返す（途中までのbodyは署名が合わない）
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Payload too large"})
		}
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid payload"})
	}

	sig := c.Request().Header.Get(webhook.SignatureHeader)

	if _, err := h.uc.HandleWebhook(c.Request().Context(), body, sig); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, WebhookStatusResponse{Status: "ok"})
}
