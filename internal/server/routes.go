package server

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
)

// Handlers はmainで組み立てたhandlerの束
type Handlers struct {
	Webhook      *handler.WebhookHandler
	Checkout     *handler.CheckoutHandler
	Pincode      *handler.PincodeHandler
	Product      *handler.ProductHandler
	AdminSession *handler.AdminSessionHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminAudit   *handler.AdminAuditHandler
}

type healthResponse struct {
	Status string `json:"status"`
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	})

	h.Webhook.RegisterRoutes(e)
	h.Checkout.RegisterRoutes(e)
	h.Pincode.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)

	//admin
	h.AdminSession.RegisterRoutes(e)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminAudit.RegisterRoutes(e, cfg)
}
