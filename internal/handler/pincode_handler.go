package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/infra/pincode"

	"github.com/labstack/echo/v4"
)

// 郵便番号から住所を引く外部依存
type PincodeLookup interface {
	Lookup(ctx context.Context, pin string) (pincode.Place, error)
}

type PincodeHandler struct {
	lookup PincodeLookup
}

func NewPincodeHandler(lookup PincodeLookup) *PincodeHandler {
	return &PincodeHandler{lookup: lookup}
}

func (h *PincodeHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/pincode/:pin", h.get)
}

func (h *PincodeHandler) get(c echo.Context) error {
	place, err := h.lookup.Lookup(c.Request().Context(), c.Param("pin"))
	switch {
	case errors.Is(err, pincode.ErrInvalidPincode):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pincode"})
	case errors.Is(err, pincode.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case err != nil:
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "pincode lookup failed"})
	}
	return c.JSON(http.StatusOK, place)
}
