package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminSessionRequest struct {
	Passcode string `json:"passcode"`
}

type AdminSessionHandler struct {
	uc *usecase.AdminSessionUsecase
}

func NewAdminSessionHandler(uc *usecase.AdminSessionUsecase) *AdminSessionHandler {
	return &AdminSessionHandler{uc: uc}
}

// ここだけ認証なし
func (h *AdminSessionHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/admin/session", h.login)
}

func (h *AdminSessionHandler) login(c echo.Context) error {
	var req AdminSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), req.Passcode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
