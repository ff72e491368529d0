package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	//500のときだけ
	Details string `json:"details,omitempty"`
}

// { message: string }
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Details: he.Details})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

//middleware.AuthJWT が c.Set したsubを取り出す（監査ログのactor）

func getSubjectFromContext(c echo.Context) (string, bool) {
	sub, ok := c.Get(middleware.CtxSubjectKey).(string)
	if !ok || sub == "" {
		return "", false
	}
	return sub, true
}
