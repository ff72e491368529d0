package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// 管理トークンのrole
const RoleAdmin = "ADMIN"

// AdminRoleGuard はAuthJWTの後ろに置く。roleがADMINのトークンだけ通す。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if role != RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			//actorとして使うのでsubも必須
			if sub, _ := c.Get(CtxSubjectKey).(string); sub == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			return next(c)
		}
	}
}
