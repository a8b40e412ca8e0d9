package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// BodyLimits applies uploadLimit to multipart requests and jsonLimit to every
// other request body.
func BodyLimits(jsonLimit, uploadLimit string) echo.MiddlewareFunc {
	small := echomiddleware.BodyLimit(jsonLimit)
	large := echomiddleware.BodyLimit(uploadLimit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		smallNext := small(next)
		largeNext := large(next)
		return func(c echo.Context) error {
			ct := c.Request().Header.Get(echo.HeaderContentType)
			if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
				return largeNext(c)
			}
			return smallNext(c)
		}
	}
}
