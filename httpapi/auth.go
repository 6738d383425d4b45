package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lightningco/nodecore/payments"
)

// basicAuth gates a route group to either of the two passwords named in
// spec.md §4.E. An empty accepted password never matches, so a daemon
// configured with only a primary password leaves the limited password
// permanently unusable rather than silently accepting blank credentials.
func basicAuth(accepted ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if wsPassword, ok := websocketSubprotocolPassword(c); ok {
				if matchesAny(wsPassword, accepted) {
					return next(c)
				}
				return c.String(http.StatusUnauthorized, "authentication failure")
			}

			_, password, ok := c.Request().BasicAuth()
			if !ok || !matchesAny(password, accepted) {
				return c.String(http.StatusUnauthorized, "authentication failure")
			}
			return next(c)
		}
	}
}

func matchesAny(candidate string, accepted []string) bool {
	if candidate == "" {
		return false
	}
	for _, a := range accepted {
		if a != "" && subtle.ConstantTimeCompare([]byte(candidate), []byte(a)) == 1 {
			return true
		}
	}
	return false
}

// websocketSubprotocolPassword extracts the password the WebSocket upgrade
// carries in Sec-WebSocket-Protocol, per spec.md §4.E's "alternate channel".
func websocketSubprotocolPassword(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Sec-WebSocket-Protocol")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, ",")
	if len(parts) == 0 {
		return "", false
	}
	return strings.TrimSpace(parts[0]), true
}

// statusFor maps a handler error to the HTTP status named in spec.md
// §4.E's exit-code table.
func statusFor(err error) int {
	switch err.(type) {
	case *MissingError, *InvalidTypeError:
		return http.StatusBadRequest
	case *NotFoundError:
		return http.StatusNotFound
	}
	if payments.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes err as a plain-text body at the status statusFor
// selects for it.
func respondError(c echo.Context, err error) error {
	return c.String(statusFor(err), err.Error())
}
