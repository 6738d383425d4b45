// Package httpapi implements the authenticated HTTP and WebSocket surface
// named in spec.md §4.E. Grounded on the teacher's http.HttpService
// (http/http_service.go): an echo.Echo with the same Secure/Recover/
// RequestID/RequestLoggerWithConfig middleware stack, registered route
// groups, and c.JSON(status, ErrorResponse{...}) error shape, swapped to
// plain-text bodies and HTTP Basic auth per spec.md §4.E and §6.
package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/lightningco/nodecore/config"
	"github.com/lightningco/nodecore/events"
	"github.com/lightningco/nodecore/lnengine"
	"github.com/lightningco/nodecore/payments"
	"github.com/lightningco/nodecore/resolver"
	"github.com/lightningco/nodecore/webhook"
)

// Router wires the collaborator dependencies every handler needs.
type Router struct {
	engine     lnengine.Engine
	resolver   resolver.Resolver
	store      *payments.Store
	cfg        *config.Config
	publisher  *events.Publisher
	dispatcher *webhook.Dispatcher
	logger     *zerolog.Logger

	hub *websocketHub
}

// NewRouter constructs the echo.Echo instance and registers every route
// named in spec.md §4.E.
func NewRouter(engine lnengine.Engine, res resolver.Resolver, store *payments.Store, cfg *config.Config, publisher *events.Publisher, dispatcher *webhook.Dispatcher, logger *zerolog.Logger) *echo.Echo {
	r := &Router{
		engine:     engine,
		resolver:   res,
		store:      store,
		cfg:        cfg,
		publisher:  publisher,
		dispatcher: dispatcher,
		logger:     logger,
		hub:        newWebsocketHub(publisher, logger),
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = r.httpErrorHandler

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "no-referrer",
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			logger.Info().
				Str("uri", values.URI).
				Int("status", values.Status).
				Str("remote_ip", values.RemoteIP).
				Str("request_id", values.RequestID).
				Msg("handled API request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	env := cfg.Env()
	readOnly := []string{env.HttpPasswordPrimary, env.HttpPasswordLimited}
	fullAccess := []string{env.HttpPasswordPrimary}

	readOnlyGroup := e.Group("")
	readOnlyGroup.Use(basicAuth(readOnly...))
	fullAccessGroup := e.Group("")
	fullAccessGroup.Use(basicAuth(fullAccess...))

	readOnlyGroup.GET("/balances", r.balancesHandler)
	readOnlyGroup.GET("/channels", r.channelsHandler)
	readOnlyGroup.GET("/payments", r.listPaymentsHandler)
	readOnlyGroup.GET("/payments/:paymentHash", r.lookupPaymentHandler)
	readOnlyGroup.POST("/createinvoice", r.createInvoiceHandler)
	readOnlyGroup.GET("/lnurlwithdraw", r.lnurlWithdrawHandler)
	readOnlyGroup.GET("/websocket", r.websocketHandler)

	fullAccessGroup.POST("/payinvoice", r.payInvoiceHandler)
	fullAccessGroup.POST("/payoffer", r.payOfferHandler)
	fullAccessGroup.POST("/sendtoaddress", r.sendToAddressHandler)
	fullAccessGroup.POST("/bumpfee", r.bumpFeeHandler)
	fullAccessGroup.POST("/closechannel", r.closeChannelHandler)
	fullAccessGroup.POST("/paylnaddress", r.payLnAddressHandler)
	fullAccessGroup.POST("/lnurlpay", r.lnurlPayHandler)
	fullAccessGroup.POST("/lnurlauth", r.lnurlAuthHandler)
	fullAccessGroup.POST("/export", r.exportHandler)

	return e
}

// httpErrorHandler maps wrong-method (405) and unknown-route (404) echo
// framework errors to plain-text bodies, per spec.md §4.E's exit-code
// table; handler-raised errors are mapped by respondError instead.
func (r *Router) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}
	if werr := c.String(code, message); werr != nil {
		r.logger.Error().Err(werr).Msg("failed to write error response")
	}
}
