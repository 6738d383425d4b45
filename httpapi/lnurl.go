package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/resolver"
)

// payLnAddressHandler resolves a Lightning Address (user@domain) via the
// resolver and pays the resulting invoice, per spec.md §4.E.
func (r *Router) payLnAddressHandler(c echo.Context) error {
	g := NewGetter(c)
	address, err := g.GetString("address")
	if err != nil {
		return respondError(c, err)
	}
	amountSat, err := g.GetUint64("amountSat")
	if err != nil {
		return respondError(c, err)
	}
	note := g.GetOptionalString("note")

	user, domain, ok := splitAddress(address)
	if !ok {
		return respondError(c, NewInvalidTypeError("address", "user@domain"))
	}

	ctx := c.Request().Context()
	result, err := r.resolver.ResolveAddress(ctx, user, domain, amountSat*1000, note)
	if err != nil {
		return respondError(c, err)
	}
	if result.Invoice == "" {
		return respondError(c, NewInvalidTypeError("address", "an address resolving to a BOLT11 invoice"))
	}

	return r.payResolvedInvoice(c, result.Invoice, amountSat)
}

// lnurlPayHandler executes an lnurlp:// URL, rejecting it early if the
// resolved tag is not payRequest, per spec.md §4.E.
func (r *Router) lnurlPayHandler(c echo.Context) error {
	g := NewGetter(c)
	url, err := g.GetString("url")
	if err != nil {
		return respondError(c, err)
	}
	amountSat, err := g.GetUint64("amountSat")
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	target, err := r.resolver.ExecuteLnurl(ctx, url)
	if err != nil {
		return respondError(c, err)
	}
	if target.Tag != resolver.LnurlPay {
		return respondError(c, NewInvalidTypeError("url", "an lnurl-pay callback"))
	}

	invoice, err := r.resolver.GetLnurlPayInvoice(ctx, target.Callback, amountSat*1000)
	if err != nil {
		return respondError(c, err)
	}

	return r.payResolvedInvoice(c, invoice, amountSat)
}

func (r *Router) payResolvedInvoice(c echo.Context, invoice string, amountSat uint64) error {
	amountMsat := amountSat * 1000
	sent, failed, err := r.engine.PayInvoice(c.Request().Context(), invoice, &amountMsat)
	if err != nil {
		return respondError(c, err)
	}
	r.recordOutgoingPayment(encoding.DetailsNormal{PaymentRequest: invoice}, amountMsat, sent, failed)
	if failed != nil {
		return c.JSON(http.StatusOK, paymentFailedResponse{Reason: failed.Reason, Attempts: failed.Attempts})
	}
	return c.JSON(http.StatusOK, paymentSentResponse{Preimage: sent.Preimage, Parts: routePartsFrom(sent)})
}

// lnurlWithdrawHandler executes an lnurlw:// URL and pays out an invoice
// generated from this node. Read-tier, per spec.md §4.E.
func (r *Router) lnurlWithdrawHandler(c echo.Context) error {
	g := NewGetter(c)
	url, err := g.GetString("url")
	if err != nil {
		return respondError(c, err)
	}
	amountSat, err := g.GetUint64("amountSat")
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	target, err := r.resolver.ExecuteLnurl(ctx, url)
	if err != nil {
		return respondError(c, err)
	}
	if target.Tag != resolver.LnurlWithdraw {
		return respondError(c, NewInvalidTypeError("url", "an lnurl-withdraw callback"))
	}

	invoice, err := r.engine.CreateInvoice(ctx, &amountSat, "lnurl-withdraw", "", 3600)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := r.store.AddIncoming(invoice.Preimage, invoice.PaymentHash, encoding.OriginInvoice{Request: invoice.Serialized}, time.Now()); err != nil {
		return respondError(c, err)
	}

	if err := r.resolver.SendWithdrawInvoice(ctx, target.Callback, target.K1, invoice.Serialized); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, createInvoiceResponse{
		AmountSat:   invoice.AmountSat,
		PaymentHash: invoice.PaymentHash,
		Serialized:  invoice.Serialized,
	})
}

// lnurlAuthHandler executes an lnurla:// URL and signs the challenge, per
// spec.md §4.E. Full-access-tier, since it authenticates as this node.
func (r *Router) lnurlAuthHandler(c echo.Context) error {
	g := NewGetter(c)
	url, err := g.GetString("url")
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	target, err := r.resolver.ExecuteLnurl(ctx, url)
	if err != nil {
		return respondError(c, err)
	}
	if target.Tag != resolver.LnurlAuth {
		return respondError(c, NewInvalidTypeError("url", "an lnurl-auth callback"))
	}

	if err := r.resolver.SignAndSendAuthRequest(ctx, target.Callback, target.K1); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func splitAddress(address string) (user, domain string, ok bool) {
	parts := strings.SplitN(address, "@", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
