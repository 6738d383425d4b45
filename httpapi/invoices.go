package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lightningco/nodecore/constants"
	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/lnengine"
	"github.com/lightningco/nodecore/payments"
	"github.com/lightningco/nodecore/utils"
)

type createInvoiceResponse struct {
	AmountSat   *uint64 `json:"amountSat,omitempty"`
	PaymentHash string  `json:"paymentHash"`
	Serialized  string  `json:"serialized"`
}

// createInvoiceHandler rejects a request that carries both description and
// descriptionHash. A request that carries neither is accepted and passed to
// the engine with both empty.
func (r *Router) createInvoiceHandler(c echo.Context) error {
	g := NewGetter(c)

	description := g.GetOptionalString("description")
	descriptionHash := g.GetOptionalString("descriptionHash")
	if description != "" && descriptionHash != "" {
		return respondError(c, NewInvalidTypeError("description/descriptionHash", "exactly one of the two"))
	}
	if len(description) > constants.InvoiceDescriptionMaxLength {
		return respondError(c, NewInvalidTypeError("description", "128 characters or fewer"))
	}

	amountSat, err := g.GetOptionalUint64("amountSat")
	if err != nil {
		return respondError(c, err)
	}
	expirySeconds, err := g.GetOptionalUint32("expirySeconds")
	if err != nil {
		return respondError(c, err)
	}
	expiry := uint32(3600)
	if expirySeconds != nil {
		expiry = *expirySeconds
	}

	ctx := c.Request().Context()
	invoice, err := r.engine.CreateInvoice(ctx, amountSat, description, descriptionHash, expiry)
	if err != nil {
		return respondError(c, err)
	}

	if _, err := r.store.AddIncoming(invoice.Preimage, invoice.PaymentHash, encoding.OriginInvoice{Request: invoice.Serialized}, time.Now()); err != nil {
		return respondError(c, err)
	}

	externalId := g.GetOptionalString("externalId")
	webhookUrl := g.GetOptionalString("webhookUrl")
	if webhookUrl != "" {
		if err := utils.ValidateHTTPURL(webhookUrl); err != nil {
			return respondError(c, NewInvalidTypeError("webhookUrl", "an http(s) URL"))
		}
	}
	if externalId != "" || webhookUrl != "" {
		meta := payments.Metadata{}
		if externalId != "" {
			meta.ExternalId = &externalId
		}
		if webhookUrl != "" {
			meta.WebhookUrl = &webhookUrl
		}
		if err := r.store.SetMetadata(db.PaymentTypeIncoming, invoice.PaymentHash, meta); err != nil {
			return respondError(c, err)
		}
	}

	return c.JSON(http.StatusOK, createInvoiceResponse{
		AmountSat:   invoice.AmountSat,
		PaymentHash: invoice.PaymentHash,
		Serialized:  invoice.Serialized,
	})
}

type paymentSentResponse struct {
	Preimage string             `json:"preimage"`
	Parts    []paymentRoutePart `json:"parts"`
}

type paymentRoutePart struct {
	NodeA          string `json:"nodeA"`
	NodeB          string `json:"nodeB"`
	ShortChannelId string `json:"shortChannelId,omitempty"`
}

type paymentFailedResponse struct {
	Reason   string `json:"reason"`
	Attempts int    `json:"attempts"`
}

// payInvoiceHandler accepts invoice and an optional amountSat override, per
// spec.md §4.E.
func (r *Router) payInvoiceHandler(c echo.Context) error {
	g := NewGetter(c)
	invoice, err := g.GetString("invoice")
	if err != nil {
		return respondError(c, err)
	}
	amountSat, err := g.GetOptionalUint64("amountSat")
	if err != nil {
		return respondError(c, err)
	}
	var amountMsat *uint64
	if amountSat != nil {
		m := *amountSat * 1000
		amountMsat = &m
	}

	sent, failed, err := r.engine.PayInvoice(c.Request().Context(), invoice, amountMsat)
	if err != nil {
		return respondError(c, err)
	}
	r.recordOutgoingPayment(encoding.DetailsNormal{PaymentRequest: invoice}, recipientAmountMsat(amountMsat), sent, failed)
	if failed != nil {
		return c.JSON(http.StatusOK, paymentFailedResponse{Reason: failed.Reason, Attempts: failed.Attempts})
	}
	return c.JSON(http.StatusOK, paymentSentResponse{Preimage: sent.Preimage, Parts: routePartsFrom(sent)})
}

// recordOutgoingPayment persists the payment this Router's engine already
// executed: one insert carrying the final part status, immediately
// completed. The protocol engine's PayInvoice/PayOffer calls are
// synchronous and return only the final outcome, so there is no
// intermediate Pending state to observe independently; addOutgoing and
// completePayment are therefore called back-to-back rather than from two
// separate event-driven steps the way the incoming side's setLocked/
// setConfirmed are.
func (r *Router) recordOutgoingPayment(details encoding.LightningOutgoingDetails, amountMsat uint64, sent *lnengine.PaymentSentResult, failed *lnengine.PaymentFailedResult) {
	now := time.Now()

	var partStatus encoding.PartStatus
	var paymentStatus encoding.OutgoingStatus
	var route []encoding.RouteHop
	switch {
	case failed != nil:
		partStatus = encoding.PartFailed{Failure: failed.Reason, CompletedAt: now}
		paymentStatus = encoding.OutgoingFailed{Reason: failed.Reason, CompletedAt: now}
	case sent != nil:
		partStatus = encoding.PartSucceeded{Preimage: sent.Preimage, CompletedAt: now}
		paymentStatus = encoding.OutgoingSucceededOffChain{Preimage: sent.Preimage, CompletedAt: now}
		route = sent.Parts
	default:
		return
	}

	part := payments.Part{AmountMsat: amountMsat, Route: route, Status: partStatus, CreatedAt: now}
	paymentId, err := r.store.AddOutgoing("", amountMsat, details, []payments.Part{part}, now)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to record outgoing payment")
		return
	}
	if _, err := r.store.CompletePayment(paymentId, paymentStatus, now); err != nil {
		r.logger.Error().Err(err).Str("payment_id", paymentId).Msg("failed to complete outgoing payment")
	}
}

// recipientAmountMsat resolves the amount to record for a PayInvoice call:
// the caller's override when given. PaymentSentResult carries route hop
// info, not a per-payment amount, so an invoice paid without an override
// (its amount comes from the BOLT11 string the engine decodes internally,
// out of scope per spec.md §1) is recorded as zero.
func recipientAmountMsat(amountMsat *uint64) uint64 {
	if amountMsat != nil {
		return *amountMsat
	}
	return 0
}

func routePartsFrom(sent *lnengine.PaymentSentResult) []paymentRoutePart {
	parts := make([]paymentRoutePart, 0, len(sent.Parts))
	for _, hop := range sent.Parts {
		parts = append(parts, paymentRoutePart{NodeA: hop.NodeA, NodeB: hop.NodeB, ShortChannelId: hop.ShortChannelId})
	}
	return parts
}

// payOfferHandler pays a BOLT12 offer, using the 30 s fetch-invoice
// timeout named in spec.md §5.
func (r *Router) payOfferHandler(c echo.Context) error {
	g := NewGetter(c)
	offer, err := g.GetString("offer")
	if err != nil {
		return respondError(c, err)
	}
	amountSat, err := g.GetUint64("amountSat")
	if err != nil {
		return respondError(c, err)
	}

	sent, failed, err := r.engine.PayOffer(c.Request().Context(), offer, amountSat*1000, time.Duration(constants.OfferFetchInvoiceTimeoutSeconds)*time.Second)
	if err != nil {
		return respondError(c, err)
	}
	r.recordOutgoingPayment(encoding.DetailsNormal{PaymentRequest: offer}, amountSat*1000, sent, failed)
	if failed != nil {
		return c.JSON(http.StatusOK, paymentFailedResponse{Reason: failed.Reason, Attempts: failed.Attempts})
	}
	return c.JSON(http.StatusOK, paymentSentResponse{Preimage: sent.Preimage, Parts: routePartsFrom(sent)})
}
