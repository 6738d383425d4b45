package httpapi

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lightningco/nodecore/payments"
)

type balancesResponse struct {
	TotalLocalBalanceSat uint64            `json:"totalLocalBalanceSat"`
	ChannelCount         int               `json:"channelCount"`
	Channels             []channelResponse `json:"channels"`
}

type channelResponse struct {
	ChannelId        string `json:"channelId"`
	ShortChannelId   string `json:"shortChannelId"`
	CapacitySat      uint64 `json:"capacitySat"`
	LocalBalanceMsat uint64 `json:"localBalanceMsat"`
	IsUsable         bool   `json:"isUsable"`
}

// balancesHandler reports the node's aggregate on-channel balance, per
// spec.md §4.E's read-tier "balance" route.
func (r *Router) balancesHandler(c echo.Context) error {
	channels, err := r.engine.Channels(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	var total uint64
	resp := make([]channelResponse, 0, len(channels))
	for _, ch := range channels {
		total += ch.LocalBalanceMsat / 1000
		resp = append(resp, channelResponse{
			ChannelId:        ch.ChannelId,
			ShortChannelId:   ch.ShortChannelId,
			CapacitySat:      ch.CapacitySat,
			LocalBalanceMsat: ch.LocalBalanceMsat,
			IsUsable:         ch.IsUsable,
		})
	}

	return c.JSON(http.StatusOK, balancesResponse{
		TotalLocalBalanceSat: total,
		ChannelCount:         len(channels),
		Channels:             resp,
	})
}

// channelsHandler lists the raw channel snapshot, per spec.md §4.E's
// read-tier "listings" route.
func (r *Router) channelsHandler(c echo.Context) error {
	channels, err := r.engine.Channels(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]channelResponse, 0, len(channels))
	for _, ch := range channels {
		resp = append(resp, channelResponse{
			ChannelId:        ch.ChannelId,
			ShortChannelId:   ch.ShortChannelId,
			CapacitySat:      ch.CapacitySat,
			LocalBalanceMsat: ch.LocalBalanceMsat,
			IsUsable:         ch.IsUsable,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// listPaymentsHandler lists outgoing payments within an optional
// from/to window, per spec.md §4.E's read-tier "listings" route.
func (r *Router) listPaymentsHandler(c echo.Context) error {
	g := NewGetter(c)
	from, to, err := parseWindow(g)
	if err != nil {
		return respondError(c, err)
	}
	limit, err := g.GetOptionalUint64("limit")
	if err != nil {
		return respondError(c, err)
	}
	offset, err := g.GetOptionalUint64("offset")
	if err != nil {
		return respondError(c, err)
	}

	l := 20
	if limit != nil {
		l = int(*limit)
	}
	o := 0
	if offset != nil {
		o = int(*offset)
	}

	payments, err := r.store.ListPaymentsWithin(from, to, l, o)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}

// lookupPaymentHandler resolves a single outgoing payment by its id, or the
// parent of one of its parts, per spec.md §4.E's read-tier "listings" route.
func (r *Router) lookupPaymentHandler(c echo.Context) error {
	id := c.Param("paymentHash")
	payment, err := r.store.GetPayment(id)
	if payments.IsNotFound(err) {
		payment, err = r.store.GetPaymentFromPartId(id)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

func parseWindow(g Getter) (time.Time, time.Time, error) {
	from := time.Unix(0, 0).UTC()
	to := time.Now().UTC()

	fromSec, err := g.GetOptionalUint64("from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if fromSec != nil {
		from = time.Unix(int64(*fromSec), 0).UTC()
	}

	toSec, err := g.GetOptionalUint64("to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if toSec != nil {
		to = time.Unix(int64(*toSec), 0).UTC()
	}

	return from, to, nil
}

type exportResponse struct {
	Path string `json:"path"`
}

// exportHandler streams payment history into a CSV file under the data
// directory's exports subdirectory, responding with the resulting path on
// completion, per spec.md §4.E.
func (r *Router) exportHandler(c echo.Context) error {
	g := NewGetter(c)
	from, to, err := parseWindow(g)
	if err != nil {
		return respondError(c, err)
	}

	filename := "export-" + to.Format("20060102-150405") + ".csv"
	path := filepath.Join(r.cfg.ExportsDir(), filename)

	if err := r.store.Export(path, from, to); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, exportResponse{Path: path})
}
