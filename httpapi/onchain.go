package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/lnengine"
)

func localBalanceSat(channels []lnengine.Channel, channelId string) (uint64, bool) {
	for _, ch := range channels {
		if ch.ChannelId == channelId {
			return ch.LocalBalanceMsat / 1000, true
		}
	}
	return 0, false
}

type txIdResponse struct {
	TxId string `json:"txId"`
}

// sendToAddressHandler splices amountSat out to an on-chain address, per
// spec.md §4.E. Never partial success: the resulting transaction id is
// returned only once the engine confirms the splice was broadcast.
func (r *Router) sendToAddressHandler(c echo.Context) error {
	g := NewGetter(c)
	address, err := g.GetString("address")
	if err != nil {
		return respondError(c, err)
	}
	channelId, err := g.GetString("channelId")
	if err != nil {
		return respondError(c, err)
	}
	amountSat, err := g.GetUint64("amountSat")
	if err != nil {
		return respondError(c, err)
	}

	txId, err := r.engine.SpliceOut(c.Request().Context(), channelId, address, amountSat)
	if err != nil {
		return respondError(c, err)
	}
	r.recordChannelClose(amountSat*1000, address, false, channelId, txId, encoding.Local{})
	return c.JSON(http.StatusOK, txIdResponse{TxId: txId})
}

// recordChannelClose persists a splice-out that moves a channel's balance
// on-chain. See spec.md §3 - ChannelCloseOutgoingPayment. miningFeeMsat
// starts at zero: SpliceOut doesn't return the broadcast fee, so it is
// filled in later by bumpFeeHandler's CPFP estimate or left at zero for a
// close that never needed one.
func (r *Router) recordChannelClose(amountMsat uint64, address string, isSentToDefaultAddress bool, channelId, txId string, closingInfo encoding.ClosingInfo) {
	if _, err := r.store.AddChannelClose(amountMsat, address, isSentToDefaultAddress, 0, channelId, txId, closingInfo, time.Now()); err != nil {
		r.logger.Error().Err(err).Str("channel_id", channelId).Msg("failed to record channel close payment")
	}
}

// bumpFeeHandler CPFP-bumps a channel's pending funding/closing transaction
// to feerateSatPerVb, per spec.md §4.E.
func (r *Router) bumpFeeHandler(c echo.Context) error {
	g := NewGetter(c)
	channelId, err := g.GetString("channelId")
	if err != nil {
		return respondError(c, err)
	}
	feerate, err := g.GetUint64("feerateSatPerVb")
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	feeSat, err := r.engine.EstimateFeeForSpliceCpfp(ctx, channelId, feerate)
	if err != nil {
		return respondError(c, err)
	}

	txId, err := r.engine.SpliceCpfp(ctx, channelId, feerate)
	if err != nil {
		return respondError(c, err)
	}
	if ok, err := r.store.UpdateChannelCloseMiningFee(channelId, feeSat*1000); err != nil {
		r.logger.Error().Err(err).Str("channel_id", channelId).Msg("failed to update channel close mining fee")
	} else if !ok {
		if _, err := r.store.UpdateInboundLiquidityMiningFee(channelId, feeSat*1000); err != nil {
			r.logger.Error().Err(err).Str("channel_id", channelId).Msg("failed to update inbound liquidity mining fee")
		}
	}
	return c.JSON(http.StatusOK, txIdResponse{TxId: txId})
}

// closeChannelHandler mutually closes a channel by splicing its entire
// local balance out to address, per spec.md §4.E's grouping of closeChannel
// with the other splice operations. Never partial success: the channel is
// looked up fresh so the close always spends the current balance, not a
// stale one.
func (r *Router) closeChannelHandler(c echo.Context) error {
	g := NewGetter(c)
	channelId, err := g.GetString("channelId")
	if err != nil {
		return respondError(c, err)
	}
	address, err := g.GetString("address")
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	channels, err := r.engine.Channels(ctx)
	if err != nil {
		return respondError(c, err)
	}

	balanceSat, ok := localBalanceSat(channels, channelId)
	if !ok {
		return respondError(c, NewNotFoundError("channel"))
	}

	txId, err := r.engine.SpliceOut(ctx, channelId, address, balanceSat)
	if err != nil {
		return respondError(c, err)
	}
	r.recordChannelClose(balanceSat*1000, address, false, channelId, txId, encoding.Mutual{})
	return c.JSON(http.StatusOK, txIdResponse{TxId: txId})
}
