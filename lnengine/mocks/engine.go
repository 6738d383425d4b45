// Package mocks provides hand-written mocks of lnengine.Engine in the same
// per-method mock.Call shape as the teacher's tests/mocks/LNClient_manual.go.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lightningco/nodecore/lnengine"
)

// MockEngine is a mock of lnengine.Engine.
type MockEngine struct {
	mock.Mock
}

// MockEngine_Expecter groups the On-call helper methods for MockEngine.
type MockEngine_Expecter struct {
	mock *mock.Mock
}

func (_mock *MockEngine) EXPECT() *MockEngine_Expecter {
	return &MockEngine_Expecter{mock: &_mock.Mock}
}

func (_mock *MockEngine) Connect(ctx context.Context, peerPubkey, host string) error {
	ret := _mock.Called(ctx, peerPubkey, host)
	return ret.Error(0)
}

type MockEngine_Connect_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) Connect(ctx, peerPubkey, host interface{}) *MockEngine_Connect_Call {
	return &MockEngine_Connect_Call{Call: _e.mock.On("Connect", ctx, peerPubkey, host)}
}

func (_c *MockEngine_Connect_Call) Return(err error) *MockEngine_Connect_Call {
	_c.Call.Return(err)
	return _c
}

func (_mock *MockEngine) Disconnect(ctx context.Context) error {
	ret := _mock.Called(ctx)
	return ret.Error(0)
}

type MockEngine_Disconnect_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) Disconnect(ctx interface{}) *MockEngine_Disconnect_Call {
	return &MockEngine_Disconnect_Call{Call: _e.mock.On("Disconnect", ctx)}
}

func (_c *MockEngine_Disconnect_Call) Return(err error) *MockEngine_Disconnect_Call {
	_c.Call.Return(err)
	return _c
}

func (_mock *MockEngine) Channels(ctx context.Context) ([]lnengine.Channel, error) {
	ret := _mock.Called(ctx)
	var r0 []lnengine.Channel
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]lnengine.Channel)
	}
	return r0, ret.Error(1)
}

type MockEngine_Channels_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) Channels(ctx interface{}) *MockEngine_Channels_Call {
	return &MockEngine_Channels_Call{Call: _e.mock.On("Channels", ctx)}
}

func (_c *MockEngine_Channels_Call) Return(channels []lnengine.Channel, err error) *MockEngine_Channels_Call {
	_c.Call.Return(channels, err)
	return _c
}

func (_mock *MockEngine) ConnectionState(ctx context.Context) (<-chan lnengine.ConnectionState, error) {
	ret := _mock.Called(ctx)
	var r0 <-chan lnengine.ConnectionState
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(<-chan lnengine.ConnectionState)
	}
	return r0, ret.Error(1)
}

type MockEngine_ConnectionState_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) ConnectionState(ctx interface{}) *MockEngine_ConnectionState_Call {
	return &MockEngine_ConnectionState_Call{Call: _e.mock.On("ConnectionState", ctx)}
}

func (_c *MockEngine_ConnectionState_Call) Return(ch <-chan lnengine.ConnectionState, err error) *MockEngine_ConnectionState_Call {
	_c.Call.Return(ch, err)
	return _c
}

func (_mock *MockEngine) NodeEvents(ctx context.Context) (<-chan lnengine.NodeEvent, error) {
	ret := _mock.Called(ctx)
	var r0 <-chan lnengine.NodeEvent
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(<-chan lnengine.NodeEvent)
	}
	return r0, ret.Error(1)
}

type MockEngine_NodeEvents_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) NodeEvents(ctx interface{}) *MockEngine_NodeEvents_Call {
	return &MockEngine_NodeEvents_Call{Call: _e.mock.On("NodeEvents", ctx)}
}

func (_c *MockEngine_NodeEvents_Call) Return(ch <-chan lnengine.NodeEvent, err error) *MockEngine_NodeEvents_Call {
	_c.Call.Return(ch, err)
	return _c
}

func (_mock *MockEngine) PayInvoice(ctx context.Context, invoice string, amountMsat *uint64) (*lnengine.PaymentSentResult, *lnengine.PaymentFailedResult, error) {
	ret := _mock.Called(ctx, invoice, amountMsat)
	var r0 *lnengine.PaymentSentResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*lnengine.PaymentSentResult)
	}
	var r1 *lnengine.PaymentFailedResult
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*lnengine.PaymentFailedResult)
	}
	return r0, r1, ret.Error(2)
}

type MockEngine_PayInvoice_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) PayInvoice(ctx, invoice, amountMsat interface{}) *MockEngine_PayInvoice_Call {
	return &MockEngine_PayInvoice_Call{Call: _e.mock.On("PayInvoice", ctx, invoice, amountMsat)}
}

func (_c *MockEngine_PayInvoice_Call) Return(sent *lnengine.PaymentSentResult, failed *lnengine.PaymentFailedResult, err error) *MockEngine_PayInvoice_Call {
	_c.Call.Return(sent, failed, err)
	return _c
}

func (_mock *MockEngine) PayOffer(ctx context.Context, offer string, amountMsat uint64, fetchInvoiceTimeout time.Duration) (*lnengine.PaymentSentResult, *lnengine.PaymentFailedResult, error) {
	ret := _mock.Called(ctx, offer, amountMsat, fetchInvoiceTimeout)
	var r0 *lnengine.PaymentSentResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*lnengine.PaymentSentResult)
	}
	var r1 *lnengine.PaymentFailedResult
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*lnengine.PaymentFailedResult)
	}
	return r0, r1, ret.Error(2)
}

type MockEngine_PayOffer_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) PayOffer(ctx, offer, amountMsat, fetchInvoiceTimeout interface{}) *MockEngine_PayOffer_Call {
	return &MockEngine_PayOffer_Call{Call: _e.mock.On("PayOffer", ctx, offer, amountMsat, fetchInvoiceTimeout)}
}

func (_c *MockEngine_PayOffer_Call) Return(sent *lnengine.PaymentSentResult, failed *lnengine.PaymentFailedResult, err error) *MockEngine_PayOffer_Call {
	_c.Call.Return(sent, failed, err)
	return _c
}

func (_mock *MockEngine) SpliceOut(ctx context.Context, channelId, address string, amountSat uint64) (string, error) {
	ret := _mock.Called(ctx, channelId, address, amountSat)
	return ret.String(0), ret.Error(1)
}

type MockEngine_SpliceOut_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) SpliceOut(ctx, channelId, address, amountSat interface{}) *MockEngine_SpliceOut_Call {
	return &MockEngine_SpliceOut_Call{Call: _e.mock.On("SpliceOut", ctx, channelId, address, amountSat)}
}

func (_c *MockEngine_SpliceOut_Call) Return(txId string, err error) *MockEngine_SpliceOut_Call {
	_c.Call.Return(txId, err)
	return _c
}

func (_mock *MockEngine) SpliceCpfp(ctx context.Context, channelId string, feerateSatPerVb uint64) (string, error) {
	ret := _mock.Called(ctx, channelId, feerateSatPerVb)
	return ret.String(0), ret.Error(1)
}

type MockEngine_SpliceCpfp_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) SpliceCpfp(ctx, channelId, feerateSatPerVb interface{}) *MockEngine_SpliceCpfp_Call {
	return &MockEngine_SpliceCpfp_Call{Call: _e.mock.On("SpliceCpfp", ctx, channelId, feerateSatPerVb)}
}

func (_c *MockEngine_SpliceCpfp_Call) Return(txId string, err error) *MockEngine_SpliceCpfp_Call {
	_c.Call.Return(txId, err)
	return _c
}

func (_mock *MockEngine) Send(ctx context.Context, cmd lnengine.Command) error {
	ret := _mock.Called(ctx, cmd)
	return ret.Error(0)
}

type MockEngine_Send_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) Send(ctx, cmd interface{}) *MockEngine_Send_Call {
	return &MockEngine_Send_Call{Call: _e.mock.On("Send", ctx, cmd)}
}

func (_c *MockEngine_Send_Call) Return(err error) *MockEngine_Send_Call {
	_c.Call.Return(err)
	return _c
}

func (_mock *MockEngine) CreateInvoice(ctx context.Context, amountSat *uint64, description, descriptionHash string, expirySeconds uint32) (*lnengine.Invoice, error) {
	ret := _mock.Called(ctx, amountSat, description, descriptionHash, expirySeconds)
	var r0 *lnengine.Invoice
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*lnengine.Invoice)
	}
	return r0, ret.Error(1)
}

type MockEngine_CreateInvoice_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) CreateInvoice(ctx, amountSat, description, descriptionHash, expirySeconds interface{}) *MockEngine_CreateInvoice_Call {
	return &MockEngine_CreateInvoice_Call{Call: _e.mock.On("CreateInvoice", ctx, amountSat, description, descriptionHash, expirySeconds)}
}

func (_c *MockEngine_CreateInvoice_Call) Return(inv *lnengine.Invoice, err error) *MockEngine_CreateInvoice_Call {
	_c.Call.Return(inv, err)
	return _c
}

func (_mock *MockEngine) RequestAddress(ctx context.Context) (string, error) {
	ret := _mock.Called(ctx)
	return ret.String(0), ret.Error(1)
}

type MockEngine_RequestAddress_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) RequestAddress(ctx interface{}) *MockEngine_RequestAddress_Call {
	return &MockEngine_RequestAddress_Call{Call: _e.mock.On("RequestAddress", ctx)}
}

func (_c *MockEngine_RequestAddress_Call) Return(address string, err error) *MockEngine_RequestAddress_Call {
	_c.Call.Return(address, err)
	return _c
}

func (_mock *MockEngine) SetAutoLiquidityParams(ctx context.Context, maxAbsoluteFeeSat uint64, maxRelativeFeeBps uint32, maxAllowedCreditSat uint64) error {
	ret := _mock.Called(ctx, maxAbsoluteFeeSat, maxRelativeFeeBps, maxAllowedCreditSat)
	return ret.Error(0)
}

type MockEngine_SetAutoLiquidityParams_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) SetAutoLiquidityParams(ctx, maxAbsoluteFeeSat, maxRelativeFeeBps, maxAllowedCreditSat interface{}) *MockEngine_SetAutoLiquidityParams_Call {
	return &MockEngine_SetAutoLiquidityParams_Call{Call: _e.mock.On("SetAutoLiquidityParams", ctx, maxAbsoluteFeeSat, maxRelativeFeeBps, maxAllowedCreditSat)}
}

func (_c *MockEngine_SetAutoLiquidityParams_Call) Return(err error) *MockEngine_SetAutoLiquidityParams_Call {
	_c.Call.Return(err)
	return _c
}

func (_mock *MockEngine) RegisterFcmToken(ctx context.Context, token string) error {
	ret := _mock.Called(ctx, token)
	return ret.Error(0)
}

type MockEngine_RegisterFcmToken_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) RegisterFcmToken(ctx, token interface{}) *MockEngine_RegisterFcmToken_Call {
	return &MockEngine_RegisterFcmToken_Call{Call: _e.mock.On("RegisterFcmToken", ctx, token)}
}

func (_c *MockEngine_RegisterFcmToken_Call) Return(err error) *MockEngine_RegisterFcmToken_Call {
	_c.Call.Return(err)
	return _c
}

func (_mock *MockEngine) EstimateFeeForSpliceCpfp(ctx context.Context, channelId string, feerateSatPerVb uint64) (uint64, error) {
	ret := _mock.Called(ctx, channelId, feerateSatPerVb)
	var r0 uint64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(uint64)
	}
	return r0, ret.Error(1)
}

type MockEngine_EstimateFeeForSpliceCpfp_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) EstimateFeeForSpliceCpfp(ctx, channelId, feerateSatPerVb interface{}) *MockEngine_EstimateFeeForSpliceCpfp_Call {
	return &MockEngine_EstimateFeeForSpliceCpfp_Call{Call: _e.mock.On("EstimateFeeForSpliceCpfp", ctx, channelId, feerateSatPerVb)}
}

func (_c *MockEngine_EstimateFeeForSpliceCpfp_Call) Return(feeSat uint64, err error) *MockEngine_EstimateFeeForSpliceCpfp_Call {
	_c.Call.Return(feeSat, err)
	return _c
}

func (_mock *MockEngine) RemoteFundingRates(ctx context.Context) (*lnengine.FundingRates, error) {
	ret := _mock.Called(ctx)
	var r0 *lnengine.FundingRates
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*lnengine.FundingRates)
	}
	return r0, ret.Error(1)
}

type MockEngine_RemoteFundingRates_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) RemoteFundingRates(ctx interface{}) *MockEngine_RemoteFundingRates_Call {
	return &MockEngine_RemoteFundingRates_Call{Call: _e.mock.On("RemoteFundingRates", ctx)}
}

func (_c *MockEngine_RemoteFundingRates_Call) Return(rates *lnengine.FundingRates, err error) *MockEngine_RemoteFundingRates_Call {
	_c.Call.Return(rates, err)
	return _c
}

func (_mock *MockEngine) OnChainFeeratesFlow(ctx context.Context) (<-chan uint64, error) {
	ret := _mock.Called(ctx)
	var r0 <-chan uint64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(<-chan uint64)
	}
	return r0, ret.Error(1)
}

type MockEngine_OnChainFeeratesFlow_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) OnChainFeeratesFlow(ctx interface{}) *MockEngine_OnChainFeeratesFlow_Call {
	return &MockEngine_OnChainFeeratesFlow_Call{Call: _e.mock.On("OnChainFeeratesFlow", ctx)}
}

func (_c *MockEngine_OnChainFeeratesFlow_Call) Return(ch <-chan uint64, err error) *MockEngine_OnChainFeeratesFlow_Call {
	_c.Call.Return(ch, err)
	return _c
}

func (_mock *MockEngine) FeeCreditFlow(ctx context.Context) (<-chan uint64, error) {
	ret := _mock.Called(ctx)
	var r0 <-chan uint64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(<-chan uint64)
	}
	return r0, ret.Error(1)
}

type MockEngine_FeeCreditFlow_Call struct{ *mock.Call }

func (_e *MockEngine_Expecter) FeeCreditFlow(ctx interface{}) *MockEngine_FeeCreditFlow_Call {
	return &MockEngine_FeeCreditFlow_Call{Call: _e.mock.On("FeeCreditFlow", ctx)}
}

func (_c *MockEngine_FeeCreditFlow_Call) Return(ch <-chan uint64, err error) *MockEngine_FeeCreditFlow_Call {
	_c.Call.Return(ch, err)
	return _c
}

var _ lnengine.Engine = (*MockEngine)(nil)
