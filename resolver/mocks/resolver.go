// Package mocks provides a hand-written mock of resolver.Resolver in the
// same per-method mock.Call shape as the teacher's tests/mocks/LNClient_manual.go.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lightningco/nodecore/resolver"
)

type MockResolver struct {
	mock.Mock
}

type MockResolver_Expecter struct {
	mock *mock.Mock
}

func (_mock *MockResolver) EXPECT() *MockResolver_Expecter {
	return &MockResolver_Expecter{mock: &_mock.Mock}
}

func (_mock *MockResolver) ResolveAddress(ctx context.Context, user, domain string, amountMsat uint64, note string) (*resolver.ResolveResult, error) {
	ret := _mock.Called(ctx, user, domain, amountMsat, note)
	var r0 *resolver.ResolveResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*resolver.ResolveResult)
	}
	return r0, ret.Error(1)
}

type MockResolver_ResolveAddress_Call struct{ *mock.Call }

func (_e *MockResolver_Expecter) ResolveAddress(ctx, user, domain, amountMsat, note interface{}) *MockResolver_ResolveAddress_Call {
	return &MockResolver_ResolveAddress_Call{Call: _e.mock.On("ResolveAddress", ctx, user, domain, amountMsat, note)}
}

func (_c *MockResolver_ResolveAddress_Call) Return(result *resolver.ResolveResult, err error) *MockResolver_ResolveAddress_Call {
	_c.Call.Return(result, err)
	return _c
}

func (_mock *MockResolver) ExecuteLnurl(ctx context.Context, url string) (*resolver.LnurlTarget, error) {
	ret := _mock.Called(ctx, url)
	var r0 *resolver.LnurlTarget
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*resolver.LnurlTarget)
	}
	return r0, ret.Error(1)
}

type MockResolver_ExecuteLnurl_Call struct{ *mock.Call }

func (_e *MockResolver_Expecter) ExecuteLnurl(ctx, url interface{}) *MockResolver_ExecuteLnurl_Call {
	return &MockResolver_ExecuteLnurl_Call{Call: _e.mock.On("ExecuteLnurl", ctx, url)}
}

func (_c *MockResolver_ExecuteLnurl_Call) Return(target *resolver.LnurlTarget, err error) *MockResolver_ExecuteLnurl_Call {
	_c.Call.Return(target, err)
	return _c
}

func (_mock *MockResolver) GetLnurlPayInvoice(ctx context.Context, callback string, amountMsat uint64) (string, error) {
	ret := _mock.Called(ctx, callback, amountMsat)
	return ret.String(0), ret.Error(1)
}

type MockResolver_GetLnurlPayInvoice_Call struct{ *mock.Call }

func (_e *MockResolver_Expecter) GetLnurlPayInvoice(ctx, callback, amountMsat interface{}) *MockResolver_GetLnurlPayInvoice_Call {
	return &MockResolver_GetLnurlPayInvoice_Call{Call: _e.mock.On("GetLnurlPayInvoice", ctx, callback, amountMsat)}
}

func (_c *MockResolver_GetLnurlPayInvoice_Call) Return(invoice string, err error) *MockResolver_GetLnurlPayInvoice_Call {
	_c.Call.Return(invoice, err)
	return _c
}

func (_mock *MockResolver) SendWithdrawInvoice(ctx context.Context, callback, k1, invoice string) error {
	ret := _mock.Called(ctx, callback, k1, invoice)
	return ret.Error(0)
}

type MockResolver_SendWithdrawInvoice_Call struct{ *mock.Call }

func (_e *MockResolver_Expecter) SendWithdrawInvoice(ctx, callback, k1, invoice interface{}) *MockResolver_SendWithdrawInvoice_Call {
	return &MockResolver_SendWithdrawInvoice_Call{Call: _e.mock.On("SendWithdrawInvoice", ctx, callback, k1, invoice)}
}

func (_c *MockResolver_SendWithdrawInvoice_Call) Return(err error) *MockResolver_SendWithdrawInvoice_Call {
	_c.Call.Return(err)
	return _c
}

func (_mock *MockResolver) SignAndSendAuthRequest(ctx context.Context, callback, k1 string) error {
	ret := _mock.Called(ctx, callback, k1)
	return ret.Error(0)
}

type MockResolver_SignAndSendAuthRequest_Call struct{ *mock.Call }

func (_e *MockResolver_Expecter) SignAndSendAuthRequest(ctx, callback, k1 interface{}) *MockResolver_SignAndSendAuthRequest_Call {
	return &MockResolver_SignAndSendAuthRequest_Call{Call: _e.mock.On("SignAndSendAuthRequest", ctx, callback, k1)}
}

func (_c *MockResolver_SignAndSendAuthRequest_Call) Return(err error) *MockResolver_SignAndSendAuthRequest_Call {
	_c.Call.Return(err)
	return _c
}

var _ resolver.Resolver = (*MockResolver)(nil)
