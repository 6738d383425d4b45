package payments

import (
	"errors"
	"fmt"

	"github.com/lightningco/nodecore/encoding"
)

// IsNotFound reports whether err is (or wraps) one of the incoming/outgoing
// not-found sentinels, so callers at the HTTP boundary can pick a 404
// without reaching into this package's unexported error types themselves.
func IsNotFound(err error) bool {
	var incoming *incomingPaymentNotFoundError
	var outgoing *outgoingPaymentNotFoundError
	return errors.As(err, &incoming) || errors.As(err, &outgoing)
}

type incomingPaymentNotFoundError struct{}

// NewIncomingPaymentNotFoundError returns the error get/setLocked/setConfirmed
// return when no row matches the given payment hash.
func NewIncomingPaymentNotFoundError() error {
	return &incomingPaymentNotFoundError{}
}

func (*incomingPaymentNotFoundError) Error() string {
	return "incoming payment not found"
}

type outgoingPaymentNotFoundError struct{}

func NewOutgoingPaymentNotFoundError() error {
	return &outgoingPaymentNotFoundError{}
}

func (*outgoingPaymentNotFoundError) Error() string {
	return "outgoing payment not found"
}

type channelSnapshotNotFoundError struct{}

func NewChannelSnapshotNotFoundError() error {
	return &channelSnapshotNotFoundError{}
}

func (*channelSnapshotNotFoundError) Error() string {
	return "channel snapshot not found"
}

// unreadableIncomingReceivedWithError wraps a decode failure on the
// receivedWith column so callers can tell a storage-layer bug apart from a
// not-found condition.
type unreadableIncomingReceivedWithError struct {
	PaymentHash string
	Err         error
}

func NewUnreadableIncomingReceivedWithError(paymentHash string, err error) error {
	return &unreadableIncomingReceivedWithError{PaymentHash: paymentHash, Err: err}
}

func (e *unreadableIncomingReceivedWithError) Error() string {
	return fmt.Sprintf("incoming payment %s: unreadable received_with column: %v", e.PaymentHash, e.Err)
}

func (e *unreadableIncomingReceivedWithError) Unwrap() error { return e.Err }

// unhandledOutgoingStatusError signals a row whose status (type, blob) pair
// decoded to a tag this version of the code does not know how to act on, or
// whose completedAt/(type,blob) co-presence invariant was violated.
type unhandledOutgoingStatusError struct {
	PaymentId string
	Tag       encoding.Tag
}

func NewUnhandledOutgoingStatusError(paymentId string, tag encoding.Tag) error {
	return &unhandledOutgoingStatusError{PaymentId: paymentId, Tag: tag}
}

func (e *unhandledOutgoingStatusError) Error() string {
	return fmt.Sprintf("outgoing payment %s: unhandled status tag %q", e.PaymentId, e.Tag)
}

type unhandledOutgoingPartStatusError struct {
	PartId string
	Tag    encoding.Tag
}

func NewUnhandledOutgoingPartStatusError(partId string, tag encoding.Tag) error {
	return &unhandledOutgoingPartStatusError{PartId: partId, Tag: tag}
}

func (e *unhandledOutgoingPartStatusError) Error() string {
	return fmt.Sprintf("outgoing part %s: unhandled status tag %q", e.PartId, e.Tag)
}
