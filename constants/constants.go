package constants

// Version is the daemon's build version, surfaced in the startup log line.
const Version = "0.1.0"

const (
	DefaultMaxAbsoluteFeeSat    = uint64(40_000)
	DefaultMaxRelativeFeeBps    = uint32(30)
	DefaultMaxAllowedCreditSat  = uint64(100_000)
	MinMaxAbsoluteFeeSat        = uint64(5_000)
	MaxMaxAbsoluteFeeSat        = uint64(100_000)
	MinMaxRelativeFeeBps        = uint32(1)
	MaxMaxRelativeFeeBps        = uint32(50)
	MinMaxAllowedCreditSat      = uint64(0)
	MaxMaxAllowedCreditSat      = uint64(100_000)
)

const (
	PeerConnectTimeoutSeconds   = 10
	PeerHandshakeTimeoutSeconds = 10
	PeerReconnectSleepSeconds   = 3
	OfferFetchInvoiceTimeoutSeconds = 30
)

const InvoiceDescriptionMaxLength = 128
