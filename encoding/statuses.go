package encoding

import (
	"encoding/json"
	"time"
)

// PartStatus is the closed set of states a Part can be in. See spec.md §3.
type PartStatus interface {
	isPartStatus()
}

type PartPending struct{}

type PartSucceeded struct {
	Preimage    string
	CompletedAt time.Time
}

type PartFailed struct {
	Failure     string
	CompletedAt time.Time
}

func (PartPending) isPartStatus()   {}
func (PartSucceeded) isPartStatus() {}
func (PartFailed) isPartStatus()    {}

const (
	TagPartStatusPendingV0   Tag = "part_status_pending_v0"
	TagPartStatusSucceededV0 Tag = "part_status_succeeded_v0"
	TagPartStatusFailedV0    Tag = "part_status_failed_v0"
)

type partSucceededDTOv0 struct {
	Preimage    string    `json:"preimage"`
	CompletedAt time.Time `json:"completed_at"`
}

type partFailedDTOv0 struct {
	Failure     string    `json:"failure"`
	CompletedAt time.Time `json:"completed_at"`
}

// EncodePartStatus returns the (tag, blob) pair to persist for v.
func EncodePartStatus(v PartStatus) (Tag, []byte, error) {
	switch s := v.(type) {
	case PartPending:
		return TagPartStatusPendingV0, []byte("{}"), nil
	case PartSucceeded:
		b, err := json.Marshal(partSucceededDTOv0{Preimage: s.Preimage, CompletedAt: s.CompletedAt})
		return TagPartStatusSucceededV0, b, err
	case PartFailed:
		b, err := json.Marshal(partFailedDTOv0{Failure: s.Failure, CompletedAt: s.CompletedAt})
		return TagPartStatusFailedV0, b, err
	default:
		return "", nil, errUnregisteredGoType("part_status", v)
	}
}

// DecodePartStatus rehydrates the value persisted under tag with blob.
func DecodePartStatus(tag Tag, blob []byte) (PartStatus, error) {
	switch tag {
	case TagPartStatusPendingV0:
		return PartPending{}, nil
	case TagPartStatusSucceededV0:
		var dto partSucceededDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "part_status", Tag: tag, Err: err}
		}
		return PartSucceeded{Preimage: dto.Preimage, CompletedAt: dto.CompletedAt}, nil
	case TagPartStatusFailedV0:
		var dto partFailedDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "part_status", Tag: tag, Err: err}
		}
		return PartFailed{Failure: dto.Failure, CompletedAt: dto.CompletedAt}, nil
	default:
		return nil, &ErrUnknownTag{Family: "part_status", Tag: tag}
	}
}

// OutgoingStatus is the closed set of states an outgoing Lightning payment
// can be in at the payment level. See spec.md §3.
type OutgoingStatus interface {
	isOutgoingStatus()
}

type OutgoingPending struct{}

type OutgoingSucceededOffChain struct {
	Preimage    string
	CompletedAt time.Time
}

type OutgoingFailed struct {
	Reason      string
	CompletedAt time.Time
}

func (OutgoingPending) isOutgoingStatus()           {}
func (OutgoingSucceededOffChain) isOutgoingStatus() {}
func (OutgoingFailed) isOutgoingStatus()            {}

const (
	TagOutgoingStatusPendingV0           Tag = "lightning_outgoing_status_pending_v0"
	TagOutgoingStatusSucceededOffChainV0 Tag = "lightning_outgoing_status_succeeded_offchain_v0"
	TagOutgoingStatusFailedV0            Tag = "lightning_outgoing_status_failed_v0"
)

type outgoingSucceededDTOv0 struct {
	Preimage    string    `json:"preimage"`
	CompletedAt time.Time `json:"completed_at"`
}

type outgoingFailedDTOv0 struct {
	Reason      string    `json:"reason"`
	CompletedAt time.Time `json:"completed_at"`
}

// EncodeOutgoingStatus returns the (tag, blob) pair to persist for v.
func EncodeOutgoingStatus(v OutgoingStatus) (Tag, []byte, error) {
	switch s := v.(type) {
	case OutgoingPending:
		return TagOutgoingStatusPendingV0, []byte("{}"), nil
	case OutgoingSucceededOffChain:
		b, err := json.Marshal(outgoingSucceededDTOv0{Preimage: s.Preimage, CompletedAt: s.CompletedAt})
		return TagOutgoingStatusSucceededOffChainV0, b, err
	case OutgoingFailed:
		b, err := json.Marshal(outgoingFailedDTOv0{Reason: s.Reason, CompletedAt: s.CompletedAt})
		return TagOutgoingStatusFailedV0, b, err
	default:
		return "", nil, errUnregisteredGoType("lightning_outgoing_status", v)
	}
}

// DecodeOutgoingStatus rehydrates the value persisted under tag with blob.
func DecodeOutgoingStatus(tag Tag, blob []byte) (OutgoingStatus, error) {
	switch tag {
	case TagOutgoingStatusPendingV0:
		return OutgoingPending{}, nil
	case TagOutgoingStatusSucceededOffChainV0:
		var dto outgoingSucceededDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "lightning_outgoing_status", Tag: tag, Err: err}
		}
		return OutgoingSucceededOffChain{Preimage: dto.Preimage, CompletedAt: dto.CompletedAt}, nil
	case TagOutgoingStatusFailedV0:
		var dto outgoingFailedDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "lightning_outgoing_status", Tag: tag, Err: err}
		}
		return OutgoingFailed{Reason: dto.Reason, CompletedAt: dto.CompletedAt}, nil
	default:
		return nil, &ErrUnknownTag{Family: "lightning_outgoing_status", Tag: tag}
	}
}
