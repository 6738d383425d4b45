package encoding

import "encoding/json"

// LightningOutgoingDetails is the closed set of shapes an outgoing Lightning
// payment's details can take. See spec.md §3 - LightningOutgoingPayment.details.
type LightningOutgoingDetails interface {
	isLightningOutgoingDetails()
}

type DetailsNormal struct {
	PaymentRequest string
}

type DetailsKeySend struct {
	Preimage string
}

type DetailsSwapOut struct {
	Address        string
	PaymentRequest string
	SwapOutFeeMsat uint64
}

type DetailsBlinded struct {
	PaymentRequest string
	PayerKey       string
}

func (DetailsNormal) isLightningOutgoingDetails()  {}
func (DetailsKeySend) isLightningOutgoingDetails() {}
func (DetailsSwapOut) isLightningOutgoingDetails() {}
func (DetailsBlinded) isLightningOutgoingDetails() {}

const (
	TagOutgoingDetailsNormalV0  Tag = "lightning_outgoing_details_normal_v0"
	TagOutgoingDetailsKeySendV0 Tag = "lightning_outgoing_details_keysend_v0"
	TagOutgoingDetailsSwapOutV0 Tag = "lightning_outgoing_details_swapout_v0"
	TagOutgoingDetailsBlindedV0 Tag = "lightning_outgoing_details_blinded_v0"
)

type detailsNormalDTOv0 struct {
	PaymentRequest string `json:"payment_request"`
}

type detailsKeySendDTOv0 struct {
	Preimage string `json:"preimage"`
}

type detailsSwapOutDTOv0 struct {
	Address        string `json:"address"`
	PaymentRequest string `json:"payment_request"`
	SwapOutFeeMsat uint64 `json:"swap_out_fee_msat"`
}

type detailsBlindedDTOv0 struct {
	PaymentRequest string `json:"payment_request"`
	PayerKey       string `json:"payer_key"`
}

// EncodeOutgoingDetails returns the (tag, blob) pair to persist for v.
func EncodeOutgoingDetails(v LightningOutgoingDetails) (Tag, []byte, error) {
	switch d := v.(type) {
	case DetailsNormal:
		b, err := json.Marshal(detailsNormalDTOv0{PaymentRequest: d.PaymentRequest})
		return TagOutgoingDetailsNormalV0, b, err
	case DetailsKeySend:
		b, err := json.Marshal(detailsKeySendDTOv0{Preimage: d.Preimage})
		return TagOutgoingDetailsKeySendV0, b, err
	case DetailsSwapOut:
		b, err := json.Marshal(detailsSwapOutDTOv0{Address: d.Address, PaymentRequest: d.PaymentRequest, SwapOutFeeMsat: d.SwapOutFeeMsat})
		return TagOutgoingDetailsSwapOutV0, b, err
	case DetailsBlinded:
		b, err := json.Marshal(detailsBlindedDTOv0{PaymentRequest: d.PaymentRequest, PayerKey: d.PayerKey})
		return TagOutgoingDetailsBlindedV0, b, err
	default:
		return "", nil, errUnregisteredGoType("lightning_outgoing_details", v)
	}
}

// DecodeOutgoingDetails rehydrates the value persisted under tag with blob.
func DecodeOutgoingDetails(tag Tag, blob []byte) (LightningOutgoingDetails, error) {
	switch tag {
	case TagOutgoingDetailsNormalV0:
		var dto detailsNormalDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "lightning_outgoing_details", Tag: tag, Err: err}
		}
		return DetailsNormal{PaymentRequest: dto.PaymentRequest}, nil
	case TagOutgoingDetailsKeySendV0:
		var dto detailsKeySendDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "lightning_outgoing_details", Tag: tag, Err: err}
		}
		return DetailsKeySend{Preimage: dto.Preimage}, nil
	case TagOutgoingDetailsSwapOutV0:
		var dto detailsSwapOutDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "lightning_outgoing_details", Tag: tag, Err: err}
		}
		return DetailsSwapOut{Address: dto.Address, PaymentRequest: dto.PaymentRequest, SwapOutFeeMsat: dto.SwapOutFeeMsat}, nil
	case TagOutgoingDetailsBlindedV0:
		var dto detailsBlindedDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "lightning_outgoing_details", Tag: tag, Err: err}
		}
		return DetailsBlinded{PaymentRequest: dto.PaymentRequest, PayerKey: dto.PayerKey}, nil
	default:
		return nil, &ErrUnknownTag{Family: "lightning_outgoing_details", Tag: tag}
	}
}
