package encoding

import "encoding/json"

// IncomingOrigin is the closed set of ways an incoming payment came to be
// expected. See spec.md §3 - IncomingPayment.origin.
type IncomingOrigin interface {
	isIncomingOrigin()
}

type OriginInvoice struct {
	Request string
}

type OriginOffer struct {
	Metadata []byte
}

type OriginSwapIn struct {
	Address string
}

type OriginOnChain struct {
	TxIds []string
}

func (OriginInvoice) isIncomingOrigin() {}
func (OriginOffer) isIncomingOrigin()   {}
func (OriginSwapIn) isIncomingOrigin()  {}
func (OriginOnChain) isIncomingOrigin() {}

const (
	TagIncomingOriginInvoiceV0 Tag = "incoming_origin_invoice_v0"
	TagIncomingOriginOfferV0   Tag = "incoming_origin_offer_v0"
	TagIncomingOriginSwapInV0  Tag = "incoming_origin_swapin_v0"
	TagIncomingOriginOnChainV0 Tag = "incoming_origin_onchain_v0"
)

type originInvoiceDTOv0 struct {
	Request string `json:"request"`
}

type originOfferDTOv0 struct {
	Metadata []byte `json:"metadata"`
}

type originSwapInDTOv0 struct {
	Address string `json:"address"`
}

type originOnChainDTOv0 struct {
	TxIds []string `json:"tx_ids"`
}

// EncodeIncomingOrigin returns the (tag, blob) pair to persist for v.
func EncodeIncomingOrigin(v IncomingOrigin) (Tag, []byte, error) {
	switch o := v.(type) {
	case OriginInvoice:
		b, err := json.Marshal(originInvoiceDTOv0{Request: o.Request})
		return TagIncomingOriginInvoiceV0, b, err
	case OriginOffer:
		b, err := json.Marshal(originOfferDTOv0{Metadata: o.Metadata})
		return TagIncomingOriginOfferV0, b, err
	case OriginSwapIn:
		b, err := json.Marshal(originSwapInDTOv0{Address: o.Address})
		return TagIncomingOriginSwapInV0, b, err
	case OriginOnChain:
		b, err := json.Marshal(originOnChainDTOv0{TxIds: o.TxIds})
		return TagIncomingOriginOnChainV0, b, err
	default:
		return "", nil, errUnregisteredGoType("incoming_origin", v)
	}
}

// DecodeIncomingOrigin rehydrates the value persisted under tag with blob.
func DecodeIncomingOrigin(tag Tag, blob []byte) (IncomingOrigin, error) {
	switch tag {
	case TagIncomingOriginInvoiceV0:
		var dto originInvoiceDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "incoming_origin", Tag: tag, Err: err}
		}
		return OriginInvoice{Request: dto.Request}, nil
	case TagIncomingOriginOfferV0:
		var dto originOfferDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "incoming_origin", Tag: tag, Err: err}
		}
		return OriginOffer{Metadata: dto.Metadata}, nil
	case TagIncomingOriginSwapInV0:
		var dto originSwapInDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "incoming_origin", Tag: tag, Err: err}
		}
		return OriginSwapIn{Address: dto.Address}, nil
	case TagIncomingOriginOnChainV0:
		var dto originOnChainDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "incoming_origin", Tag: tag, Err: err}
		}
		return OriginOnChain{TxIds: dto.TxIds}, nil
	default:
		return nil, &ErrUnknownTag{Family: "incoming_origin", Tag: tag}
	}
}

