// Package wire encodes subscription documents exchanged with SIRI producers.
//
// Documents are CBOR with integer keys; see the cbor struct tags in package types.
package wire

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/skywave/onebusaway-siri/types"
)

// ErrMissingPayload is returned when a request envelope carries no subscription document.
var ErrMissingPayload = errors.New("subscription request envelope has no payload")

// encMode is the deterministic encoder shared by all documents.
var encMode cbor.EncMode

// decMode tolerates unknown fields so newer producers can add them.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Marshal encodes v with the package encoder mode.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes data into v with the package decoder mode.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// EncodeRequest encodes a client request envelope together with its payload.
//
// Returns:
//   - []byte: CBOR document
//   - error: ErrMissingPayload if req or its payload is nil
func EncodeRequest(req *types.ClientRequest) ([]byte, error) {
	if req == nil || req.Payload == nil {
		return nil, ErrMissingPayload
	}

	return Marshal(req)
}

// DecodeRequest decodes a client request envelope.
func DecodeRequest(data []byte) (*types.ClientRequest, error) {
	var req types.ClientRequest
	if err := Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode subscription request: %w", err)
	}
	if req.Payload == nil {
		return nil, ErrMissingPayload
	}

	return &req, nil
}

// EncodeResponse encodes a subscription response.
func EncodeResponse(resp *types.SubscriptionResponse) ([]byte, error) {
	return Marshal(resp)
}

// DecodeResponse decodes a subscription response.
func DecodeResponse(data []byte) (*types.SubscriptionResponse, error) {
	var resp types.SubscriptionResponse
	if err := Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode subscription response: %w", err)
	}

	return &resp, nil
}
