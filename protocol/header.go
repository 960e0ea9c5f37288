// Package protocol implements the x402 wire encoding: canonical JSON
// wrapped in standard base64 so requirements and signed payments travel
// as plain ASCII header values.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/girderdev/x402-sdk/types"
)

const (
	// RequirementsHeader carries encoded PaymentRequirements (server to client).
	RequirementsHeader = "X-Payment-Requirements"

	// PaymentHeader carries an encoded SignedPayment (client to server).
	PaymentHeader = "X-Payment"
)

// maxHeaderLen bounds decode input so an oversized header fails cleanly
// instead of being buffered in full.
const maxHeaderLen = 16 * 1024

// EncodeRequirements encodes payment requirements to a header value.
func EncodeRequirements(req *types.PaymentRequirements) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeRequirements decodes a requirements header value. Any malformed
// input yields an InvalidHeaderError; unknown JSON fields are ignored.
func DecodeRequirements(header string) (*types.PaymentRequirements, error) {
	raw, err := decodeTransport(RequirementsHeader, header)
	if err != nil {
		return nil, err
	}

	var req types.PaymentRequirements
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, &types.InvalidHeaderError{
			Header: RequirementsHeader,
			Reason: fmt.Sprintf("JSON parse failed: %v", err),
			Err:    err,
		}
	}
	if err := req.Validate(); err != nil {
		return nil, &types.InvalidHeaderError{
			Header: RequirementsHeader,
			Reason: fmt.Sprintf("missing or invalid field: %v", err),
			Err:    err,
		}
	}
	return &req, nil
}

// EncodePayment encodes a signed payment to a header value.
func EncodePayment(payment *types.SignedPayment) (string, error) {
	if err := payment.Validate(); err != nil {
		return "", fmt.Errorf("encode payment: %w", err)
	}
	raw, err := json.Marshal(payment)
	if err != nil {
		return "", fmt.Errorf("encode payment: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodePayment decodes a payment header value. Any malformed input,
// including a signature of the wrong length, yields an InvalidHeaderError.
func DecodePayment(header string) (*types.SignedPayment, error) {
	raw, err := decodeTransport(PaymentHeader, header)
	if err != nil {
		return nil, err
	}

	var payment types.SignedPayment
	if err := json.Unmarshal(raw, &payment); err != nil {
		return nil, &types.InvalidHeaderError{
			Header: PaymentHeader,
			Reason: fmt.Sprintf("JSON parse failed: %v", err),
			Err:    err,
		}
	}
	if err := payment.Validate(); err != nil {
		return nil, &types.InvalidHeaderError{
			Header: PaymentHeader,
			Reason: fmt.Sprintf("missing or invalid field: %v", err),
			Err:    err,
		}
	}
	return &payment, nil
}

// decodeTransport strips the base64 transport layer, rejecting empty,
// oversized, malformed and non-UTF-8 input.
func decodeTransport(name, header string) ([]byte, error) {
	if header == "" {
		return nil, &types.InvalidHeaderError{Header: name, Reason: "empty header"}
	}
	if len(header) > maxHeaderLen {
		return nil, &types.InvalidHeaderError{
			Header: name,
			Reason: fmt.Sprintf("header exceeds %d bytes", maxHeaderLen),
		}
	}
	raw, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return nil, &types.InvalidHeaderError{
			Header: name,
			Reason: fmt.Sprintf("base64 decode failed: %v", err),
			Err:    err,
		}
	}
	if !utf8.Valid(raw) {
		return nil, &types.InvalidHeaderError{Header: name, Reason: "payload is not valid UTF-8"}
	}
	return raw, nil
}
