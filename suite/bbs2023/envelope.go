/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/multiformats/go-multibase"

	"github.com/herculas/vc-suite-bbs/bbsapi"
	"github.com/herculas/vc-suite-bbs/canonical"
	"github.com/herculas/vc-suite-bbs/codec"
	"github.com/herculas/vc-suite-bbs/errs"
)

// header is the 3-byte CBOR self-describing tag plus feature nibble this
// suite prefixes every proofValue with.
type header [3]byte

var baseHeaderByFeature = map[bbsapi.Feature]header{
	bbsapi.Baseline:               {0xD9, 0x5D, 0x02},
	bbsapi.AnonymousHolderBinding: {0xD9, 0x5D, 0x04},
	bbsapi.Pseudonym:              {0xD9, 0x5D, 0x06},
	bbsapi.HolderBindingPseudonym: {0xD9, 0x5D, 0x08},
}

var derivedHeaderByFeature = map[bbsapi.Feature]header{
	bbsapi.Baseline:               {0xD9, 0x5D, 0x03},
	bbsapi.AnonymousHolderBinding: {0xD9, 0x5D, 0x05},
	bbsapi.Pseudonym:              {0xD9, 0x5D, 0x07},
	bbsapi.HolderBindingPseudonym: {0xD9, 0x5D, 0x09},
}

type headerMeta struct {
	feature bbsapi.Feature
	derived bool
}

var headerTable = buildHeaderTable()

func buildHeaderTable() map[header]headerMeta {
	out := make(map[header]headerMeta, len(baseHeaderByFeature)+len(derivedHeaderByFeature))

	for f, h := range baseHeaderByFeature {
		out[h] = headerMeta{feature: f, derived: false}
	}

	for f, h := range derivedHeaderByFeature {
		out[h] = headerMeta{feature: f, derived: true}
	}

	return out
}

// EncodeBaseProofValue implements the base-proof half of §4.8's envelope
// serialization: CBOR-encode v's components as a positional array, prefix
// the feature-tagged header, and multibase-base64url-no-pad encode the
// result.
func EncodeBaseProofValue(v *BaseProofValue) (string, error) {
	const op = "bbs2023.EncodeBaseProofValue"

	h, ok := baseHeaderByFeature[v.Feature]
	if !ok {
		return "", errs.New(errs.ProofGenerationError, op, "unsupported feature")
	}

	components := []interface{}{v.BBSSignature, v.BBSHeader, v.PublicKey, v.HMACKey, v.MandatoryPointers}

	if v.Feature.UsesPseudonym() {
		if len(v.SignerNymEntropy) == 0 {
			return "", errs.New(errs.ProofGenerationError, op, "missing signerNymEntropy for pseudonym feature")
		}

		components = append(components, v.SignerNymEntropy)
	}

	return encodeEnvelope(op, h, components)
}

// DecodeBaseProofValue inverts EncodeBaseProofValue, validating the
// multibase prefix, the header, the component count, and every
// fixed-length component's length.
func DecodeBaseProofValue(s string) (*BaseProofValue, error) {
	const op = "bbs2023.DecodeBaseProofValue"

	meta, payload, err := decodeEnvelope(op, s)
	if err != nil {
		return nil, err
	}

	if meta.derived {
		return nil, errs.New(errs.ProofVerificationError, op, "proof value is a derived proof, not a base proof")
	}

	wantLen := 5
	if meta.feature.UsesPseudonym() {
		wantLen = 6
	}

	var raw []cbor.RawMessage

	if err := cbor.Unmarshal(payload, &raw); err != nil || len(raw) != wantLen {
		return nil, errs.New(errs.ProofVerificationError, op, "malformed base proof component array")
	}

	v := &BaseProofValue{Feature: meta.feature}

	if v.BBSSignature, err = decodeFixedBytes(raw[0], 80, "bbsSignature"); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	if v.BBSHeader, err = decodeFixedBytes(raw[1], 64, "bbsHeader"); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	if v.PublicKey, err = decodeFixedBytes(raw[2], codec.PublicKeyLength, "publicKey"); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	if v.HMACKey, err = decodeFixedBytes(raw[3], hmacKeyLength, "hmacKey"); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	if err := cbor.Unmarshal(raw[4], &v.MandatoryPointers); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	if meta.feature.UsesPseudonym() {
		if v.SignerNymEntropy, err = decodeFixedBytes(raw[5], -1, "signerNymEntropy"); err != nil {
			return nil, errs.Wrap(errs.ProofVerificationError, op, err)
		}
	}

	return v, nil
}

// EncodeDerivedProofValue implements the derived-proof half of §4.8.
func EncodeDerivedProofValue(v *DerivedProofValue) (string, error) {
	const op = "bbs2023.EncodeDerivedProofValue"

	h, ok := derivedHeaderByFeature[v.Feature]
	if !ok {
		return "", errs.New(errs.ProofGenerationError, op, "unsupported feature")
	}

	compressedMap, err := canonical.CompressLabelMap(v.LabelMap)
	if err != nil {
		return "", errs.Wrap(errs.ProofGenerationError, op, err)
	}

	components := []interface{}{v.BBSProof, compressedMap, v.MandatoryIndexes, v.SelectiveIndexes, v.PresentationHeader}

	switch v.Feature {
	case bbsapi.AnonymousHolderBinding:
		if v.LengthBBSMessages == nil {
			return "", errs.New(errs.ProofGenerationError, op, "missing lengthBBSMessages")
		}

		components = append(components, *v.LengthBBSMessages)
	case bbsapi.Pseudonym, bbsapi.HolderBindingPseudonym:
		if v.LengthBBSMessages == nil || len(v.NymDomain) == 0 || len(v.Pseudonym) == 0 {
			return "", errs.New(errs.ProofGenerationError, op, "missing pseudonym fields")
		}

		components = append(components, v.NymDomain, v.Pseudonym, *v.LengthBBSMessages)
	}

	return encodeEnvelope(op, h, components)
}

// DecodeDerivedProofValue inverts EncodeDerivedProofValue.
func DecodeDerivedProofValue(s string) (*DerivedProofValue, error) {
	const op = "bbs2023.DecodeDerivedProofValue"

	meta, payload, err := decodeEnvelope(op, s)
	if err != nil {
		return nil, err
	}

	if !meta.derived {
		return nil, errs.New(errs.ProofVerificationError, op, "proof value is a base proof, not a derived proof")
	}

	wantLen := 5

	switch meta.feature {
	case bbsapi.AnonymousHolderBinding:
		wantLen = 6
	case bbsapi.Pseudonym, bbsapi.HolderBindingPseudonym:
		wantLen = 8
	}

	var raw []cbor.RawMessage

	if err := cbor.Unmarshal(payload, &raw); err != nil || len(raw) != wantLen {
		return nil, errs.New(errs.ProofVerificationError, op, "malformed derived proof component array")
	}

	v := &DerivedProofValue{Feature: meta.feature}

	if err := cbor.Unmarshal(raw[0], &v.BBSProof); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	var compressedMap map[int]int

	if err := cbor.Unmarshal(raw[1], &compressedMap); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	v.LabelMap = canonical.DecompressLabelMap(compressedMap)

	if v.MandatoryIndexes, err = decodeNonNegativeInts(raw[2]); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	if v.SelectiveIndexes, err = decodeNonNegativeInts(raw[3]); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	if err := cbor.Unmarshal(raw[4], &v.PresentationHeader); err != nil {
		return nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	switch meta.feature {
	case bbsapi.AnonymousHolderBinding:
		var length int
		if err := cbor.Unmarshal(raw[5], &length); err != nil {
			return nil, errs.Wrap(errs.ProofVerificationError, op, err)
		}

		v.LengthBBSMessages = &length
	case bbsapi.Pseudonym, bbsapi.HolderBindingPseudonym:
		if err := cbor.Unmarshal(raw[5], &v.NymDomain); err != nil {
			return nil, errs.Wrap(errs.ProofVerificationError, op, err)
		}

		if err := cbor.Unmarshal(raw[6], &v.Pseudonym); err != nil {
			return nil, errs.Wrap(errs.ProofVerificationError, op, err)
		}

		var length int
		if err := cbor.Unmarshal(raw[7], &length); err != nil {
			return nil, errs.Wrap(errs.ProofVerificationError, op, err)
		}

		v.LengthBBSMessages = &length
	}

	return v, nil
}

func encodeEnvelope(op string, h header, components []interface{}) (string, error) {
	payload, err := cbor.Marshal(components)
	if err != nil {
		return "", errs.Wrap(errs.ProofGenerationError, op, err)
	}

	buf := make([]byte, 0, len(h)+len(payload))
	buf = append(buf, h[:]...)
	buf = append(buf, payload...)

	encoded, err := multibase.Encode(multibase.Base64url, buf)
	if err != nil {
		return "", errs.Wrap(errs.ProofGenerationError, op, err)
	}

	return encoded, nil
}

func decodeEnvelope(op, s string) (headerMeta, []byte, error) {
	if len(s) == 0 || s[0] != 'u' {
		return headerMeta{}, nil, errs.New(errs.ProofVerificationError, op, "proof value does not start with 'u'")
	}

	encoding, decoded, err := multibase.Decode(s)
	if err != nil {
		return headerMeta{}, nil, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	if encoding != multibase.Base64url {
		return headerMeta{}, nil, errs.New(errs.ProofVerificationError, op, "proof value is not base64url multibase encoded")
	}

	if len(decoded) < 3 {
		return headerMeta{}, nil, errs.New(errs.ProofVerificationError, op, "proof value shorter than its header")
	}

	var h header
	copy(h[:], decoded[:3])

	meta, ok := headerTable[h]
	if !ok {
		return headerMeta{}, nil, errs.New(errs.ProofVerificationError, op, "unrecognized proof value header")
	}

	return meta, decoded[3:], nil
}

func decodeFixedBytes(raw cbor.RawMessage, want int, what string) ([]byte, error) {
	var b []byte

	if err := cbor.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", what, err)
	}

	if want >= 0 && len(b) != want {
		return nil, fmt.Errorf("%s: expected %d bytes, got %d", what, want, len(b))
	}

	return b, nil
}

func decodeNonNegativeInts(raw cbor.RawMessage) ([]int, error) {
	var out []int

	if err := cbor.Unmarshal(raw, &out); err != nil {
		return nil, err
	}

	for _, n := range out {
		if n < 0 {
			return nil, fmt.Errorf("index array contains a negative value %d", n)
		}
	}

	return out, nil
}
