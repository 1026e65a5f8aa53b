/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herculas/vc-suite-bbs/bbsapi"
	"github.com/herculas/vc-suite-bbs/canonical"
	"github.com/herculas/vc-suite-bbs/suite/bbs2023"
)

func sampleBaseProofValue(feature bbsapi.Feature) *bbs2023.BaseProofValue {
	v := &bbs2023.BaseProofValue{
		BBSSignature:      make([]byte, 80),
		BBSHeader:         make([]byte, 64),
		PublicKey:         make([]byte, 96),
		HMACKey:           make([]byte, 32),
		MandatoryPointers: []string{"/issuer"},
		Feature:           feature,
	}

	if feature.UsesPseudonym() {
		v.SignerNymEntropy = make([]byte, 32)
	}

	for i := range v.BBSSignature {
		v.BBSSignature[i] = byte(i)
	}

	return v
}

func sampleDerivedProofValue(feature bbsapi.Feature) *bbs2023.DerivedProofValue {
	length := 3

	v := &bbs2023.DerivedProofValue{
		BBSProof:           make([]byte, 32),
		LabelMap:           canonical.LabelMap{"c14n0": "b0", "c14n1": "b1"},
		MandatoryIndexes:   []int{0, 2},
		SelectiveIndexes:   []int{1},
		PresentationHeader: []byte("presentation-nonce"),
		Feature:            feature,
	}

	if feature != bbsapi.Baseline {
		v.LengthBBSMessages = &length
	}

	if feature.UsesPseudonym() {
		v.NymDomain = []byte("nym-domain")
		v.Pseudonym = make([]byte, 96)
	}

	return v
}

func TestEncodeDecodeBaseProofValue_RoundTrip(t *testing.T) {
	for _, feature := range []bbsapi.Feature{
		bbsapi.Baseline, bbsapi.AnonymousHolderBinding, bbsapi.Pseudonym, bbsapi.HolderBindingPseudonym,
	} {
		t.Run(feature.String(), func(t *testing.T) {
			original := sampleBaseProofValue(feature)

			encoded, err := bbs2023.EncodeBaseProofValue(original)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(encoded, "u"))

			decoded, err := bbs2023.DecodeBaseProofValue(encoded)
			require.NoError(t, err)

			assert.Equal(t, original.BBSSignature, decoded.BBSSignature)
			assert.Equal(t, original.BBSHeader, decoded.BBSHeader)
			assert.Equal(t, original.PublicKey, decoded.PublicKey)
			assert.Equal(t, original.HMACKey, decoded.HMACKey)
			assert.Equal(t, original.MandatoryPointers, decoded.MandatoryPointers)
			assert.Equal(t, original.Feature, decoded.Feature)
			assert.Equal(t, original.SignerNymEntropy, decoded.SignerNymEntropy)
		})
	}
}

func TestEncodeDecodeDerivedProofValue_RoundTrip(t *testing.T) {
	for _, feature := range []bbsapi.Feature{
		bbsapi.Baseline, bbsapi.AnonymousHolderBinding, bbsapi.Pseudonym, bbsapi.HolderBindingPseudonym,
	} {
		t.Run(feature.String(), func(t *testing.T) {
			original := sampleDerivedProofValue(feature)

			encoded, err := bbs2023.EncodeDerivedProofValue(original)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(encoded, "u"))

			decoded, err := bbs2023.DecodeDerivedProofValue(encoded)
			require.NoError(t, err)

			assert.Equal(t, original.BBSProof, decoded.BBSProof)
			assert.Equal(t, original.LabelMap, decoded.LabelMap)
			assert.Equal(t, original.MandatoryIndexes, decoded.MandatoryIndexes)
			assert.Equal(t, original.SelectiveIndexes, decoded.SelectiveIndexes)
			assert.Equal(t, original.PresentationHeader, decoded.PresentationHeader)
			assert.Equal(t, original.Feature, decoded.Feature)

			if feature != bbsapi.Baseline {
				require.NotNil(t, decoded.LengthBBSMessages)
				assert.Equal(t, *original.LengthBBSMessages, *decoded.LengthBBSMessages)
			}

			if feature.UsesPseudonym() {
				assert.Equal(t, original.NymDomain, decoded.NymDomain)
				assert.Equal(t, original.Pseudonym, decoded.Pseudonym)
			}
		})
	}
}

func TestDecodeBaseProofValue_RejectsDerivedHeader(t *testing.T) {
	derived := sampleDerivedProofValue(bbsapi.Baseline)

	encoded, err := bbs2023.EncodeDerivedProofValue(derived)
	require.NoError(t, err)

	_, err = bbs2023.DecodeBaseProofValue(encoded)
	require.Error(t, err)
}

func TestDecodeDerivedProofValue_RejectsBaseHeader(t *testing.T) {
	base := sampleBaseProofValue(bbsapi.Baseline)

	encoded, err := bbs2023.EncodeBaseProofValue(base)
	require.NoError(t, err)

	_, err = bbs2023.DecodeDerivedProofValue(encoded)
	require.Error(t, err)
}

func TestDecodeBaseProofValue_RejectsMissingMultibasePrefix(t *testing.T) {
	original := sampleBaseProofValue(bbsapi.Baseline)

	encoded, err := bbs2023.EncodeBaseProofValue(original)
	require.NoError(t, err)

	_, err = bbs2023.DecodeBaseProofValue(encoded[1:])
	require.Error(t, err)
}

func TestDecodeBaseProofValue_RejectsWrongSignatureLength(t *testing.T) {
	original := sampleBaseProofValue(bbsapi.Baseline)
	original.BBSSignature = original.BBSSignature[:79]

	encoded, err := bbs2023.EncodeBaseProofValue(original)
	require.NoError(t, err)

	_, err = bbs2023.DecodeBaseProofValue(encoded)
	require.Error(t, err)
}

func TestEncodeBaseProofValue_RejectsMissingNymEntropyForPseudonymFeature(t *testing.T) {
	original := sampleBaseProofValue(bbsapi.Pseudonym)
	original.SignerNymEntropy = nil

	_, err := bbs2023.EncodeBaseProofValue(original)
	require.Error(t, err)
}

func TestEncodeDerivedProofValue_RejectsMissingLengthForHolderBinding(t *testing.T) {
	derived := sampleDerivedProofValue(bbsapi.AnonymousHolderBinding)
	derived.LengthBBSMessages = nil

	_, err := bbs2023.EncodeDerivedProofValue(derived)
	require.Error(t, err)
}

func TestDecodeDerivedProofValue_RejectsUnrecognizedHeader(t *testing.T) {
	// "u" + base64url(no padding) of three zero bytes (not in headerTable)
	// followed by an empty CBOR array (0x80).
	_, err := bbs2023.DecodeDerivedProofValue("uAAAAgA")
	require.Error(t, err)
}
