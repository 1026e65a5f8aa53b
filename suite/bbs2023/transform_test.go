/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herculas/vc-suite-bbs/canonical"
	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/suite/bbs2023"
)

func transformProofOptions() *models.ProofOptions {
	return &models.ProofOptions{
		Type:               models.DataIntegrityProof,
		CryptoSuite:        bbs2023.SuiteType,
		VerificationMethod: "did:example:issuer#1",
		Purpose:            "assertionMethod",
		MandatoryPointers:  []string{"/issuer"},
	}
}

func TestTransform_SplitsMandatoryFromNonMandatory(t *testing.T) {
	processor := canonical.NewProcessor(nil)

	transformed, err := bbs2023.Transform(processor, rand.Reader, sampleCredential(), transformProofOptions())
	require.NoError(t, err)

	assert.Len(t, transformed.HMACKey, 32)
	assert.NotEmpty(t, transformed.Mandatory.Indexes)
	assert.NotEmpty(t, transformed.NonMandatory.Indexes)

	for _, line := range transformed.Mandatory.OrderedNQuads() {
		assert.Contains(t, line, "issuer")
	}
}

func TestTransform_RejectsWrongProofOptionsType(t *testing.T) {
	processor := canonical.NewProcessor(nil)

	opts := transformProofOptions()
	opts.CryptoSuite = "ecdsa-2019"

	_, err := bbs2023.Transform(processor, rand.Reader, sampleCredential(), opts)
	require.Error(t, err)
}

func TestTransform_HMACKeyVariesAcrossCalls(t *testing.T) {
	processor := canonical.NewProcessor(nil)

	first, err := bbs2023.Transform(processor, rand.Reader, sampleCredential(), transformProofOptions())
	require.NoError(t, err)

	second, err := bbs2023.Transform(processor, rand.Reader, sampleCredential(), transformProofOptions())
	require.NoError(t, err)

	assert.False(t, bytes.Equal(first.HMACKey, second.HMACKey))
}

func TestConfig_CanonicalizesProofConfiguration(t *testing.T) {
	processor := canonical.NewProcessor(nil)
	doc := sampleCredential()

	lines, err := bbs2023.Config(processor, doc, transformProofOptions())
	require.NoError(t, err)
	require.NotEmpty(t, lines)

	joined := canonical.JoinLines(lines)
	assert.Contains(t, joined, "did:example:issuer#1")
	assert.Contains(t, joined, bbs2023.SuiteType)
}

func TestConfig_RejectsWrongProofOptionsType(t *testing.T) {
	processor := canonical.NewProcessor(nil)

	opts := transformProofOptions()
	opts.Type = "Ed25519Signature2020"

	_, err := bbs2023.Config(processor, sampleCredential(), opts)
	require.Error(t, err)
}

func TestHash_IsDeterministicGivenSameInputs(t *testing.T) {
	processor := canonical.NewProcessor(nil)
	opts := transformProofOptions()

	transformed, err := bbs2023.Transform(processor, rand.Reader, sampleCredential(), opts)
	require.NoError(t, err)

	proofConfigLines, err := bbs2023.Config(processor, sampleCredential(), opts)
	require.NoError(t, err)

	first := bbs2023.Hash(transformed, proofConfigLines)
	second := bbs2023.Hash(transformed, proofConfigLines)

	assert.Equal(t, first.ProofHash, second.ProofHash)
	assert.Equal(t, first.MandatoryHash, second.MandatoryHash)
}
