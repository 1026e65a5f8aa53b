/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataintegrity

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
)

func TestNewHolder(t *testing.T) {
	t.Run("success, dedupes repeated suite types", func(t *testing.T) {
		h, err := NewHolder(
			&mockSuiteInitializer{mockSuite: &mockSuite{}, typeStr: mockSuiteType},
			&mockSuiteInitializer{mockSuite: &mockSuite{}, typeStr: mockSuiteType},
		)

		require.NoError(t, err)
		require.NotNil(t, h)
		require.Len(t, h.suites, 1)
	})

	t.Run("initializer error propagates", func(t *testing.T) {
		h, err := NewHolder(&mockSuiteInitializer{initErr: errExpected, typeStr: mockSuiteType})

		require.Nil(t, h)
		require.ErrorIs(t, err, errExpected)
	})
}

func TestHolder_DeriveProof(t *testing.T) {
	baseDoc := []byte(`{"id":"foo","proof":{"type":"DataIntegrityProof","cryptosuite":"mock-suite-2023"}}`)

	t.Run("success", func(t *testing.T) {
		h, err := NewHolder(&mockSuiteInitializer{
			mockSuite: &mockSuite{
				CreateDisclosureProofRevealed: []byte(`{"id":"foo"}`),
				CreateDisclosureProofProof: &models.Proof{
					Type:        models.DataIntegrityProof,
					CryptoSuite: mockSuiteType,
				},
			},
			typeStr: mockSuiteType,
		})
		require.NoError(t, err)

		out, err := h.DeriveProof(baseDoc, &models.ProofOptions{})
		require.NoError(t, err)

		proofRaw := gjson.GetBytes(out, proofPath)
		require.True(t, proofRaw.Exists())
		require.Equal(t, "foo", gjson.GetBytes(out, "id").String())
	})

	t.Run("cryptosuite defaults from the proof when opts omits it", func(t *testing.T) {
		h, err := NewHolder(&mockSuiteInitializer{
			mockSuite: &mockSuite{
				CreateDisclosureProofRevealed: []byte(`{"id":"foo"}`),
				CreateDisclosureProofProof:    &models.Proof{Type: models.DataIntegrityProof},
			},
			typeStr: mockSuiteType,
		})
		require.NoError(t, err)

		opts := &models.ProofOptions{}
		_, err = h.DeriveProof(baseDoc, opts)
		require.NoError(t, err)
		require.Equal(t, mockSuiteType, opts.CryptoSuite)
	})

	t.Run("missing proof", func(t *testing.T) {
		h, err := NewHolder(&mockSuiteInitializer{mockSuite: &mockSuite{}, typeStr: mockSuiteType})
		require.NoError(t, err)

		_, err = h.DeriveProof([]byte(`{"id":"foo"}`), &models.ProofOptions{})
		require.ErrorIs(t, err, ErrMissingProof)
	})

	t.Run("malformed proof", func(t *testing.T) {
		h, err := NewHolder(&mockSuiteInitializer{mockSuite: &mockSuite{}, typeStr: mockSuiteType})
		require.NoError(t, err)

		_, err = h.DeriveProof([]byte(`{"id":"foo","proof":"not-an-object"}`), &models.ProofOptions{})
		require.ErrorIs(t, err, ErrMalformedProof)
	})

	t.Run("wrong proof type", func(t *testing.T) {
		h, err := NewHolder(&mockSuiteInitializer{mockSuite: &mockSuite{}, typeStr: mockSuiteType})
		require.NoError(t, err)

		doc := []byte(`{"id":"foo","proof":{"type":"Ed25519Signature2020"}}`)
		_, err = h.DeriveProof(doc, &models.ProofOptions{})
		require.ErrorIs(t, err, ErrWrongProofType)
	})

	t.Run("unsupported suite", func(t *testing.T) {
		h, err := NewHolder(&mockSuiteInitializer{mockSuite: &mockSuite{}, typeStr: "other-suite"})
		require.NoError(t, err)

		_, err = h.DeriveProof(baseDoc, &models.ProofOptions{})
		require.ErrorIs(t, err, ErrUnsupportedSuite)
	})

	t.Run("suite derivation fails", func(t *testing.T) {
		h, err := NewHolder(&mockSuiteInitializer{
			mockSuite: &mockSuite{CreateDisclosureProofErr: errExpected},
			typeStr:   mockSuiteType,
		})
		require.NoError(t, err)

		_, err = h.DeriveProof(baseDoc, &models.ProofOptions{})
		require.ErrorIs(t, err, ErrProofDerivation)
	})
}
