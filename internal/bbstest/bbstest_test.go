/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbstest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herculas/vc-suite-bbs/codec"
	"github.com/herculas/vc-suite-bbs/internal/bbstest"
)

func TestDouble_SignVerifyRoundTrip(t *testing.T) {
	d := bbstest.Double{}

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}

	pub, priv, err := d.GenerateKeyPair(seed)
	require.NoError(t, err)
	require.Len(t, pub, codec.PublicKeyLength)
	require.Len(t, priv, codec.PrivateKeyLength)

	header := []byte("header")
	messages := [][]byte{[]byte("m1"), []byte("m2")}

	sig, err := d.Sign(priv, pub, header, messages)
	require.NoError(t, err)
	require.Len(t, sig, 80)

	ok, err := d.Verify(pub, sig, header, messages)
	require.NoError(t, err)
	assert.True(t, ok)

	tampered := append([]byte{}, sig...)
	tampered[0] ^= 0xFF

	ok, err = d.Verify(pub, tampered, header, messages)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDouble_ProofGenVerifyRoundTrip(t *testing.T) {
	d := bbstest.Double{}

	seed := make([]byte, 32)
	pub, priv, err := d.GenerateKeyPair(seed)
	require.NoError(t, err)

	header := []byte("header")
	ph := []byte("presentation-header")
	messages := [][]byte{[]byte("m1"), []byte("m2"), []byte("m3")}

	sig, err := d.Sign(priv, pub, header, messages)
	require.NoError(t, err)

	disclosedIndexes := []int{0, 2}
	disclosed := [][]byte{messages[0], messages[2]}

	proof, err := d.ProofGen(pub, sig, header, ph, messages, disclosedIndexes)
	require.NoError(t, err)

	ok, err := d.ProofVerify(pub, proof, header, ph, disclosed, disclosedIndexes)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.ProofVerify(pub, proof, header, ph, disclosed, []int{0, 1})
	require.NoError(t, err)
	assert.False(t, ok)
}
