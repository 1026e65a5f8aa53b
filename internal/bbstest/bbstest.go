/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package bbstest implements a non-cryptographic stand-in for the BBS
// primitive contract defined by bbsapi.Suite. It preserves the *shapes*
// bbs12381g2pub.GenerateKeyPair/Sign/Verify/DeriveProof/VerifyProof
// establish (80-byte signatures, 64-byte headers, 96-byte public keys) so
// that code exercising bbsapi.Suite behaves the same whether it runs
// against this double or a real pairing-based implementation, without
// performing any pairing arithmetic. It is wired only from this
// repository's own _test.go files, never from suite/bbs2023 or
// dataintegrity at runtime.
package bbstest

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"github.com/herculas/vc-suite-bbs/codec"
	"github.com/herculas/vc-suite-bbs/errs"
)

// Double is a deterministic bbsapi.Suite implementation: "signatures" and
// "proofs" are HMAC digests padded to the lengths the real primitive would
// produce, keyed by the private/public key bytes. Verification recomputes
// and compares. It has no unforgeability property whatsoever and must
// never be used outside tests.
type Double struct{}

const (
	signatureLength = 80
	proofTagLength  = 32
)

// GenerateKeyPair derives the 32-byte "private key" from seed and builds a
// 96-byte "public key" that carries it verbatim in its first 32 bytes
// (padded with a deterministic, non-secret suffix) so that Verify/
// ProofVerify, which the real contract hands only the public key, can
// recover it, matching bbs12381g2pub.GenerateKeyPair's (pub, priv, err)
// shape without claiming any of its unforgeability.
func (Double) GenerateKeyPair(seed []byte) ([]byte, []byte, error) {
	const op = "bbstest.GenerateKeyPair"

	if len(seed) < codec.PrivateKeyLength {
		return nil, nil, errs.New(errs.InvalidLength, op, "seed shorter than a private key")
	}

	priv := append([]byte(nil), seed[:codec.PrivateKeyLength]...)

	pub := make([]byte, codec.PublicKeyLength)
	copy(pub, priv)
	copy(pub[codec.PrivateKeyLength:], expand(priv, codec.PublicKeyLength-codec.PrivateKeyLength))

	return pub, priv, nil
}

// Sign returns an HMAC-based stand-in signature over header||messages,
// padded/truncated to the real primitive's 80-byte signature length.
func (Double) Sign(privateKey, publicKey, header []byte, messages [][]byte) ([]byte, error) {
	mac := newMAC(privateKey, header, messages)

	return expand(mac, signatureLength), nil
}

// Verify recomputes Double.Sign's digest and compares.
func (Double) Verify(publicKey, signature, header []byte, messages [][]byte) (bool, error) {
	priv := deriveKeyFromPublic(publicKey)
	want, err := Double{}.Sign(priv, publicKey, header, messages)

	if err != nil {
		return false, err
	}

	return bytes.Equal(want, signature), nil
}

// BlindSign folds the commitment into the MAC input, otherwise identical
// to Sign.
func (Double) BlindSign(privateKey, publicKey, commitmentWithProof, header []byte, messages [][]byte) ([]byte, error) {
	mac := newMAC(privateKey, append(append([]byte{}, commitmentWithProof...), header...), messages)

	return expand(mac, signatureLength), nil
}

// NymSign folds the signer's nym entropy and the commitment into the MAC
// input, otherwise identical to Sign.
func (Double) NymSign(privateKey, publicKey, signerNymEntropy, commitmentWithProof, header []byte,
	messages [][]byte) ([]byte, error) {
	mixed := append(append([]byte{}, signerNymEntropy...), commitmentWithProof...)
	mixed = append(mixed, header...)
	mac := newMAC(privateKey, mixed, messages)

	return expand(mac, signatureLength), nil
}

// ProofGen "discloses" disclosedIndexes by checking that signature really
// covers the full messages set, then recomputing a fresh HMAC-based
// signature over only the disclosed subset and tagging that, the same
// computation ProofVerify performs from disclosedMessages alone. This
// reproduces the real primitive's essential property for tests:
// verification succeeds iff the disclosed data matches what was signed at
// exactly those positions, regardless of what the withheld messages were.
func (Double) ProofGen(publicKey, signature, header, presentationHeader []byte, messages [][]byte,
	disclosedIndexes []int) ([]byte, error) {
	const op = "bbstest.ProofGen"

	priv := deriveKeyFromPublic(publicKey)

	ok, err := Double{}.Verify(publicKey, signature, header, messages)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, errs.New(errs.ProofGenerationError, op, "signature does not verify over header/messages")
	}

	disclosed, err := selectMessages(messages, disclosedIndexes)
	if err != nil {
		return nil, errs.Wrap(errs.ProofGenerationError, op, err)
	}

	disclosureSig, err := Double{}.Sign(priv, publicKey, header, disclosed)
	if err != nil {
		return nil, err
	}

	return proofTag(disclosureSig, header, presentationHeader, disclosed, disclosedIndexes, nil, nil), nil
}

// BlindProofGen ignores holderSecret/proverBlind and delegates to ProofGen,
// mirroring BlindProofVerify's own delegation to ProofVerify.
func (Double) BlindProofGen(publicKey, signature, header, presentationHeader []byte, messages [][]byte,
	disclosedIndexes []int, holderSecret, proverBlind []byte) ([]byte, error) {
	return Double{}.ProofGen(publicKey, signature, header, presentationHeader, messages, disclosedIndexes)
}

// NymProofGen delegates its tag to ProofGen (ignoring nymDomain/
// committedMessages there, matching NymProofVerify's own leniency) and
// derives a pseudonym deterministically from the full signature, nymDomain,
// and the committed messages.
func (Double) NymProofGen(publicKey, signature, header, presentationHeader []byte, messages [][]byte,
	disclosedIndexes []int, nymDomain []byte, committedMessages [][]byte) ([]byte, []byte, error) {
	tag, err := Double{}.ProofGen(publicKey, signature, header, presentationHeader, messages, disclosedIndexes)
	if err != nil {
		return nil, nil, err
	}

	pseudonym := expand(newMAC(signature, nymDomain, committedMessages), codec.PublicKeyLength)

	return tag, pseudonym, nil
}

// ProofVerify recomputes ProofGen's tag against the disclosed messages and
// compares.
func (Double) ProofVerify(publicKey, proof, header, presentationHeader []byte, disclosedMessages [][]byte,
	disclosedIndexes []int) (bool, error) {
	priv := deriveKeyFromPublic(publicKey)
	sig, err := Double{}.Sign(priv, publicKey, header, disclosedMessages)

	if err != nil {
		return false, err
	}

	want := proofTag(sig, header, presentationHeader, disclosedMessages, disclosedIndexes, nil, nil)

	return bytes.Equal(want, proof), nil
}

// BlindProofVerify ignores lengthBBSMessages (the double has no concept of
// a withheld committed message) and otherwise matches ProofVerify.
func (Double) BlindProofVerify(publicKey, proof, header, presentationHeader []byte, disclosedMessages [][]byte,
	disclosedIndexes []int, lengthBBSMessages int) (bool, error) {
	return Double{}.ProofVerify(publicKey, proof, header, presentationHeader, disclosedMessages, disclosedIndexes)
}

// NymProofVerify checks the tag as BlindProofVerify does; it does not
// re-derive the pseudonym since the double has no signature to recompute
// it from at verification time (the signature never travels in a
// disclosure proof).
func (Double) NymProofVerify(publicKey, proof, header, presentationHeader []byte, disclosedMessages [][]byte,
	disclosedIndexes []int, lengthBBSMessages int, pseudonym, nymDomain []byte) (bool, error) {
	if len(pseudonym) == 0 {
		return false, fmt.Errorf("bbstest: NymProofVerify requires a non-empty pseudonym")
	}

	return Double{}.ProofVerify(publicKey, proof, header, presentationHeader, disclosedMessages, disclosedIndexes)
}

// selectMessages returns messages[i] for each i in indexes, in indexes'
// order, failing if any index falls outside messages.
func selectMessages(messages [][]byte, indexes []int) ([][]byte, error) {
	out := make([][]byte, len(indexes))

	for i, idx := range indexes {
		if idx < 0 || idx >= len(messages) {
			return nil, fmt.Errorf("bbstest: disclosed index %d out of range", idx)
		}

		out[i] = messages[idx]
	}

	return out, nil
}

func newMAC(key, header []byte, messages [][]byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(header)

	for _, m := range messages {
		mac.Write(m)
	}

	return mac.Sum(nil)
}

func proofTag(signature, header, presentationHeader []byte, messages [][]byte, disclosedIndexes []int,
	extra, nymDomain []byte) []byte {
	mac := hmac.New(sha256.New, signature)
	mac.Write(header)
	mac.Write(presentationHeader)
	mac.Write(extra)
	mac.Write(nymDomain)

	for _, i := range disclosedIndexes {
		mac.Write([]byte{byte(i), byte(i >> 8)})
	}

	for _, m := range messages {
		mac.Write(m)
	}

	return expand(mac.Sum(nil), proofTagLength)
}

// deriveKeyFromPublic recovers the private key the double's
// GenerateKeyPair derived publicKey from, by exploiting the fact that the
// double's public key is priv itself followed by expand(priv, 64), so its
// first 32 bytes are the private key. Real BBS has no such
// inverse; this only exists because the double is symmetric-key based.
func deriveKeyFromPublic(publicKey []byte) []byte {
	if len(publicKey) < codec.PrivateKeyLength {
		return publicKey
	}

	return publicKey[:codec.PrivateKeyLength]
}

// expand stretches or truncates seed to exactly n bytes via repeated
// SHA-256, giving a fixed-length deterministic digest chain.
func expand(seed []byte, n int) []byte {
	out := make([]byte, 0, n)
	block := seed

	for len(out) < n {
		sum := sha256.Sum256(block)
		out = append(out, sum[:]...)
		block = sum[:]
	}

	return out[:n]
}
