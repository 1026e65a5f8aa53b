/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package bbsapi defines the BBS primitive contract this suite delegates
// to: key generation, signing, proof generation, and verification over
// BLS12-381 G2. It is a pure interface package, no pairing arithmetic
// lives here, mirroring the way the suite packages in
// aries-framework-go/component/models/dataintegrity/suite depend on an
// abstract KMS/crypto collaborator rather than embedding primitive math.
package bbsapi

// Feature selects which variant of the BBS-2023 proof protocol a pipeline
// runs. The zero value is Baseline.
type Feature int

// The closed set of feature combinations this suite supports.
const (
	Baseline Feature = iota
	AnonymousHolderBinding
	Pseudonym
	HolderBindingPseudonym
)

// String renders f for logging and error messages.
func (f Feature) String() string {
	switch f {
	case Baseline:
		return "BASELINE"
	case AnonymousHolderBinding:
		return "ANONYMOUS_HOLDER_BINDING"
	case Pseudonym:
		return "PSEUDONYM"
	case HolderBindingPseudonym:
		return "HOLDER_BINDING_PSEUDONYM"
	default:
		return "UNKNOWN"
	}
}

// UsesPseudonym reports whether f requires a signer nym entropy value and
// produces a pseudonym at derivation time.
func (f Feature) UsesPseudonym() bool {
	return f == Pseudonym || f == HolderBindingPseudonym
}

// UsesHolderBinding reports whether f binds the credential to a holder
// secret (AnonymousHolderBinding or HolderBindingPseudonym).
func (f Feature) UsesHolderBinding() bool {
	return f == AnonymousHolderBinding || f == HolderBindingPseudonym
}

// KeyGenerator produces a BLS12-381 G2 keypair from a 32-byte seed. Mirrors
// bbs12381g2pub.GenerateKeyPair's (pubKey, privKey, err) shape.
type KeyGenerator interface {
	GenerateKeyPair(seed []byte) (publicKey, privateKey []byte, err error)
}

// Signer produces plain (non-blind, non-pseudonymous) BBS signatures.
type Signer interface {
	Sign(privateKey, publicKey, header []byte, messages [][]byte) ([]byte, error)
}

// BlindSigner produces signatures over a mix of signer-known messages and a
// holder-supplied Pedersen commitment, per the BBS blind-signature draft.
type BlindSigner interface {
	BlindSign(privateKey, publicKey, commitmentWithProof, header []byte, messages [][]byte) ([]byte, error)
}

// NymSigner produces signatures that additionally bind a signer-chosen
// pseudonym entropy value, per the BBS-with-pseudonyms draft.
type NymSigner interface {
	NymSign(privateKey, publicKey, signerNymEntropy, commitmentWithProof, header []byte,
		messages [][]byte) ([]byte, error)
}

// Verifier checks plain BBS signatures.
type Verifier interface {
	Verify(publicKey, signature, header []byte, messages [][]byte) (bool, error)
}

// ProofGenerator derives a selective-disclosure proof from a BBS signature.
type ProofGenerator interface {
	ProofGen(publicKey, signature, header, presentationHeader []byte, messages [][]byte,
		disclosedIndexes []int) ([]byte, error)
}

// BlindProofGenerator derives a selective-disclosure proof over a blind
// signature, additionally binding the holder's secret and blinding factor.
type BlindProofGenerator interface {
	BlindProofGen(publicKey, signature, header, presentationHeader []byte, messages [][]byte,
		disclosedIndexes []int, holderSecret, proverBlind []byte) ([]byte, error)
}

// NymProofGenerator derives a selective-disclosure proof together with a
// pseudonym, per the BBS-with-pseudonyms draft's "proof generation with
// pseudonym" operation. committedMessages is empty for Pseudonym and
// [holderSecret] for HolderBindingPseudonym.
type NymProofGenerator interface {
	NymProofGen(publicKey, signature, header, presentationHeader []byte, messages [][]byte,
		disclosedIndexes []int, nymDomain []byte, committedMessages [][]byte) (proof, pseudonym []byte, err error)
}

// ProofVerifier checks a plain selective-disclosure proof.
type ProofVerifier interface {
	ProofVerify(publicKey, proof, header, presentationHeader []byte, disclosedMessages [][]byte,
		disclosedIndexes []int) (bool, error)
}

// BlindProofVerifier checks a selective-disclosure proof derived from a
// blind signature; lengthBBSMessages is the total message count committed
// at signing time, needed because disclosedMessages omits the holder's
// committed message.
type BlindProofVerifier interface {
	BlindProofVerify(publicKey, proof, header, presentationHeader []byte, disclosedMessages [][]byte,
		disclosedIndexes []int, lengthBBSMessages int) (bool, error)
}

// NymProofVerifier checks a selective-disclosure proof together with the
// pseudonym it discloses.
type NymProofVerifier interface {
	NymProofVerify(publicKey, proof, header, presentationHeader []byte, disclosedMessages [][]byte,
		disclosedIndexes []int, lengthBBSMessages int, pseudonym, nymDomain []byte) (bool, error)
}

// Suite aggregates every operation a full BBS-2023 pipeline may invoke,
// across all four features. A concrete collaborator (a pairing library
// binding, a remote HSM client, or, for this repository's own tests, the
// internal/bbstest double) implements the whole surface; individual
// pipeline stages narrow it back down to the sub-interfaces above.
type Suite interface {
	KeyGenerator
	Signer
	BlindSigner
	NymSigner
	Verifier
	ProofGenerator
	BlindProofGenerator
	NymProofGenerator
	ProofVerifier
	BlindProofVerifier
	NymProofVerifier
}
