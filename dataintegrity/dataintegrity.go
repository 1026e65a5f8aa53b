/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package dataintegrity implements the suite-agnostic Add Proof, Derive
// Proof, and Verify Proof algorithms of the verifiable credential data
// integrity specification, dispatching to whichever registered
// cryptographic suite a proof names, mirroring
// aries-framework-go's component/models/dataintegrity.
package dataintegrity

import "errors"

const proofPath = "proof"

var (
	// ErrUnsupportedSuite is returned when an operation is asked to use a
	// cryptographic suite for which no suite.Signer/Deriver/Verifier was
	// registered.
	ErrUnsupportedSuite = errors.New("data integrity proof requires unsupported cryptographic suite")
	// ErrProofGeneration is returned when Signer.AddProof fails to produce a
	// valid base proof.
	ErrProofGeneration = errors.New("data integrity proof generation error")
	// ErrProofDerivation is returned when Holder.DeriveProof fails to
	// produce a valid disclosure proof.
	ErrProofDerivation = errors.New("data integrity proof derivation error")
	// ErrMissingProof is returned when a document has no "proof" field.
	ErrMissingProof = errors.New("missing data integrity proof")
	// ErrMalformedProof is returned when a document's "proof" field is not
	// a well-formed data integrity proof.
	ErrMalformedProof = errors.New("malformed data integrity proof")
	// ErrWrongProofType is returned when a proof is not a DataIntegrityProof.
	ErrWrongProofType = errors.New("proof provided is not a data integrity proof")
	// ErrMismatchedPurpose is returned when a proof's purpose does not match
	// the one requested by the caller.
	ErrMismatchedPurpose = errors.New("data integrity proof does not match expected purpose")
	// ErrOutOfDate is returned when a proof is older than ProofOptions.MaxAge
	// seconds.
	ErrOutOfDate = errors.New("data integrity proof out of date")
	// ErrInvalidDomain is returned when a proof's domain does not match the
	// one requested by the caller.
	ErrInvalidDomain = errors.New("data integrity proof has invalid domain")
	// ErrInvalidChallenge is returned when a proof's challenge does not
	// match the one requested by the caller.
	ErrInvalidChallenge = errors.New("data integrity proof has invalid challenge")
)
