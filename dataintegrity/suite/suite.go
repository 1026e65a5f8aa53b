/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package suite defines the roles a bbs-2023-shaped data integrity
// cryptographic suite plays (issuer, holder, verifier) as the interfaces
// the dataintegrity orchestrator depends on, mirroring
// aries-framework-go's component/models/dataintegrity/suite.
package suite

import (
	"errors"

	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
)

// RequiresCreated specifies that a suite implementation tells the caller
// whether its proofs require the Proof.Created field to be set.
type RequiresCreated interface {
	RequiresCreated() bool
}

// Signer performs the issuer side of the Add Proof algorithm: transform,
// hash, and base-proof generation.
type Signer interface {
	CreateProof(doc []byte, opts *models.ProofOptions) (*models.Proof, error)
	RequiresCreated
}

// Deriver performs the holder side of the selective-disclosure algorithm:
// parsing the issuer's base proof, recomputing canonical grouping, and
// producing a disclosure proof plus the revealed document it accompanies.
// This role has no counterpart in a non-selective-disclosure suite like
// ecdsa-2019; it exists because bbs-2023 proofs are derived, not merely
// verified, between issuance and presentation.
type Deriver interface {
	CreateDisclosureProof(doc []byte, proof *models.Proof, opts *models.ProofOptions) (revealedDoc []byte,
		derivedProof *models.Proof, err error)
}

// Verifier performs the verifier side: transform, hash, and proof
// verification.
type Verifier interface {
	VerifyProof(doc []byte, proof *models.Proof, opts *models.ProofOptions) error
	RequiresCreated
}

// Suite implements all three roles.
type Suite interface {
	Signer
	Deriver
	Verifier
}

// Type returns the cryptographic suite type identifier, e.g. "bbs-2023".
type Type interface {
	Type() string
}

// SignerInitializer initializes a Signer using options captured at its own
// construction.
type SignerInitializer interface {
	Signer() (Signer, error)
	Type
}

// DeriverInitializer initializes a Deriver using options captured at its
// own construction.
type DeriverInitializer interface {
	Deriver() (Deriver, error)
	Type
}

// VerifierInitializer initializes a Verifier using options captured at its
// own construction.
type VerifierInitializer interface {
	Verifier() (Verifier, error)
	Type
}

var (
	// ErrInvalidProof is returned by Verifier.VerifyProof when the given
	// proof is invalid.
	ErrInvalidProof = errors.New("data integrity proof invalid")
	// ErrProofTransformation is returned when proof transformation fails.
	ErrProofTransformation = errors.New("error in data integrity proof transformation")
)
