/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package models defines the data integrity proof and proof-options shapes
// shared across the bbs-2023 suite and its dataintegrity orchestrator,
// mirroring aries-framework-go's component/models/dataintegrity/models.
package models

import (
	"time"

	"github.com/herculas/vc-suite-bbs/bbsapi"
)

// DateTimeFormat is the date-time format data integrity proofs use,
// matching RFC3339.
const DateTimeFormat = time.RFC3339

// DataIntegrityProof is the fixed Proof.Type value this suite produces and
// requires.
const DataIntegrityProof = "DataIntegrityProof"

// Proof implements the data integrity proof model:
// https://www.w3.org/TR/vc-data-integrity/#proofs
type Proof struct {
	ID                 string `json:"id,omitempty"`
	Type               string `json:"type"`
	CryptoSuite        string `json:"cryptosuite"`
	ProofPurpose       string `json:"proofPurpose,omitempty"`
	VerificationMethod string `json:"verificationMethod"`
	Created            string `json:"created,omitempty"`
	Domain             string `json:"domain,omitempty"`
	Challenge          string `json:"challenge,omitempty"`
	ProofValue         string `json:"proofValue"`
	PreviousProof      string `json:"previousProof,omitempty"`
}

// ProofOptions provides the options for issuing, deriving, or verifying a
// bbs-2023 data integrity proof.
type ProofOptions struct {
	Type                string
	CryptoSuite         string
	VerificationMethod  string
	Purpose             string
	Domain              string
	Challenge           string
	Created             time.Time
	MaxAge              int64
	CustomFields        map[string]interface{}

	// MandatoryPointers/SelectivePointers are JSON Pointers into the
	// credential being issued/derived, per the bbs-2023 selective
	// disclosure contract.
	MandatoryPointers []string
	SelectivePointers []string

	// PresentationHeader binds a disclosure proof to the context it was
	// produced for (an audience, a nonce, ...). It is opaque to this suite.
	PresentationHeader []byte

	// Feature selects which BBS-2023 protocol variant to run; the zero
	// value is bbsapi.Baseline.
	Feature bbsapi.Feature

	// CommitmentWithProof, HolderSecret, ProverBlind feed the holder-binding
	// variants at issuance (commitment) and derivation (secret/blind).
	CommitmentWithProof []byte
	HolderSecret        []byte
	ProverBlind         []byte

	// SignerNymEntropy feeds the pseudonym variants at issuance; NymDomain
	// feeds them at derivation and verification.
	SignerNymEntropy []byte
	NymDomain        []byte
}
