/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package bbs2023 implements the bbs-2023 data integrity cryptographic
// suite: selective-disclosure proofs over JSON-LD credentials using BBS
// signatures over BLS12-381 G2, grounded on
// aries-framework-go/component/models/dataintegrity/suite/ecdsa2019's
// transform/hash/serialize pipeline shape, generalized to the
// transform/derive/verify pipeline selective disclosure requires.
package bbs2023

import (
	"github.com/herculas/vc-suite-bbs/bbsapi"
	"github.com/herculas/vc-suite-bbs/canonical"
)

// SuiteType is the data integrity cryptosuite identifier this package
// implements.
const SuiteType = "bbs-2023"

// TransformedDocument is the output of the Transform step: the canonical
// N-Quad set, shuffled under an HMAC keyed by HMACKey, partitioned into the
// statements reachable from MandatoryPointers and the remainder. Both
// partitions key their NQuads map by the statement's position in the
// underlying canonical statement list, so they can be composed with other
// groupings sharing the same document and HMACKey without
// re-canonicalizing.
type TransformedDocument struct {
	MandatoryPointers []string
	Mandatory         canonical.Partition
	NonMandatory      canonical.Partition
	HMACKey           []byte
}

// HashData extends TransformedDocument with the two digests the base-proof
// pipeline signs over.
type HashData struct {
	TransformedDocument
	ProofHash     [32]byte
	MandatoryHash [32]byte
}

// BaseProofValue is the issuer-side proof payload this suite's proofValue
// encodes: a BBS signature over bbsHeader and the non-mandatory statements,
// plus everything a holder needs to rebuild the same canonical grouping.
type BaseProofValue struct {
	BBSSignature      []byte
	BBSHeader         []byte
	PublicKey         []byte
	HMACKey           []byte
	MandatoryPointers []string
	Feature           bbsapi.Feature

	// SignerNymEntropy is present iff Feature is Pseudonym or
	// HolderBindingPseudonym.
	SignerNymEntropy []byte
}

// DerivedProofValue is the holder-side proof payload a disclosure proof's
// proofValue encodes: a BBS selective-disclosure proof over the disclosed
// statements, plus the index bookkeeping and label map the verifier needs
// to recompute the same bbsHeader from the revealed document alone.
type DerivedProofValue struct {
	BBSProof           []byte
	LabelMap           canonical.LabelMap
	MandatoryIndexes   []int
	SelectiveIndexes   []int
	PresentationHeader []byte
	Feature            bbsapi.Feature

	// NymDomain/Pseudonym are present iff Feature is Pseudonym or
	// HolderBindingPseudonym.
	NymDomain []byte
	Pseudonym []byte

	// LengthBBSMessages is present iff Feature != Baseline.
	LengthBBSMessages *int
}
