/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataintegrity

import (
	"encoding/json"

	"github.com/tidwall/sjson"

	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/dataintegrity/suite"
)

// Signer implements the Add Proof algorithm, dispatching to whichever
// registered cryptographic suite ProofOptions.CryptoSuite names.
type Signer struct {
	suites map[string]suite.Signer
}

// NewSigner initializes a Signer from a set of cryptographic suites.
func NewSigner(suites ...suite.SignerInitializer) (*Signer, error) {
	signer := &Signer{suites: map[string]suite.Signer{}}

	for _, initializer := range suites {
		suiteType := initializer.Type()

		if _, ok := signer.suites[suiteType]; ok {
			continue
		}

		signingSuite, err := initializer.Signer()
		if err != nil {
			return nil, err
		}

		signer.suites[suiteType] = signingSuite
	}

	return signer, nil
}

// AddProof returns doc with a top-level "proof" field added, signed per
// opts. Returns ErrUnsupportedSuite if opts.CryptoSuite names a suite this
// Signer has no suite.Signer registered for; ErrProofGeneration if signing
// fails or the produced proof is inconsistent with opts.
func (s *Signer) AddProof(doc []byte, opts *models.ProofOptions) ([]byte, error) {
	signerSuite, ok := s.suites[opts.CryptoSuite]
	if !ok {
		return nil, ErrUnsupportedSuite
	}

	proof, err := signerSuite.CreateProof(doc, opts)
	if err != nil {
		return nil, ErrProofGeneration
	}

	if proof.Type == "" || proof.VerificationMethod == "" {
		return nil, ErrProofGeneration
	}

	if proof.Created == "" && signerSuite.RequiresCreated() {
		return nil, ErrProofGeneration
	}

	if opts.Domain != "" && opts.Domain != proof.Domain {
		return nil, ErrProofGeneration
	}

	if opts.Challenge != "" && opts.Challenge != proof.Challenge {
		return nil, ErrProofGeneration
	}

	proofRaw, err := json.Marshal(proof)
	if err != nil {
		return nil, ErrProofGeneration
	}

	out, err := sjson.SetRawBytes(doc, proofPath, proofRaw)
	if err != nil {
		return nil, ErrProofGeneration
	}

	return out, nil
}
