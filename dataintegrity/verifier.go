/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataintegrity

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/dataintegrity/suite"
)

// Verifier implements the Verify Proof algorithm, dispatching to whichever
// registered cryptographic suite the proof's cryptosuite field names.
type Verifier struct {
	suites map[string]suite.Verifier
}

// NewVerifier initializes a Verifier from a set of cryptographic suites.
func NewVerifier(suites ...suite.VerifierInitializer) (*Verifier, error) {
	verifier := &Verifier{suites: map[string]suite.Verifier{}}

	for _, initializer := range suites {
		suiteType := initializer.Type()

		if _, ok := verifier.suites[suiteType]; ok {
			continue
		}

		verifierSuite, err := initializer.Verifier()
		if err != nil {
			return nil, err
		}

		verifier.suites[suiteType] = verifierSuite
	}

	return verifier, nil
}

// VerifyProof verifies the data integrity proof on doc, returning nil on
// success.
func (v *Verifier) VerifyProof(doc []byte, opts *models.ProofOptions) error { //nolint:gocyclo
	proofRaw := gjson.GetBytes(doc, proofPath)

	if !proofRaw.Exists() {
		return ErrMissingProof
	}

	proof := &models.Proof{}

	if err := json.Unmarshal([]byte(proofRaw.Raw), proof); err != nil {
		return ErrMalformedProof
	}

	if proof.Type == "" || proof.VerificationMethod == "" {
		return ErrMalformedProof
	}

	if proof.Type != models.DataIntegrityProof {
		return ErrWrongProofType
	}

	verifierSuite, ok := v.suites[proof.CryptoSuite]
	if !ok {
		return ErrUnsupportedSuite
	}

	if opts.CryptoSuite == "" {
		opts.CryptoSuite = proof.CryptoSuite
	}

	if verifierSuite.RequiresCreated() && proof.Created == "" {
		return ErrMalformedProof
	}

	if opts.Purpose != "" && proof.ProofPurpose != "" && proof.ProofPurpose != opts.Purpose {
		return ErrMismatchedPurpose
	}

	// The proof-config this suite's cryptosuite rebuilds at verification
	// time (bbs2023.Config) must match the one hashed at issuance bit for
	// bit, so opts must carry the proof's own created/proofPurpose/
	// verificationMethod rather than whatever the caller happened to pass.
	if opts.Created.IsZero() && proof.Created != "" {
		parsed, err := time.Parse(models.DateTimeFormat, proof.Created)
		if err != nil {
			return ErrMalformedProof
		}

		opts.Created = parsed
	}

	opts.Purpose = proof.ProofPurpose
	opts.VerificationMethod = proof.VerificationMethod

	unsecuredDoc, err := sjson.DeleteBytes(doc, proofPath)
	if err != nil {
		return ErrMalformedProof
	}

	verifyErr := verifierSuite.VerifyProof(unsecuredDoc, proof, opts)

	if proof.Created != "" {
		createdTime, err := time.Parse(models.DateTimeFormat, proof.Created)
		if err != nil {
			return ErrMalformedProof
		}

		if opts.MaxAge > 0 && time.Since(createdTime) > time.Second*time.Duration(opts.MaxAge) {
			return ErrOutOfDate
		}
	}

	if opts.Domain != "" && opts.Domain != proof.Domain {
		return ErrInvalidDomain
	}

	if opts.Challenge != "" && opts.Challenge != proof.Challenge {
		return ErrInvalidChallenge
	}

	return verifyErr
}
