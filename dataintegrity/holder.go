/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataintegrity

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/dataintegrity/suite"
)

// Holder implements the holder's side of selective disclosure: parsing an
// issuer's base proof off a credential and deriving a disclosure proof
// plus the revealed document it accompanies. It has no counterpart in
// aries-framework-go's dataintegrity package, which only ever signs or
// verifies; bbs-2023's selective-disclosure contract adds this third role.
type Holder struct {
	suites map[string]suite.Deriver
}

// NewHolder initializes a Holder from a set of cryptographic suites.
func NewHolder(suites ...suite.DeriverInitializer) (*Holder, error) {
	holder := &Holder{suites: map[string]suite.Deriver{}}

	for _, initializer := range suites {
		suiteType := initializer.Type()

		if _, ok := holder.suites[suiteType]; ok {
			continue
		}

		deriverSuite, err := initializer.Deriver()
		if err != nil {
			return nil, err
		}

		holder.suites[suiteType] = deriverSuite
	}

	return holder, nil
}

// DeriveProof reads doc's base proof, derives a disclosure proof per opts,
// and returns the revealed document with the disclosure proof attached.
func (h *Holder) DeriveProof(doc []byte, opts *models.ProofOptions) ([]byte, error) {
	proofRaw := gjson.GetBytes(doc, proofPath)
	if !proofRaw.Exists() {
		return nil, ErrMissingProof
	}

	proof := &models.Proof{}

	if err := json.Unmarshal([]byte(proofRaw.Raw), proof); err != nil {
		return nil, ErrMalformedProof
	}

	if proof.Type != models.DataIntegrityProof {
		return nil, ErrWrongProofType
	}

	if opts.CryptoSuite == "" {
		opts.CryptoSuite = proof.CryptoSuite
	}

	deriverSuite, ok := h.suites[proof.CryptoSuite]
	if !ok {
		return nil, ErrUnsupportedSuite
	}

	unsecuredDoc, err := sjson.DeleteBytes(doc, proofPath)
	if err != nil {
		return nil, ErrMalformedProof
	}

	revealedDoc, derivedProof, err := deriverSuite.CreateDisclosureProof(unsecuredDoc, proof, opts)
	if err != nil {
		return nil, ErrProofDerivation
	}

	proofRawOut, err := json.Marshal(derivedProof)
	if err != nil {
		return nil, ErrProofDerivation
	}

	out, err := sjson.SetRawBytes(revealedDoc, proofPath, proofRawOut)
	if err != nil {
		return nil, ErrProofDerivation
	}

	return out, nil
}
