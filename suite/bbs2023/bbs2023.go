/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023

import (
	"crypto/rand"
	"encoding/json"
	"io"
	"time"

	"github.com/herculas/vc-suite-bbs/bbsapi"
	"github.com/herculas/vc-suite-bbs/canonical"
	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/dataintegrity/suite"
	"github.com/herculas/vc-suite-bbs/errs"
	"github.com/herculas/vc-suite-bbs/keypair"
)

// Suite implements the bbs-2023 data integrity cryptographic suite's three
// roles (issuer/holder/verifier), wiring the Transform/Config/Hash and
// Serialize/Derive/Verify functions in this package to the collaborators
// an instance is constructed with, mirroring
// dataintegrity/suite/ecdsa2019's Suite/Options/SuiteInitializer shape.
type Suite struct {
	processor *canonical.Processor
	bbs       bbsapi.Suite
	resolver  keypair.VerificationMethodResolver
	random    io.Reader
}

// Options provides initialization options for Suite.
type Options struct {
	Processor *canonical.Processor
	BBS       bbsapi.Suite
	Resolver  keypair.VerificationMethodResolver
	Random    io.Reader
}

// SuiteInitializer is the initializer for Suite.
type SuiteInitializer func() (suite.Suite, error)

// New constructs an initializer for Suite. A nil Options.Random falls back
// to crypto/rand.Reader.
func New(options *Options) SuiteInitializer {
	return func() (suite.Suite, error) {
		random := options.Random
		if random == nil {
			random = rand.Reader
		}

		return &Suite{
			processor: options.Processor,
			bbs:       options.BBS,
			resolver:  options.Resolver,
			random:    random,
		}, nil
	}
}

type initializer SuiteInitializer

// Signer implements suite.SignerInitializer.
func (i initializer) Signer() (suite.Signer, error) {
	return i()
}

// Deriver implements suite.DeriverInitializer.
func (i initializer) Deriver() (suite.Deriver, error) {
	return i()
}

// Verifier implements suite.VerifierInitializer.
func (i initializer) Verifier() (suite.Verifier, error) {
	return i()
}

// Type implements suite.SignerInitializer, suite.DeriverInitializer, and
// suite.VerifierInitializer.
func (i initializer) Type() string {
	return SuiteType
}

// SignerInitializerOptions provides options for a SignerInitializer.
type SignerInitializerOptions struct {
	Processor *canonical.Processor
	BBS       bbsapi.Suite
	Resolver  keypair.VerificationMethodResolver
	Random    io.Reader
}

// NewSignerInitializer returns a suite.SignerInitializer for an issuer-only
// Suite.
func NewSignerInitializer(options *SignerInitializerOptions) suite.SignerInitializer {
	return initializer(New(&Options{
		Processor: options.Processor,
		BBS:       options.BBS,
		Resolver:  options.Resolver,
		Random:    options.Random,
	}))
}

// DeriverInitializerOptions provides options for a DeriverInitializer.
type DeriverInitializerOptions struct {
	Processor *canonical.Processor
	BBS       bbsapi.Suite
}

// NewDeriverInitializer returns a suite.DeriverInitializer for a holder-only
// Suite.
func NewDeriverInitializer(options *DeriverInitializerOptions) suite.DeriverInitializer {
	return initializer(New(&Options{
		Processor: options.Processor,
		BBS:       options.BBS,
	}))
}

// VerifierInitializerOptions provides options for a VerifierInitializer.
type VerifierInitializerOptions struct {
	Processor *canonical.Processor
	BBS       bbsapi.Suite
	Resolver  keypair.VerificationMethodResolver
}

// NewVerifierInitializer returns a suite.VerifierInitializer for a
// verifier-only Suite.
func NewVerifierInitializer(options *VerifierInitializerOptions) suite.VerifierInitializer {
	return initializer(New(&Options{
		Processor: options.Processor,
		BBS:       options.BBS,
		Resolver:  options.Resolver,
	}))
}

// RequiresCreated reports that bbs-2023 proofs do not require
// Proof.Created to be set.
func (s *Suite) RequiresCreated() bool {
	return false
}

// CreateProof implements suite.Signer for the issuer side: Transform,
// Config, Hash, and Serialize, per §4.5.
func (s *Suite) CreateProof(doc []byte, opts *models.ProofOptions) (*models.Proof, error) {
	const op = "bbs2023.Suite.CreateProof"

	opts.Type = models.DataIntegrityProof
	opts.CryptoSuite = SuiteType

	docData, err := unmarshalDocument(doc)
	if err != nil {
		return nil, errs.Wrap(errs.ProofGenerationError, op, err)
	}

	transformed, err := Transform(s.processor, s.random, docData, opts)
	if err != nil {
		return nil, err
	}

	proofConfigLines, err := Config(s.processor, docData, opts)
	if err != nil {
		return nil, err
	}

	hashed := Hash(transformed, proofConfigLines)

	proofValue, err := Serialize(s.resolver, s.bbs, hashed, opts)
	if err != nil {
		return nil, err
	}

	p := &models.Proof{
		Type:               models.DataIntegrityProof,
		CryptoSuite:        SuiteType,
		ProofPurpose:       opts.Purpose,
		VerificationMethod: opts.VerificationMethod,
		Domain:             opts.Domain,
		Challenge:          opts.Challenge,
		ProofValue:         proofValue,
	}

	if !opts.Created.IsZero() {
		p.Created = opts.Created.Format(models.DateTimeFormat)
	}

	return p, nil
}

// CreateDisclosureProof implements suite.Deriver for the holder side: parse
// the base proof, run the Derivation Pipeline of §4.6, and assemble the
// disclosure proof alongside its revealed document.
func (s *Suite) CreateDisclosureProof(doc []byte, proof *models.Proof, opts *models.ProofOptions) ([]byte,
	*models.Proof, error) {
	const op = "bbs2023.Suite.CreateDisclosureProof"

	if proof.Type != models.DataIntegrityProof {
		return nil, nil, errs.New(errs.ProofDerivation, op, "proof is not a DataIntegrityProof")
	}

	docData, err := unmarshalDocument(doc)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ProofDerivation, op, err)
	}

	base, err := DecodeBaseProofValue(proof.ProofValue)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ProofDerivation, op, err)
	}

	opts.Type = models.DataIntegrityProof
	opts.CryptoSuite = SuiteType

	result, err := Derive(s.processor, s.bbs, docData, base, opts)
	if err != nil {
		return nil, nil, err
	}

	revealedDoc, err := json.Marshal(result.RevealedDocument)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ProofDerivation, op, err)
	}

	derivedProof := &models.Proof{
		Type:               models.DataIntegrityProof,
		CryptoSuite:        SuiteType,
		ProofPurpose:       opts.Purpose,
		VerificationMethod: opts.VerificationMethod,
		Domain:             opts.Domain,
		Challenge:          opts.Challenge,
		ProofValue:         result.ProofValue,
	}

	if !opts.Created.IsZero() {
		derivedProof.Created = opts.Created.Format(models.DateTimeFormat)
	}

	return revealedDoc, derivedProof, nil
}

// VerifyProof implements suite.Verifier for the verifier side: recompute
// the proof-config hash, parse the disclosure proof, and run the
// Verification Pipeline of §4.7.
func (s *Suite) VerifyProof(doc []byte, proof *models.Proof, opts *models.ProofOptions) error {
	const op = "bbs2023.Suite.VerifyProof"

	if proof.Type != models.DataIntegrityProof {
		return errs.New(errs.ProofVerificationError, op, "proof is not a DataIntegrityProof")
	}

	docData, err := unmarshalDocument(doc)
	if err != nil {
		return errs.Wrap(errs.ProofVerificationError, op, err)
	}

	derived, err := DecodeDerivedProofValue(proof.ProofValue)
	if err != nil {
		return err
	}

	opts.Type = models.DataIntegrityProof
	opts.CryptoSuite = SuiteType
	opts.Feature = derived.Feature
	opts.VerificationMethod = proof.VerificationMethod
	opts.Purpose = proof.ProofPurpose

	if proof.Created != "" {
		createdTime, err := time.Parse(models.DateTimeFormat, proof.Created)
		if err != nil {
			return errs.Wrap(errs.ProofVerificationError, op, err)
		}

		opts.Created = createdTime
	} else {
		opts.Created = time.Time{}
	}

	// Config must rebuild the exact proof-config issuance hashed into
	// bbsHeader, so it is derived from proof's own fields above rather
	// than from whatever opts the caller happened to supply.
	proofConfigLines, err := Config(s.processor, docData, opts)
	if err != nil {
		return err
	}

	ok, err := Verify(s.processor, s.resolver, s.bbs, docData, derived, proofConfigLines, opts)
	if err != nil {
		return err
	}

	if !ok {
		return suite.ErrInvalidProof
	}

	return nil
}

func unmarshalDocument(doc []byte) (map[string]interface{}, error) {
	docData := map[string]interface{}{}
	if err := json.Unmarshal(doc, &docData); err != nil {
		return nil, err
	}

	return docData, nil
}
