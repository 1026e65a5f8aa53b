/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023

import (
	"crypto/sha256"
	"io"

	"github.com/herculas/vc-suite-bbs/canonical"
	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/errs"
)

const (
	mandatoryGroupName = "mandatory"
	hmacKeyLength      = 32
)

// Transform implements the issuer-side Transform step: it mints a random
// hmacKey, canonicalizes doc under an HMAC-shuffled label map, and groups
// the resulting statements by opts.MandatoryPointers.
func Transform(processor *canonical.Processor, random io.Reader, doc map[string]interface{},
	opts *models.ProofOptions) (*TransformedDocument, error) {
	const op = "bbs2023.Transform"

	if opts.Type != models.DataIntegrityProof || opts.CryptoSuite != SuiteType {
		return nil, errs.New(errs.ProofTransformationErr, op, "proof options type/cryptosuite mismatch")
	}

	hmacKey := make([]byte, hmacKeyLength)
	if _, err := io.ReadFull(random, hmacKey); err != nil {
		return nil, errs.Wrap(errs.ProofTransformationErr, op, err)
	}

	result, err := processor.CanonicalizeAndGroup(doc, hmacKey, map[string][]string{
		mandatoryGroupName: opts.MandatoryPointers,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ProofTransformationErr, op, err)
	}

	group := result.Groups[mandatoryGroupName]

	return &TransformedDocument{
		MandatoryPointers: opts.MandatoryPointers,
		Mandatory:         group.Matching,
		NonMandatory:      group.NonMatching,
		HMACKey:           hmacKey,
	}, nil
}

// Config implements the Config step: it builds the proof-configuration
// document from opts and doc's own @context, and canonicalizes it under
// plain RDFC-1.0 (no label shuffling, since the proof config carries no
// blank nodes).
func Config(processor *canonical.Processor, doc map[string]interface{},
	opts *models.ProofOptions) ([]string, error) {
	const op = "bbs2023.Config"

	if opts.Type != models.DataIntegrityProof || opts.CryptoSuite != SuiteType {
		return nil, errs.New(errs.ProofGenerationError, op, "proof options type/cryptosuite mismatch")
	}

	conf := map[string]interface{}{
		"@context":           doc["@context"],
		"type":               models.DataIntegrityProof,
		"cryptosuite":        SuiteType,
		"verificationMethod": opts.VerificationMethod,
	}

	if !opts.Created.IsZero() {
		conf["created"] = opts.Created.Format(models.DateTimeFormat)
	}

	if opts.Purpose != "" {
		conf["proofPurpose"] = opts.Purpose
	}

	lines, err := processor.CanonicalLines(conf)
	if err != nil {
		return nil, errs.Wrap(errs.ProofGenerationError, op, err)
	}

	return lines, nil
}

// Hash implements the Hash step: it folds the canonical proof-config lines
// and the transformed document's mandatory statements into the two
// 32-byte digests the base-proof pipeline signs over.
func Hash(transformed *TransformedDocument, proofConfigLines []string) *HashData {
	proofHash := sha256.Sum256([]byte(canonical.JoinLines(proofConfigLines)))
	mandatoryHash := sha256.Sum256([]byte(canonical.JoinLines(transformed.Mandatory.OrderedNQuads())))

	return &HashData{
		TransformedDocument: *transformed,
		ProofHash:           proofHash,
		MandatoryHash:       mandatoryHash,
	}
}
