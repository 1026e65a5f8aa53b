/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023

import (
	"crypto/sha256"
	"time"

	"github.com/herculas/vc-suite-bbs/bbsapi"
	"github.com/herculas/vc-suite-bbs/canonical"
	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/errs"
	"github.com/herculas/vc-suite-bbs/keypair"
)

// Verify implements §4.7's Verification Pipeline. revealedDoc is the
// disclosure proof's companion document (proof.proofValue already
// stripped); proofConfigLines is the canonical proof-config N-Quads built
// the same way Config built them at issuance, from opts and revealedDoc's
// own @context.
func Verify(processor *canonical.Processor, resolver keypair.VerificationMethodResolver, bbs bbsapi.Suite,
	revealedDoc map[string]interface{}, derived *DerivedProofValue, proofConfigLines []string,
	opts *models.ProofOptions) (bool, error) {
	const op = "bbs2023.Verify"

	vm, err := resolver.Resolve(opts.VerificationMethod)
	if err != nil {
		return false, errs.Wrap(errs.InvalidVerificationMtd, op, err)
	}

	kp, err := keypair.Import(vm, keypair.ImportOptions{}, time.Now())
	if err != nil {
		return false, errs.Wrap(errs.InvalidVerificationMtd, op, err)
	}

	if kp.PublicKey == nil {
		return false, errs.New(errs.InvalidVerificationMtd, op, "verification method carries no public key")
	}

	factory := labelMapFactoryFromLabelMap(derived.LabelMap)

	lines, err := processor.CanonicalLinesWithFactory(revealedDoc, factory)
	if err != nil {
		return false, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	mandatory, nonMandatory, err := partitionByIndexes(lines, derived.MandatoryIndexes)
	if err != nil {
		return false, errs.Wrap(errs.ProofVerificationError, op, err)
	}

	proofHash := sha256.Sum256([]byte(canonical.JoinLines(proofConfigLines)))
	mandatoryHash := sha256.Sum256([]byte(canonical.JoinLines(mandatory)))

	bbsHeader := make([]byte, 0, len(proofHash)+len(mandatoryHash))
	bbsHeader = append(bbsHeader, proofHash[:]...)
	bbsHeader = append(bbsHeader, mandatoryHash[:]...)

	disclosedMessages := nquadMessages(nonMandatory)

	return verifyByFeature(bbs, opts, derived, kp.PublicKey.Bytes, bbsHeader, disclosedMessages)
}

// labelMapFactoryFromLabelMap returns a canonical.LabelMapFactory ignoring
// its input entirely: the verifier already knows, from the disclosure
// proof's derived LabelMap, exactly which shuffled label each verifier-side
// "c14nN" label must become.
func labelMapFactoryFromLabelMap(m canonical.LabelMap) canonical.LabelMapFactory {
	return func(_ []string) canonical.LabelMap {
		return m
	}
}

// partitionByIndexes splits lines into the subsequence at mandatoryIndexes
// and its complement, both kept in ascending original order.
func partitionByIndexes(lines []string, mandatoryIndexes []int) (mandatory, nonMandatory []string, err error) {
	const op = "bbs2023.partitionByIndexes"

	isMandatory := make(map[int]bool, len(mandatoryIndexes))

	for _, idx := range mandatoryIndexes {
		if idx < 0 || idx >= len(lines) {
			return nil, nil, errs.New(errs.ProofVerificationError, op, "mandatoryIndexes out of range")
		}

		isMandatory[idx] = true
	}

	for i, line := range lines {
		if isMandatory[i] {
			mandatory = append(mandatory, line)
		} else {
			nonMandatory = append(nonMandatory, line)
		}
	}

	return mandatory, nonMandatory, nil
}

func verifyByFeature(bbs bbsapi.Suite, opts *models.ProofOptions, derived *DerivedProofValue, publicKey,
	bbsHeader []byte, disclosedMessages [][]byte) (bool, error) {
	const op = "bbs2023.verifyByFeature"

	switch derived.Feature {
	case bbsapi.Baseline:
		ok, err := bbs.ProofVerify(publicKey, derived.BBSProof, bbsHeader, derived.PresentationHeader,
			disclosedMessages, derived.SelectiveIndexes)
		if err != nil {
			return false, errs.Wrap(errs.ProofVerificationError, op, err)
		}

		return ok, nil
	case bbsapi.AnonymousHolderBinding:
		if derived.LengthBBSMessages == nil {
			return false, errs.New(errs.ProofVerificationError, op, "missing lengthBBSMessages")
		}

		ok, err := bbs.BlindProofVerify(publicKey, derived.BBSProof, bbsHeader, derived.PresentationHeader,
			disclosedMessages, derived.SelectiveIndexes, *derived.LengthBBSMessages)
		if err != nil {
			return false, errs.Wrap(errs.ProofVerificationError, op, err)
		}

		return ok, nil
	case bbsapi.Pseudonym, bbsapi.HolderBindingPseudonym:
		if derived.LengthBBSMessages == nil || len(derived.Pseudonym) == 0 || len(opts.NymDomain) == 0 {
			return false, errs.New(errs.ProofVerificationError, op, "missing lengthBBSMessages, pseudonym, or nymDomain")
		}

		ok, err := bbs.NymProofVerify(publicKey, derived.BBSProof, bbsHeader, derived.PresentationHeader,
			disclosedMessages, derived.SelectiveIndexes, *derived.LengthBBSMessages, derived.Pseudonym, opts.NymDomain)
		if err != nil {
			return false, errs.Wrap(errs.ProofVerificationError, op, err)
		}

		return ok, nil
	default:
		return false, errs.New(errs.ProofVerificationError, op, "unsupported feature")
	}
}
