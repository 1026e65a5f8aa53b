/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023

import (
	"time"

	"github.com/herculas/vc-suite-bbs/bbsapi"
	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/errs"
	"github.com/herculas/vc-suite-bbs/keypair"
)

// Serialize implements the issuer-side Serialize+Sign step of §4.5: it
// resolves the signing keypair, assembles bbsHeader and bbsMessages from
// hashed, dispatches to the feature-appropriate bbs.Suite operation, and
// envelope-encodes the result into proof.proofValue.
func Serialize(resolver keypair.VerificationMethodResolver, bbs bbsapi.Suite, hashed *HashData,
	opts *models.ProofOptions) (string, error) {
	const op = "bbs2023.Serialize"

	vm, err := resolver.Resolve(opts.VerificationMethod)
	if err != nil {
		return "", errs.Wrap(errs.InvalidVerificationMtd, op, err)
	}

	kp, err := keypair.Import(vm, keypair.ImportOptions{}, time.Now())
	if err != nil {
		return "", errs.Wrap(errs.InvalidVerificationMtd, op, err)
	}

	if kp.PublicKey == nil || kp.PrivateKey == nil {
		return "", errs.New(errs.InvalidVerificationMtd, op, "signing keypair is missing a key half")
	}

	bbsHeader := make([]byte, 0, len(hashed.ProofHash)+len(hashed.MandatoryHash))
	bbsHeader = append(bbsHeader, hashed.ProofHash[:]...)
	bbsHeader = append(bbsHeader, hashed.MandatoryHash[:]...)

	bbsMessages := nquadMessages(hashed.NonMandatory.OrderedNQuads())

	signature, err := signByFeature(bbs, opts, kp, bbsHeader, bbsMessages)
	if err != nil {
		return "", err
	}

	baseProof := &BaseProofValue{
		BBSSignature:      signature,
		BBSHeader:         bbsHeader,
		PublicKey:         kp.PublicKey.Bytes,
		HMACKey:           hashed.HMACKey,
		MandatoryPointers: hashed.MandatoryPointers,
		Feature:           opts.Feature,
		SignerNymEntropy:  opts.SignerNymEntropy,
	}

	proofValue, err := EncodeBaseProofValue(baseProof)
	if err != nil {
		return "", errs.Wrap(errs.ProofGenerationError, op, err)
	}

	return proofValue, nil
}

func signByFeature(bbs bbsapi.Suite, opts *models.ProofOptions, kp *keypair.Keypair, bbsHeader []byte,
	bbsMessages [][]byte) ([]byte, error) {
	const op = "bbs2023.signByFeature"

	switch opts.Feature {
	case bbsapi.Baseline:
		signature, err := bbs.Sign(kp.PrivateKey.Bytes, kp.PublicKey.Bytes, bbsHeader, bbsMessages)
		if err != nil {
			return nil, errs.Wrap(errs.ProofGenerationError, op, err)
		}

		return signature, nil
	case bbsapi.AnonymousHolderBinding:
		if len(opts.CommitmentWithProof) == 0 {
			return nil, errs.New(errs.ProofGenerationError, op, "missing commitmentWithProof for anonymous holder binding")
		}

		signature, err := bbs.BlindSign(kp.PrivateKey.Bytes, kp.PublicKey.Bytes, opts.CommitmentWithProof,
			bbsHeader, bbsMessages)
		if err != nil {
			return nil, errs.Wrap(errs.ProofGenerationError, op, err)
		}

		return signature, nil
	case bbsapi.Pseudonym, bbsapi.HolderBindingPseudonym:
		if len(opts.SignerNymEntropy) == 0 || len(opts.CommitmentWithProof) == 0 {
			return nil, errs.New(errs.ProofGenerationError, op, "missing signerNymEntropy or commitmentWithProof for pseudonym feature")
		}

		signature, err := bbs.NymSign(kp.PrivateKey.Bytes, kp.PublicKey.Bytes, opts.SignerNymEntropy,
			opts.CommitmentWithProof, bbsHeader, bbsMessages)
		if err != nil {
			return nil, errs.Wrap(errs.ProofGenerationError, op, err)
		}

		return signature, nil
	default:
		return nil, errs.New(errs.ProofGenerationError, op, "unsupported feature")
	}
}

func nquadMessages(nquads []string) [][]byte {
	out := make([][]byte, len(nquads))

	for i, q := range nquads {
		out[i] = []byte(q)
	}

	return out
}
