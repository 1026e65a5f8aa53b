/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herculas/vc-suite-bbs/canonical"
	"github.com/herculas/vc-suite-bbs/codec"
	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/dataintegrity/suite"
	"github.com/herculas/vc-suite-bbs/internal/bbstest"
	"github.com/herculas/vc-suite-bbs/keypair"
	"github.com/herculas/vc-suite-bbs/suite/bbs2023"
)

type fakeResolver struct {
	vm *keypair.VerificationMethod
}

func (r *fakeResolver) Resolve(id string) (*keypair.VerificationMethod, error) {
	if id != r.vm.ID {
		return nil, fmt.Errorf("fakeResolver: no verification method %q", id)
	}

	return r.vm, nil
}

func newIssuerFixture(t *testing.T) *fakeResolver {
	t.Helper()

	kp := &keypair.Keypair{Controller: "did:example:issuer"}
	require.NoError(t, kp.Initialize(bbstest.Double{}, make([]byte, 32)))

	vm, err := kp.Export(keypair.ExportOptions{Flag: codec.Private, Type: keypair.TypeMultikey})
	require.NoError(t, err)

	return &fakeResolver{vm: vm}
}

func sampleCredential() map[string]interface{} {
	return map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab": "https://example.org/vocab#",
		},
		"id":     "urn:uuid:11111111-1111-1111-1111-111111111111",
		"type":   "VerifiableCredential",
		"issuer": "https://example.org/issuer",
		"credentialSubject": map[string]interface{}{
			"id":   "urn:uuid:22222222-2222-2222-2222-222222222222",
			"name": "Alice",
			"age":  21,
		},
	}
}

func newFixtureSuites(resolver *fakeResolver) (suite.Signer, suite.Deriver, suite.Verifier) {
	processor := canonical.NewProcessor(nil)
	bbs := bbstest.Double{}

	signerInit := bbs2023.NewSignerInitializer(&bbs2023.SignerInitializerOptions{
		Processor: processor,
		BBS:       bbs,
		Resolver:  resolver,
	})
	deriverInit := bbs2023.NewDeriverInitializer(&bbs2023.DeriverInitializerOptions{
		Processor: processor,
		BBS:       bbs,
	})
	verifierInit := bbs2023.NewVerifierInitializer(&bbs2023.VerifierInitializerOptions{
		Processor: processor,
		BBS:       bbs,
		Resolver:  resolver,
	})

	signer, err := signerInit.Signer()
	if err != nil {
		panic(err)
	}

	deriver, err := deriverInit.Deriver()
	if err != nil {
		panic(err)
	}

	verifier, err := verifierInit.Verifier()
	if err != nil {
		panic(err)
	}

	return signer, deriver, verifier
}

func TestSuite_IssueDeriveVerify_Baseline(t *testing.T) {
	resolver := newIssuerFixture(t)
	signer, deriver, verifier := newFixtureSuites(resolver)

	doc, err := json.Marshal(sampleCredential())
	require.NoError(t, err)

	issueOpts := &models.ProofOptions{
		VerificationMethod: resolver.vm.ID,
		Purpose:            "assertionMethod",
		MandatoryPointers:  []string{"/issuer"},
	}

	proof, err := signer.CreateProof(doc, issueOpts)
	require.NoError(t, err)
	assert.Equal(t, models.DataIntegrityProof, proof.Type)
	assert.Equal(t, bbs2023.SuiteType, proof.CryptoSuite)
	assert.NotEmpty(t, proof.ProofValue)
	assert.False(t, signer.RequiresCreated())

	deriveOpts := &models.ProofOptions{
		VerificationMethod: resolver.vm.ID,
		Purpose:            "assertionMethod",
		SelectivePointers:  []string{"/credentialSubject/name"},
		PresentationHeader: []byte("presentation-nonce-1"),
	}

	revealedDoc, derivedProof, err := deriver.CreateDisclosureProof(doc, proof, deriveOpts)
	require.NoError(t, err)
	assert.NotEmpty(t, derivedProof.ProofValue)

	var revealed map[string]interface{}
	require.NoError(t, json.Unmarshal(revealedDoc, &revealed))

	assert.Equal(t, "https://example.org/issuer", revealed["issuer"])
	assert.Equal(t, "urn:uuid:11111111-1111-1111-1111-111111111111", revealed["id"])
	assert.NotContains(t, revealed, "type")

	credSubject, ok := revealed["credentialSubject"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Alice", credSubject["name"])
	assert.Equal(t, "urn:uuid:22222222-2222-2222-2222-222222222222", credSubject["id"])
	assert.NotContains(t, credSubject, "age")

	verifyOpts := &models.ProofOptions{
		VerificationMethod: resolver.vm.ID,
		Purpose:            "assertionMethod",
	}

	err = verifier.VerifyProof(revealedDoc, derivedProof, verifyOpts)
	require.NoError(t, err)
}

func TestSuite_VerifyFailsOnTamperedDisclosedValue(t *testing.T) {
	resolver := newIssuerFixture(t)
	signer, deriver, verifier := newFixtureSuites(resolver)

	doc, err := json.Marshal(sampleCredential())
	require.NoError(t, err)

	issueOpts := &models.ProofOptions{
		VerificationMethod: resolver.vm.ID,
		Purpose:            "assertionMethod",
		MandatoryPointers:  []string{"/issuer"},
	}

	proof, err := signer.CreateProof(doc, issueOpts)
	require.NoError(t, err)

	deriveOpts := &models.ProofOptions{
		VerificationMethod: resolver.vm.ID,
		Purpose:            "assertionMethod",
		SelectivePointers:  []string{"/credentialSubject/name"},
	}

	revealedDoc, derivedProof, err := deriver.CreateDisclosureProof(doc, proof, deriveOpts)
	require.NoError(t, err)

	var revealed map[string]interface{}
	require.NoError(t, json.Unmarshal(revealedDoc, &revealed))

	credSubject := revealed["credentialSubject"].(map[string]interface{})
	credSubject["name"] = "Mallory"

	tamperedDoc, err := json.Marshal(revealed)
	require.NoError(t, err)

	verifyOpts := &models.ProofOptions{
		VerificationMethod: resolver.vm.ID,
		Purpose:            "assertionMethod",
	}

	err = verifier.VerifyProof(tamperedDoc, derivedProof, verifyOpts)
	assert.ErrorIs(t, err, suite.ErrInvalidProof)
}

func TestSuite_VerifyFailsOnWrongVerificationMethod(t *testing.T) {
	resolver := newIssuerFixture(t)
	signer, deriver, verifier := newFixtureSuites(resolver)

	doc, err := json.Marshal(sampleCredential())
	require.NoError(t, err)

	issueOpts := &models.ProofOptions{
		VerificationMethod: resolver.vm.ID,
		Purpose:            "assertionMethod",
		MandatoryPointers:  []string{"/issuer"},
	}

	proof, err := signer.CreateProof(doc, issueOpts)
	require.NoError(t, err)

	deriveOpts := &models.ProofOptions{
		VerificationMethod: resolver.vm.ID,
		Purpose:            "assertionMethod",
		SelectivePointers:  []string{"/credentialSubject/name"},
	}

	revealedDoc, derivedProof, err := deriver.CreateDisclosureProof(doc, proof, deriveOpts)
	require.NoError(t, err)

	derivedProof.VerificationMethod = "did:example:someone-else#1"

	verifyOpts := &models.ProofOptions{
		VerificationMethod: derivedProof.VerificationMethod,
		Purpose:            "assertionMethod",
	}

	err = verifier.VerifyProof(revealedDoc, derivedProof, verifyOpts)
	require.Error(t, err)
}

func TestSuite_CreateDisclosureProof_RejectsNonDataIntegrityProof(t *testing.T) {
	resolver := newIssuerFixture(t)
	_, deriver, _ := newFixtureSuites(resolver)

	doc, err := json.Marshal(sampleCredential())
	require.NoError(t, err)

	_, _, err = deriver.CreateDisclosureProof(doc, &models.Proof{Type: "Ed25519Signature2020"}, &models.ProofOptions{})
	require.Error(t, err)
}
