/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataintegrity

import (
	"errors"

	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/dataintegrity/suite"
)

var errExpected = errors.New("expected error")

const mockSuiteType = "mock-suite-2023"

// mockSuite is a fake suite.Signer/Deriver/Verifier exercising the
// dataintegrity orchestrator in isolation from any real cryptographic
// suite, mirroring aries-framework-go's dataintegrity package's own
// mockSuite.
type mockSuite struct {
	ReqCreatedVal bool

	CreateProofVal *models.Proof
	CreateProofErr error

	CreateDisclosureProofRevealed []byte
	CreateDisclosureProofProof    *models.Proof
	CreateDisclosureProofErr      error

	VerifyProofErr error
}

var _ suite.Suite = &mockSuite{}

func (m *mockSuite) CreateProof([]byte, *models.ProofOptions) (*models.Proof, error) {
	return m.CreateProofVal, m.CreateProofErr
}

func (m *mockSuite) RequiresCreated() bool {
	return m.ReqCreatedVal
}

func (m *mockSuite) CreateDisclosureProof([]byte, *models.Proof, *models.ProofOptions) ([]byte, *models.Proof, error) {
	return m.CreateDisclosureProofRevealed, m.CreateDisclosureProofProof, m.CreateDisclosureProofErr
}

func (m *mockSuite) VerifyProof([]byte, *models.Proof, *models.ProofOptions) error {
	return m.VerifyProofErr
}

type mockSuiteInitializer struct {
	mockSuite *mockSuite
	initErr   error
	typeStr   string
}

var (
	_ suite.SignerInitializer   = &mockSuiteInitializer{}
	_ suite.DeriverInitializer  = &mockSuiteInitializer{}
	_ suite.VerifierInitializer = &mockSuiteInitializer{}
)

func (m *mockSuiteInitializer) Signer() (suite.Signer, error) {
	return m.mockSuite, m.initErr
}

func (m *mockSuiteInitializer) Deriver() (suite.Deriver, error) {
	return m.mockSuite, m.initErr
}

func (m *mockSuiteInitializer) Verifier() (suite.Verifier, error) {
	return m.mockSuite, m.initErr
}

func (m *mockSuiteInitializer) Type() string {
	return m.typeStr
}
