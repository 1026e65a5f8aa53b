/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keypair

import (
	"time"

	"github.com/herculas/vc-suite-bbs/codec"
)

// DateTimeFormat is the timestamp format used throughout verification
// method documents, matching the W3C Data Integrity convention.
const DateTimeFormat = time.RFC3339

// The two verification-method type discriminators this suite dispatches
// on, per the external verification-method JSON shape.
const (
	TypeMultikey    = "Multikey"
	TypeJsonWebKey  = "JsonWebKey"
)

// KnownContexts is the allowlist Import consults when checkContext is
// requested. Any entry is accepted standalone or as the last member of
// a context array.
var KnownContexts = []string{
	"https://w3id.org/security/multikey/v1",
	"https://w3id.org/security/jwk/v1",
	"https://w3id.org/security/data-integrity/v2",
}

// VerificationMethod is the polymorphic document this suite serializes a
// Keypair to and parses one back from. Exactly one of the Multikey pair or
// the JWK pair is populated at a time, selected by Type.
type VerificationMethod struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Controller string      `json:"controller"`
	Context    interface{} `json:"@context,omitempty"`
	Expires    string      `json:"expires,omitempty"`
	Revoked    string      `json:"revoked,omitempty"`

	PublicKeyMultibase string `json:"publicKeyMultibase,omitempty"`
	SecretKeyMultibase string `json:"secretKeyMultibase,omitempty"`

	PublicKeyJwk *codec.JWK `json:"publicKeyJwk,omitempty"`
	SecretKeyJwk *codec.JWK `json:"secretKeyJwk,omitempty"`
}

// VerificationMethodResolver looks up the verification-method document a
// proof's verificationMethod URI refers to. Suites and orchestrators depend
// on this interface rather than any specific DID method or key registry,
// mirroring how aries-framework-go's dataintegrity package depends on an
// abstract didResolver instead of a concrete VDR implementation.
type VerificationMethodResolver interface {
	Resolve(id string) (*VerificationMethod, error)
}
