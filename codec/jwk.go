/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package codec

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/herculas/vc-suite-bbs/errs"
)

// curveName is the non-standard JWK "crv" value this suite declares for
// BLS12-381 G2 key material. go-jose's JSONWebKey has no case for it, which
// is why this package carries its own fixed struct instead of depending on
// that library for this curve.
const curveName = "BLS12_381G2"

// JWK is the fixed representation this suite assigns to BLS12-381 G2 key
// material. y is always the empty string, since this curve has no second
// coordinate in this encoding, but the field is carried for shape
// compatibility with ordinary EC JWKs. d is omitted entirely (not emitted
// as "") when encoding a public-only JWK.
type JWK struct {
	Kty    string   `json:"kty"`
	Use    string   `json:"use,omitempty"`
	KeyOps []string `json:"key_ops,omitempty"`
	Alg    string   `json:"alg"`
	Crv    string   `json:"crv"`
	Ext    bool     `json:"ext"`
	X      string   `json:"x"`
	Y      string   `json:"y"`
	D      string   `json:"d,omitempty"`
}

// MaterialToJWK builds the fixed JWK representation for m.
func MaterialToJWK(m *KeyMaterial) (*JWK, error) {
	const op = "codec.MaterialToJWK"

	if err := checkLength(m.Flag, len(m.Bytes)); err != nil {
		return nil, err
	}

	jwk := &JWK{
		Kty: "EC",
		Alg: curveName,
		Crv: curveName,
		Ext: true,
	}

	switch m.Flag {
	case Public:
		jwk.Use = "sig"
		jwk.KeyOps = []string{"verify"}
		jwk.X = base64.RawURLEncoding.EncodeToString(m.Bytes)
	case Private:
		jwk.Use = "sig"
		jwk.KeyOps = []string{"sign"}
		jwk.D = base64.RawURLEncoding.EncodeToString(m.Bytes)
	default:
		return nil, errs.New(errs.UnsupportedFlag, op, "suite declares no JWK encoding for this flag")
	}

	return jwk, nil
}

// JWKToMaterial inverts MaterialToJWK. It asserts kty/use/alg/crv match the
// suite's constants, that key_ops carries exactly the one operation flag
// requires, decodes the flag-specific field, and asserts its length.
func JWKToMaterial(jwk *JWK, flag Flag) (*KeyMaterial, error) {
	const op = "codec.JWKToMaterial"

	if jwk.Kty != "EC" || jwk.Use != "sig" || jwk.Alg != curveName || jwk.Crv != curveName {
		return nil, errs.New(errs.InvalidKeypairContent, op, "jwk kty/use/alg/crv does not match this suite")
	}

	var (
		encoded string
		wantOp  string
	)

	switch flag {
	case Public:
		encoded, wantOp = jwk.X, "verify"
	case Private:
		encoded, wantOp = jwk.D, "sign"
	default:
		return nil, errs.New(errs.UnsupportedFlag, op, "suite declares no JWK encoding for this flag")
	}

	if len(jwk.KeyOps) != 1 || jwk.KeyOps[0] != wantOp {
		return nil, errs.New(errs.InvalidKeypairContent, op, "jwk key_ops does not match this flag")
	}

	if encoded == "" {
		return nil, errs.New(errs.InvalidKeypairContent, op, "jwk is missing the field this flag requires")
	}

	decoded, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errs.Wrap(errs.DecodingError, op, err)
	}

	if err := checkLength(flag, len(decoded)); err != nil {
		return nil, err
	}

	return &KeyMaterial{Flag: flag, Bytes: decoded}, nil
}

// JWKThumbprint hashes jwk exactly as it would be emitted: SHA-256 over the
// JSON-serialized JWK, base64url-no-pad encoded. The canonical-member
// ordering RFC 7638 asks for is the caller's concern in general, but is
// moot here because this suite's JWK template has a fixed field set and
// field order, so re-marshaling always reproduces the same bytes.
func JWKThumbprint(jwk *JWK) (string, error) {
	const op = "codec.JWKThumbprint"

	if jwk.Kty != "EC" || jwk.Crv != curveName || jwk.X == "" {
		return "", errs.New(errs.InvalidKeypairContent, op, "thumbprint requires a public BLS12_381G2 jwk")
	}

	buf, err := json.Marshal(jwk)
	if err != nil {
		return "", errs.Wrap(errs.DecodingError, op, err)
	}

	digest := sha256.Sum256(buf)

	return base64.RawURLEncoding.EncodeToString(digest[:]), nil
}
