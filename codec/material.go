/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package codec implements Multikey and JWK encode/decode for the BLS12-381
// G2 key material used by the bbs-2023 suite: 32-byte private scalars and
// 96-byte G2-compressed public keys.
package codec

import "github.com/herculas/vc-suite-bbs/errs"

// Flag selects which half of a keypair a codec operation addresses.
type Flag int

// The two halves of a BLS12-381 G2 keypair this suite codes for.
const (
	Public Flag = iota
	Private
)

// Lengths, in octets, that KeyMaterial must match exactly for its flag.
const (
	PublicKeyLength  = 96
	PrivateKeyLength = 32
)

// KeyMaterial is a tagged byte sequence: a 32-octet private scalar or a
// 96-octet G2-compressed public key. Length is validated against Flag at
// construction; once built, a KeyMaterial value is known-valid.
type KeyMaterial struct {
	Flag  Flag
	Bytes []byte
}

// NewKeyMaterial validates b's length against flag and returns the tagged
// value, or an *errs.Error with code INVALID_KEYPAIR_LENGTH.
func NewKeyMaterial(flag Flag, b []byte) (*KeyMaterial, error) {
	if err := checkLength(flag, len(b)); err != nil {
		return nil, err
	}

	out := make([]byte, len(b))
	copy(out, b)

	return &KeyMaterial{Flag: flag, Bytes: out}, nil
}

func checkLength(flag Flag, n int) error {
	want := expectedLength(flag)
	if n != want {
		return errs.New(errs.InvalidKeypairLength, "codec.checkLength",
			"key material length does not match flag")
	}

	return nil
}

func expectedLength(flag Flag) int {
	if flag == Private {
		return PrivateKeyLength
	}

	return PublicKeyLength
}
