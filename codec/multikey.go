/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package codec

import (
	"bytes"

	"github.com/multiformats/go-multibase"

	"github.com/herculas/vc-suite-bbs/errs"
)

// Multicodec prefixes this suite declares for BLS12-381 G2 key material, per
// https://github.com/multiformats/multicodec/blob/master/table.csv
// (bls12_381-g2-pub, bls12_381-g2-priv).
var multicodecPrefix = map[Flag][]byte{
	Public:  {0xeb, 0x01},
	Private: {0x80, 0x30},
}

// MaterialToMultibase validates m's length against its own Flag, prepends
// the flag-specific multicodec prefix, and base58btc-encodes the result with
// a leading 'z', per the Multikey representation.
func MaterialToMultibase(m *KeyMaterial) (string, error) {
	const op = "codec.MaterialToMultibase"

	prefix, ok := multicodecPrefix[m.Flag]
	if !ok {
		return "", errs.New(errs.UnsupportedFlag, op, "suite declares no multicodec prefix for this flag")
	}

	if err := checkLength(m.Flag, len(m.Bytes)); err != nil {
		return "", err
	}

	buf := make([]byte, 0, len(prefix)+len(m.Bytes))
	buf = append(buf, prefix...)
	buf = append(buf, m.Bytes...)

	encoded, err := multibase.Encode(multibase.Base58BTC, buf)
	if err != nil {
		return "", errs.Wrap(errs.DecodingError, op, err)
	}

	return encoded, nil
}

// MultibaseToMaterial decodes s as base58btc, verifies the flag-specific
// multicodec prefix byte-for-byte, and verifies the remaining length matches
// what flag requires.
func MultibaseToMaterial(s string, flag Flag) (*KeyMaterial, error) {
	const op = "codec.MultibaseToMaterial"

	prefix, ok := multicodecPrefix[flag]
	if !ok {
		return nil, errs.New(errs.UnsupportedFlag, op, "suite declares no multicodec prefix for this flag")
	}

	encoding, decoded, err := multibase.Decode(s)
	if err != nil {
		return nil, errs.Wrap(errs.DecodingError, op, err)
	}

	if encoding != multibase.Base58BTC {
		return nil, errs.New(errs.DecodingError, op, "multikey string is not base58btc encoded")
	}

	if len(decoded) < len(prefix) || !bytes.Equal(decoded[:len(prefix)], prefix) {
		return nil, errs.New(errs.DecodingError, op, "multicodec prefix mismatch")
	}

	rest := decoded[len(prefix):]
	if err := checkLength(flag, len(rest)); err != nil {
		return nil, err
	}

	return &KeyMaterial{Flag: flag, Bytes: rest}, nil
}
