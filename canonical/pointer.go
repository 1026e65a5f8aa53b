/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package canonical

import (
	"strconv"
	"strings"

	"github.com/herculas/vc-suite-bbs/errs"
)

// ResolvePointer resolves an RFC 6901 JSON Pointer against doc, which must
// be built from map[string]interface{}/[]interface{}/scalar values, the
// shape encoding/json produces. The empty pointer "" resolves to doc
// itself.
func ResolvePointer(doc interface{}, pointer string) (interface{}, error) {
	const op = "canonical.ResolvePointer"

	if pointer == "" {
		return doc, nil
	}

	if pointer[0] != '/' {
		return nil, errs.New(errs.ProofTransformationErr, op, "json pointer must start with '/'")
	}

	tokens := strings.Split(pointer[1:], "/")
	cur := doc

	for _, raw := range tokens {
		tok := unescapeToken(raw)

		switch v := cur.(type) {
		case map[string]interface{}:
			next, ok := v[tok]
			if !ok {
				return nil, errs.New(errs.ProofTransformationErr, op, "pointer segment not found: "+tok)
			}

			cur = next
		case []interface{}:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, errs.New(errs.ProofTransformationErr, op, "pointer array index out of range: "+tok)
			}

			cur = v[idx]
		default:
			return nil, errs.New(errs.ProofTransformationErr, op, "pointer descends into a scalar value")
		}
	}

	return cur, nil
}

// unescapeToken reverses RFC 6901's "~1" -> "/" and "~0" -> "~" escaping.
func unescapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")

	return tok
}

// ParentAndKey splits pointer into the pointer to its parent container and
// the final segment (unescaped), for callers that need to know which
// property of which node a leaf pointer names.
func ParentAndKey(pointer string) (parent, key string) {
	idx := strings.LastIndex(pointer, "/")
	if idx < 0 {
		return "", ""
	}

	return pointer[:idx], unescapeToken(pointer[idx+1:])
}
