/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package canonical

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/herculas/vc-suite-bbs/errs"
)

// c14nLabelPattern finds every standard RDFC-1.0 blank-node label in a
// canonical N-Quads line or document.
var c14nLabelPattern = regexp.MustCompile(`_:c14n[0-9]+`)

// LabelMap maps a canonical blank-node label ("c14nN", without the "_:"
// prefix) to its pseudonymized counterpart ("bK").
type LabelMap map[string]string

// LabelMapFactory assigns pseudonymized labels to the distinct "c14nN"
// labels found in canonicalLines, deterministically with respect to
// whatever key it closes over.
type LabelMapFactory func(canonicalLines []string) LabelMap

// NewHMACLabelMapFactory returns a LabelMapFactory that assigns labels by
// sorting the distinct canonical labels by HMAC-SHA-256(hmacKey, label)
// (byte-lexicographic) and numbering them bK in that order: deterministic
// per hmacKey, pseudorandom in appearance to anyone without it.
func NewHMACLabelMapFactory(hmacKey []byte) LabelMapFactory {
	return func(canonicalLines []string) LabelMap {
		labels := distinctC14NLabels(canonicalLines)

		type scored struct {
			label string
			score []byte
		}

		scoredLabels := make([]scored, len(labels))

		for i, label := range labels {
			mac := hmac.New(sha256.New, hmacKey)
			mac.Write([]byte(label))
			scoredLabels[i] = scored{label: label, score: mac.Sum(nil)}
		}

		sort.Slice(scoredLabels, func(i, j int) bool {
			return strings.Compare(string(scoredLabels[i].score), string(scoredLabels[j].score)) < 0
		})

		out := make(LabelMap, len(scoredLabels))

		for k, s := range scoredLabels {
			out[s.label] = "b" + strconv.Itoa(k)
		}

		return out
	}
}

// distinctC14NLabels returns the distinct "c14nN" labels (without "_:")
// appearing across lines, in first-seen order.
func distinctC14NLabels(lines []string) []string {
	seen := make(map[string]bool)

	var out []string

	for _, line := range lines {
		for _, m := range c14nLabelPattern.FindAllString(line, -1) {
			label := strings.TrimPrefix(m, "_:")
			if !seen[label] {
				seen[label] = true

				out = append(out, label)
			}
		}
	}

	return out
}

// relabel rewrites every "_:c14nN" occurrence in line according to m,
// leaving labels with no entry in m untouched.
func relabel(line string, m LabelMap) string {
	return c14nLabelPattern.ReplaceAllStringFunc(line, func(match string) string {
		label := strings.TrimPrefix(match, "_:")

		mapped, ok := m[label]
		if !ok {
			return match
		}

		return "_:" + mapped
	})
}

// CompressLabelMap implements spec.md §4.4: for each (k,v) in m, k must
// begin with "c14n" and v with "b"; the numeric suffixes are parsed and
// returned as an int->int map.
func CompressLabelMap(m LabelMap) (map[int]int, error) {
	const op = "canonical.CompressLabelMap"

	out := make(map[int]int, len(m))

	for k, v := range m {
		ki, err := parsePrefixedInt(k, "c14n")
		if err != nil {
			return nil, errs.Wrap(errs.ProofGenerationError, op, err)
		}

		vi, err := parsePrefixedInt(v, "b")
		if err != nil {
			return nil, errs.Wrap(errs.ProofGenerationError, op, err)
		}

		out[ki] = vi
	}

	return out, nil
}

// DecompressLabelMap inverts CompressLabelMap, re-prefixing keys with
// "c14n" and values with "b".
func DecompressLabelMap(m map[int]int) LabelMap {
	out := make(LabelMap, len(m))

	for k, v := range m {
		out["c14n"+strconv.Itoa(k)] = "b" + strconv.Itoa(v)
	}

	return out
}

func parsePrefixedInt(s, prefix string) (int, error) {
	if !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("label %q missing expected prefix %q", s, prefix)
	}

	return strconv.Atoi(strings.TrimPrefix(s, prefix))
}
