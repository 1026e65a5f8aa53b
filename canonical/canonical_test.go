/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package canonical_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herculas/vc-suite-bbs/canonical"
)

func sampleDocument() map[string]interface{} {
	return map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab": "https://example.org/vocab#",
		},
		"id":     "urn:uuid:11111111-1111-1111-1111-111111111111",
		"type":   "Credential",
		"issuer": "https://example.org/issuer",
		"credentialSubject": map[string]interface{}{
			"type": "Person",
			"name": "Alice",
		},
	}
}

func TestResolvePointer_RootAndSegments(t *testing.T) {
	doc := sampleDocument()

	root, err := canonical.ResolvePointer(doc, "")
	require.NoError(t, err)
	assert.Equal(t, doc, root)

	issuer, err := canonical.ResolvePointer(doc, "/issuer")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/issuer", issuer)

	name, err := canonical.ResolvePointer(doc, "/credentialSubject/name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestResolvePointer_MissingSegmentErrors(t *testing.T) {
	doc := sampleDocument()

	_, err := canonical.ResolvePointer(doc, "/nope")
	require.Error(t, err)
}

func TestParentAndKey(t *testing.T) {
	parent, key := canonical.ParentAndKey("/credentialSubject/name")
	assert.Equal(t, "/credentialSubject", parent)
	assert.Equal(t, "name", key)

	parent, key = canonical.ParentAndKey("/issuer")
	assert.Equal(t, "", parent)
	assert.Equal(t, "issuer", key)
}

func TestHMACLabelMapFactory_DeterministicPerKey(t *testing.T) {
	lines := []string{
		`_:c14n0 <https://example.org/vocab#name> "Alice" .`,
		`<urn:uuid:1> <https://example.org/vocab#subject> _:c14n0 .`,
	}

	factory := canonical.NewHMACLabelMapFactory([]byte("key-one"))

	m1 := factory(lines)
	m2 := factory(lines)
	assert.Equal(t, m1, m2)

	otherFactory := canonical.NewHMACLabelMapFactory([]byte("key-two"))
	m3 := otherFactory(lines)

	assert.Len(t, m1, 1)
	assert.Len(t, m3, 1)
	assert.Contains(t, m1["c14n0"], "b")
	assert.Contains(t, m3["c14n0"], "b")
}

func TestCompressDecompressLabelMap_RoundTrip(t *testing.T) {
	original := canonical.LabelMap{
		"c14n0": "b3",
		"c14n1": "b0",
		"c14n2": "b1",
	}

	compressed, err := canonical.CompressLabelMap(original)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 3, 1: 0, 2: 1}, compressed)

	decompressed := canonical.DecompressLabelMap(compressed)
	assert.Equal(t, original, decompressed)
}

func TestCompressLabelMap_RejectsBadPrefix(t *testing.T) {
	_, err := canonical.CompressLabelMap(canonical.LabelMap{"bad0": "b0"})
	require.Error(t, err)
}

func TestProcessor_CanonicalLines_DeterministicOrder(t *testing.T) {
	p := canonical.NewProcessor(nil)
	doc := sampleDocument()

	lines1, err := p.CanonicalLines(doc)
	require.NoError(t, err)

	lines2, err := p.CanonicalLines(doc)
	require.NoError(t, err)

	assert.Equal(t, lines1, lines2)
	assert.NotEmpty(t, lines1)
}

func TestProcessor_Skolemize_AssignsAddressableID(t *testing.T) {
	p := canonical.NewProcessor(nil)
	doc := sampleDocument()

	skolemized, err := p.Skolemize(doc)
	require.NoError(t, err)

	subject, ok := skolemized["credentialSubject"].(map[string]interface{})
	require.True(t, ok)

	id, ok := subject["id"].(string)
	require.True(t, ok)
	assert.Contains(t, id, "urn:bnid:")
}

var blankLabelPattern = regexp.MustCompile(`_:(c14n[0-9]+)`)

func TestProcessor_CanonicalLinesWithFactory_AppliesGivenLabelMap(t *testing.T) {
	p := canonical.NewProcessor(nil)
	doc := sampleDocument()

	plain, err := p.CanonicalLines(doc)
	require.NoError(t, err)

	want := canonical.LabelMap{}
	for _, line := range plain {
		for _, match := range blankLabelPattern.FindAllStringSubmatch(line, -1) {
			want[match[1]] = "b99"
		}
	}

	require.NotEmpty(t, want, "sample document must contain at least one blank node")

	relabeled, err := p.CanonicalLinesWithFactory(doc, func([]string) canonical.LabelMap { return want })
	require.NoError(t, err)

	joined := canonical.JoinLines(relabeled)
	assert.Contains(t, joined, "_:b99")
}

func TestProcessor_CanonicalLinesFromNQuads_MatchesDirectCanonicalization(t *testing.T) {
	p := canonical.NewProcessor(nil)
	doc := sampleDocument()

	lines, err := p.CanonicalLines(doc)
	require.NoError(t, err)

	fromNQuads, err := p.CanonicalLinesFromNQuads(canonical.JoinLines(lines))
	require.NoError(t, err)

	assert.Equal(t, lines, fromNQuads)
}

func TestProcessor_CanonicalLinesFromNQuads_RejectsMalformedInput(t *testing.T) {
	p := canonical.NewProcessor(nil)

	_, err := p.CanonicalLinesFromNQuads("not valid n-quads at all")
	require.Error(t, err)
}

func TestProcessor_CanonicalizeAndGroup_SeparatesMandatoryFromSelective(t *testing.T) {
	p := canonical.NewProcessor(nil)
	doc := sampleDocument()

	result, err := p.CanonicalizeAndGroup(doc, []byte("hmac-key"), map[string][]string{
		"mandatory": {"/issuer"},
		"selective": {"/credentialSubject"},
	})
	require.NoError(t, err)

	mandatory := result.Groups["mandatory"]
	selective := result.Groups["selective"]

	require.NotNil(t, mandatory)
	require.NotNil(t, selective)

	assert.NotEmpty(t, mandatory.Matching.Indexes)
	assert.NotEmpty(t, selective.Matching.Indexes)

	for idx, nquad := range mandatory.Matching.NQuads {
		assert.Contains(t, nquad, "issuer")
		assert.NotEmpty(t, idx >= 0)
	}

	for _, nquad := range selective.Matching.NQuads {
		assert.NotContains(t, nquad, "example.org/issuer")
	}

	lines, err := p.CanonicalLines(doc)
	require.NoError(t, err)
	assert.Equal(t, len(lines), len(mandatory.Matching.Indexes)+len(mandatory.NonMatching.Indexes))
	assert.NotEmpty(t, mandatory.DeskolemizedNQuads)
}

func TestProcessor_CanonicalizeAndGroup_MatchesAncestorLinkForNestedPointer(t *testing.T) {
	p := canonical.NewProcessor(nil)
	doc := sampleDocument()

	result, err := p.CanonicalizeAndGroup(doc, []byte("hmac-key"), map[string][]string{
		"selective": {"/credentialSubject/name"},
	})
	require.NoError(t, err)

	selective := result.Groups["selective"]
	require.NotNil(t, selective)

	foundLink := false

	for _, nquad := range selective.Matching.NQuads {
		if strings.Contains(nquad, "credentialSubject") {
			foundLink = true
		}
	}

	assert.True(t, foundLink,
		"selective group must match the root->credentialSubject containment statement a nested "+
			"pointer's reconstructed container reintroduces")
}
