/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package canonical

import (
	"fmt"
	"strings"

	"github.com/herculas/vc-suite-bbs/errs"
)

// Partition is an ordered mapping from a statement's global canonical
// index to its N-Quad string, per spec.md §3's TransformedDocument shape.
type Partition struct {
	Indexes []int
	NQuads  map[int]string
}

// OrderedNQuads returns the partition's N-Quad strings in ascending
// statement-index order.
func (p Partition) OrderedNQuads() []string {
	out := make([]string, len(p.Indexes))

	for i, idx := range p.Indexes {
		out[i] = p.NQuads[idx]
	}

	return out
}

// Group is one named partition of the canonical statement list: the
// statements reachable from the group's JSON Pointers (Matching), the
// remainder (NonMatching), and the matching subset rendered back in plain
// blank-node form (DeskolemizedNQuads) for a later, unshuffled
// recanonicalization (spec.md §4.6 step 8's canonicalIdMap derivation).
type Group struct {
	Matching           Partition
	NonMatching        Partition
	DeskolemizedNQuads []string
}

// GroupResult is the output of CanonicalizeAndGroup: the named groups
// sharing one canonical statement list, plus the LabelMap that produced
// every NQuad string's blank-node labels.
type GroupResult struct {
	Groups   map[string]*Group
	LabelMap LabelMap
}

// CanonicalizeAndGroup implements spec.md §4.3. It canonicalizes doc once,
// derives the shuffled-label rendering of every statement via hmacKey, and
// for each named pointer set in groupDefinitions partitions the canonical
// statement list into matching/nonMatching. Every returned Group shares
// the same global index space, so later pipeline stages can compose
// "index within group X" with "index within group Y" without
// re-canonicalizing.
func (p *Processor) CanonicalizeAndGroup(doc map[string]interface{}, hmacKey []byte,
	groupDefinitions map[string][]string) (*GroupResult, error) {
	const op = "canonical.CanonicalizeAndGroup"

	refLines, err := p.CanonicalLines(doc)
	if err != nil {
		return nil, err
	}

	pointerDoc, err := p.Skolemize(doc)
	if err != nil {
		return nil, err
	}

	factory := NewHMACLabelMapFactory(hmacKey)
	labelMap := factory(refLines)

	shuffled := make([]string, len(refLines))
	for i, line := range refLines {
		shuffled[i] = relabel(line, labelMap)
	}

	groups := make(map[string]*Group, len(groupDefinitions))

	for name, pointers := range groupDefinitions {
		reqs := make([]requirement, 0, len(pointers))

		for _, ptr := range pointers {
			r, err := p.requirementsForPointer(pointerDoc, ptr)
			if err != nil {
				return nil, errs.Wrap(errs.ProofTransformationErr, op, err)
			}

			reqs = append(reqs, r...)

			ancestorReqs, err := p.ancestorLinkRequirements(pointerDoc, ptr)
			if err != nil {
				return nil, errs.Wrap(errs.ProofTransformationErr, op, err)
			}

			reqs = append(reqs, ancestorReqs...)
		}

		matching := Partition{NQuads: map[int]string{}}
		nonMatching := Partition{NQuads: map[int]string{}}
		var deskolemized []string

		for i, line := range refLines {
			if lineMatchesAny(line, reqs) {
				matching.Indexes = append(matching.Indexes, i)
				matching.NQuads[i] = shuffled[i]
				deskolemized = append(deskolemized, line)
			} else {
				nonMatching.Indexes = append(nonMatching.Indexes, i)
				nonMatching.NQuads[i] = shuffled[i]
			}
		}

		groups[name] = &Group{Matching: matching, NonMatching: nonMatching, DeskolemizedNQuads: deskolemized}
	}

	return &GroupResult{Groups: groups, LabelMap: labelMap}, nil
}

// requirement is a disjunct of CanonicalizeAndGroup's matching predicate:
// a line matches if its subject is in Subjects and (Filter == "" or the
// line's text contains Filter).
type requirement struct {
	subjects map[string]bool
	filter   string
}

func lineMatchesAny(line string, reqs []requirement) bool {
	subj := extractSubject(line)

	for _, r := range reqs {
		if !r.subjects[subj] {
			continue
		}

		if r.filter == "" || strings.Contains(line, r.filter) {
			return true
		}
	}

	return false
}

// requirementsForPointer resolves pointer against pointerDoc and builds
// the requirement(s) that select the RDF statements it denotes: the whole
// subtree's node identities for an object/array-of-objects pointer, or the
// owning node plus a value filter for a scalar leaf.
func (p *Processor) requirementsForPointer(pointerDoc map[string]interface{}, pointer string) ([]requirement, error) {
	value, err := ResolvePointer(pointerDoc, pointer)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case map[string]interface{}:
		subjects := map[string]bool{}
		collectNodeIDs(v, subjects)

		return []requirement{{subjects: subjects}}, nil
	case []interface{}:
		return requirementsForArray(pointerDoc, pointer, v)
	default:
		return p.requirementForLeaf(pointerDoc, pointer, v)
	}
}

// ancestorLinkRequirements returns the requirements matching the
// containment statement linking each node pointer crosses to the next, from
// the document root down to pointer's terminal value. bbs2023.revealDocument
// rebuilds this same path as nested containers in its disclosed projection,
// which recreates each of these link statements regardless of whether any
// pointer's own requirement already covers them; without a matching
// requirement here, that recreated statement would fall outside the group
// a disclosure proof was computed against and desynchronize the two.
func (p *Processor) ancestorLinkRequirements(pointerDoc map[string]interface{}, pointer string) ([]requirement, error) {
	const op = "canonical.ancestorLinkRequirements"

	if pointer == "" {
		return nil, nil
	}

	tokens := strings.Split(pointer[1:], "/")

	var reqs []requirement

	cur := interface{}(pointerDoc)

	for _, raw := range tokens {
		tok := unescapeToken(raw)

		node, ok := cur.(map[string]interface{})
		if !ok {
			return reqs, nil
		}

		id := nodeID(node)

		next, ok := node[tok]
		if !ok {
			return nil, errs.New(errs.ProofTransformationErr, op, "pointer segment not found: "+tok)
		}

		if nextNode, isNode := next.(map[string]interface{}); isNode && id != "" {
			if nextID := nodeID(nextNode); nextID != "" {
				reqs = append(reqs, requirement{
					subjects: map[string]bool{idToSubjectToken(id): true},
					filter:   idToSubjectToken(nextID),
				})
			}
		}

		cur = next
	}

	return reqs, nil
}

func requirementsForArray(pointerDoc map[string]interface{}, pointer string, arr []interface{}) ([]requirement, error) {
	subjects := map[string]bool{}

	allObjects := true

	for _, el := range arr {
		if m, ok := el.(map[string]interface{}); ok {
			collectNodeIDs(m, subjects)
		} else {
			allObjects = false
		}
	}

	if allObjects && len(arr) > 0 {
		return []requirement{{subjects: subjects}}, nil
	}

	parentPointer, _ := ParentAndKey(pointer)

	parentID, err := ownerID(pointerDoc, parentPointer)
	if err != nil {
		return nil, err
	}

	reqs := make([]requirement, 0, len(arr))

	for _, el := range arr {
		for _, f := range encodeValueFilters(el) {
			reqs = append(reqs, requirement{subjects: map[string]bool{parentID: true}, filter: f})
		}
	}

	return reqs, nil
}

func (p *Processor) requirementForLeaf(pointerDoc map[string]interface{}, pointer string,
	value interface{}) ([]requirement, error) {
	parentPointer, _ := ParentAndKey(pointer)

	parentID, err := ownerID(pointerDoc, parentPointer)
	if err != nil {
		return nil, err
	}

	filters := encodeValueFilters(value)
	reqs := make([]requirement, 0, len(filters))

	for _, f := range filters {
		reqs = append(reqs, requirement{subjects: map[string]bool{parentID: true}, filter: f})
	}

	return reqs, nil
}

// ownerID resolves parentPointer to a node and returns its subject token.
func ownerID(pointerDoc map[string]interface{}, parentPointer string) (string, error) {
	parentVal, err := ResolvePointer(pointerDoc, parentPointer)
	if err != nil {
		return "", err
	}

	parentNode, ok := parentVal.(map[string]interface{})
	if !ok {
		return "", errs.New(errs.ProofTransformationErr, "canonical.ownerID", "pointer's parent is not a node")
	}

	id := nodeID(parentNode)
	if id == "" {
		return "", errs.New(errs.ProofTransformationErr, "canonical.ownerID", "pointer's parent node has no id")
	}

	return idToSubjectToken(id), nil
}

// collectNodeIDs walks v (a skolemized node) and every object it contains,
// directly or through arrays, recording each node's subject token.
func collectNodeIDs(v interface{}, out map[string]bool) {
	switch node := v.(type) {
	case map[string]interface{}:
		if id := nodeID(node); id != "" {
			out[idToSubjectToken(id)] = true
		}

		for _, child := range node {
			collectNodeIDs(child, out)
		}
	case []interface{}:
		for _, el := range node {
			collectNodeIDs(el, out)
		}
	}
}

func nodeID(node map[string]interface{}) string {
	if id, ok := node["id"].(string); ok {
		return id
	}

	if id, ok := node["@id"].(string); ok {
		return id
	}

	return ""
}

// idToSubjectToken converts a skolemized node's JSON-LD id into the
// literal N-Quads subject token it corresponds to in the unskolemized
// canonical statement list: urn:bnid:_:c14nN decodes back to the blank
// node token "_:c14nN"; any other id is an ordinary IRI.
func idToSubjectToken(id string) string {
	const skolemPrefix = "urn:bnid:"

	if strings.HasPrefix(id, skolemPrefix) {
		return strings.TrimPrefix(id, skolemPrefix)
	}

	return "<" + id + ">"
}

// extractSubject returns the subject token (the text up to the first
// unescaped space) of a single N-Quads line.
func extractSubject(line string) string {
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return line
	}

	return line[:idx]
}

// encodeValueFilters renders the candidate N-Quads object-position
// substrings a scalar value could appear as, covering the common JSON-LD
// term encodings (quoted literal, bare IRI) this suite's pointer-matching
// treats as equivalent for the purpose of locating the statement that
// carries value.
func encodeValueFilters(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return []string{fmt.Sprintf("%q", v), "<" + v + ">"}
	case bool:
		return []string{fmt.Sprintf("\"%t\"", v)}
	case float64:
		return []string{fmt.Sprintf("\"%v\"", formatNumber(v))}
	case nil:
		return nil
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}

	return fmt.Sprintf("%v", v)
}
