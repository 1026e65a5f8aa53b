/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023

import (
	"sort"
	"strings"

	"github.com/herculas/vc-suite-bbs/bbsapi"
	"github.com/herculas/vc-suite-bbs/canonical"
	"github.com/herculas/vc-suite-bbs/dataintegrity/models"
	"github.com/herculas/vc-suite-bbs/errs"
)

const (
	selectiveGroupName = "selective"
	combinedGroupName  = "combined"
)

// DeriveResult is the output of Derive: the disclosure proof's encoded
// proofValue plus the holder-side revealed projection of the original
// document.
type DeriveResult struct {
	ProofValue       string
	RevealedDocument map[string]interface{}
}

// Derive implements the holder-side Derivation Pipeline of §4.6. base is
// the issuer's parsed base proof value; its BBSHeader field already equals
// proofHash||mandatoryHash from issuance time, so the holder reuses it
// directly rather than recomputing either hash.
func Derive(processor *canonical.Processor, bbs bbsapi.Suite, doc map[string]interface{}, base *BaseProofValue,
	opts *models.ProofOptions) (*DeriveResult, error) {
	const op = "bbs2023.Derive"

	combinedPointers := append(append([]string{}, base.MandatoryPointers...), opts.SelectivePointers...)

	result, err := processor.CanonicalizeAndGroup(doc, base.HMACKey, map[string][]string{
		mandatoryGroupName: base.MandatoryPointers,
		selectiveGroupName: opts.SelectivePointers,
		combinedGroupName:  combinedPointers,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ProofDerivation, op, err)
	}

	mandatory := result.Groups[mandatoryGroupName]
	selective := result.Groups[selectiveGroupName]
	combined := result.Groups[combinedGroupName]

	mandatoryIndexes := positionsOf(mandatory.Matching.Indexes, combined.Matching.Indexes)
	selectiveIndexes := positionsOf(selective.Matching.Indexes, mandatory.NonMatching.Indexes)

	bbsMessages := nquadMessages(mandatory.NonMatching.OrderedNQuads())

	proof, pseudonym, lengthBBSMessages, err := proveByFeature(bbs, opts, base, base.BBSHeader, bbsMessages, selectiveIndexes)
	if err != nil {
		return nil, err
	}

	revealed, err := revealDocument(doc, combinedPointers)
	if err != nil {
		return nil, errs.Wrap(errs.ProofDerivation, op, err)
	}

	verifierLabelMap, err := verifierLabelMapFor(processor, combined.DeskolemizedNQuads, result.LabelMap)
	if err != nil {
		return nil, errs.Wrap(errs.ProofDerivation, op, err)
	}

	derived := &DerivedProofValue{
		BBSProof:           proof,
		LabelMap:           verifierLabelMap,
		MandatoryIndexes:   mandatoryIndexes,
		SelectiveIndexes:   selectiveIndexes,
		PresentationHeader: opts.PresentationHeader,
		Feature:            opts.Feature,
		NymDomain:          opts.NymDomain,
		Pseudonym:          pseudonym,
		LengthBBSMessages:  lengthBBSMessages,
	}

	proofValue, err := EncodeDerivedProofValue(derived)
	if err != nil {
		return nil, errs.Wrap(errs.ProofDerivation, op, err)
	}

	return &DeriveResult{ProofValue: proofValue, RevealedDocument: revealed}, nil
}

// positionsOf returns, for each index in subset (in ascending order), its
// zero-based position within enclosing (also ascending), the "index
// within the enclosing list, not within the full canonical list" rule of
// §4.6 step 4.
func positionsOf(subset, enclosing []int) []int {
	position := make(map[int]int, len(enclosing))

	for i, idx := range enclosing {
		position[idx] = i
	}

	sorted := append([]int{}, subset...)
	sort.Ints(sorted)

	out := make([]int, 0, len(sorted))

	for _, idx := range sorted {
		if p, ok := position[idx]; ok {
			out = append(out, p)
		}
	}

	return out
}

func proveByFeature(bbs bbsapi.Suite, opts *models.ProofOptions, base *BaseProofValue, bbsHeader []byte,
	bbsMessages [][]byte, selectiveIndexes []int) (proof, pseudonym []byte, lengthBBSMessages *int, err error) {
	const op = "bbs2023.proveByFeature"

	switch opts.Feature {
	case bbsapi.Baseline:
		proof, err = bbs.ProofGen(base.PublicKey, base.BBSSignature, bbsHeader, opts.PresentationHeader,
			bbsMessages, selectiveIndexes)
		if err != nil {
			return nil, nil, nil, errs.Wrap(errs.ProofDerivation, op, err)
		}

		return proof, nil, nil, nil
	case bbsapi.AnonymousHolderBinding:
		if len(opts.HolderSecret) == 0 || len(opts.ProverBlind) == 0 {
			return nil, nil, nil, errs.New(errs.ProofDerivation, op, "missing holderSecret or proverBlind")
		}

		proof, err = bbs.BlindProofGen(base.PublicKey, base.BBSSignature, bbsHeader, opts.PresentationHeader,
			bbsMessages, selectiveIndexes, opts.HolderSecret, opts.ProverBlind)
		if err != nil {
			return nil, nil, nil, errs.Wrap(errs.ProofDerivation, op, err)
		}

		length := len(bbsMessages)

		return proof, nil, &length, nil
	case bbsapi.Pseudonym, bbsapi.HolderBindingPseudonym:
		if len(opts.NymDomain) == 0 {
			return nil, nil, nil, errs.New(errs.ProofDerivation, op, "missing nymDomain for pseudonym feature")
		}

		var committed [][]byte
		if opts.Feature == bbsapi.HolderBindingPseudonym {
			if len(opts.HolderSecret) == 0 {
				return nil, nil, nil, errs.New(errs.ProofDerivation, op, "missing holderSecret for holder-binding pseudonym")
			}

			committed = [][]byte{opts.HolderSecret}
		}

		proof, pseudonym, err = bbs.NymProofGen(base.PublicKey, base.BBSSignature, bbsHeader, opts.PresentationHeader,
			bbsMessages, selectiveIndexes, opts.NymDomain, committed)
		if err != nil {
			return nil, nil, nil, errs.Wrap(errs.ProofDerivation, op, err)
		}

		length := len(bbsMessages)

		return proof, pseudonym, &length, nil
	default:
		return nil, nil, nil, errs.New(errs.ProofDerivation, op, "unsupported feature")
	}
}

// verifierLabelMapFor implements §4.6 step 8: recanonicalize the
// deskolemized combined N-Quads under plain RDFC-1.0 (no shuffling) to
// learn which verifier-side "c14nN" label each blank node will carry, then
// bridge that to the holder's own shuffled labelMap.
func verifierLabelMapFor(processor *canonical.Processor, deskolemizedNQuads []string,
	holderLabelMap canonical.LabelMap) (canonical.LabelMap, error) {
	verifierLines, err := processor.CanonicalLinesFromNQuads(canonical.JoinLines(deskolemizedNQuads))
	if err != nil {
		return nil, err
	}

	canonicalIDMap, err := canonicalIDMapping(deskolemizedNQuads, verifierLines)
	if err != nil {
		return nil, err
	}

	out := make(canonical.LabelMap, len(canonicalIDMap))

	for inputLabel, verifierLabel := range canonicalIDMap {
		if mapped, ok := holderLabelMap[inputLabel]; ok {
			out[verifierLabel] = mapped
		}
	}

	return out, nil
}

// canonicalIDMapping pairs each blank-node label appearing in inputLines
// with the label RDFC-1.0 assigns it when inputLines is recanonicalized as
// verifierLines, by position: both lists are produced from the same
// statement set by the same deterministic algorithm, so the Nth distinct
// blank node encountered in each must be the same node.
func canonicalIDMapping(inputLines, verifierLines []string) (map[string]string, error) {
	inputLabels := firstSeenBlankLabels(inputLines)
	verifierLabels := firstSeenBlankLabels(verifierLines)

	if len(inputLabels) != len(verifierLabels) {
		return nil, errs.New(errs.ProofDerivation, "bbs2023.canonicalIDMapping",
			"input and recanonicalized blank-node counts differ")
	}

	out := make(map[string]string, len(inputLabels))

	for i, label := range inputLabels {
		out[label] = verifierLabels[i]
	}

	return out, nil
}

func firstSeenBlankLabels(lines []string) []string {
	seen := map[string]bool{}

	var out []string

	for _, line := range lines {
		for _, tok := range strings.Fields(line) {
			if strings.HasPrefix(tok, "_:") {
				label := strings.TrimPrefix(tok, "_:")
				if !seen[label] {
					seen[label] = true

					out = append(out, label)
				}
			}
		}
	}

	return out
}

// revealDocument builds the holder's disclosed projection of doc: @context
// (carried for JSON-LD processability, not a disclosed statement), the "id"
// of every ancestor node crossed while reaching a pointer (without it the
// projection would re-skolemize every identified ancestor into a fresh
// blank node at verify time, shifting the canonical N-Quads the disclosure
// proof was computed against), and whatever the pointers themselves name,
// with every other field omitted. An ancestor's "type" is deliberately left
// out: unlike "id", which only changes how an already-selected statement's
// subject renders, copying "type" would add a statement that was never
// part of the group canonical.CanonicalizeAndGroup matched at Transform
// time, desynchronizing the revealed document from the proof it carries.
func revealDocument(doc map[string]interface{}, pointers []string) (map[string]interface{}, error) {
	out := map[string]interface{}{}

	if ctx, ok := doc["@context"]; ok {
		out["@context"] = ctx
	}

	copyNodeID(doc, out)

	for _, ptr := range pointers {
		value, err := canonical.ResolvePointer(doc, ptr)
		if err != nil {
			return nil, err
		}

		if err := copyAncestorIDs(doc, out, ptr); err != nil {
			return nil, err
		}

		if err := setAtPointer(out, ptr, value); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// copyNodeID copies src's JSON-LD node identity ("id") into dst, if present.
func copyNodeID(src, dst map[string]interface{}) {
	if id, ok := src["id"]; ok {
		dst["id"] = id
	}
}

// copyAncestorIDs walks pointer's path through doc, mirroring each
// intermediate node's "id" into the corresponding container of out,
// creating that container if setAtPointer has not yet done so. The pointer's
// terminal segment is left untouched here: its value is copied wholesale by
// the caller's own setAtPointer call, which already carries the leaf node's
// own identity along with the rest of its subtree.
func copyAncestorIDs(doc, out map[string]interface{}, pointer string) error {
	const op = "bbs2023.copyAncestorIDs"

	segments := strings.Split(strings.TrimPrefix(pointer, "/"), "/")

	curDoc := interface{}(doc)
	curOut := interface{}(out)

	for i, seg := range segments {
		if i == len(segments)-1 {
			break
		}

		docContainer, ok := curDoc.(map[string]interface{})
		if !ok {
			return errs.New(errs.ProofDerivation, op, "pointer descends through a non-object container")
		}

		next, ok := docContainer[seg]
		if !ok {
			return errs.New(errs.ProofDerivation, op, "pointer segment not found")
		}

		if _, isNode := next.(map[string]interface{}); !isNode {
			return errs.New(errs.ProofDerivation, op, "pointer descends through a non-object container")
		}

		outContainer, ok := curOut.(map[string]interface{})
		if !ok {
			return errs.New(errs.ProofDerivation, op, "pointer descends through a non-object container")
		}

		outNext, ok := outContainer[seg].(map[string]interface{})
		if !ok {
			outNext = map[string]interface{}{}
			outContainer[seg] = outNext
		}

		if nextNode, ok := next.(map[string]interface{}); ok {
			copyNodeID(nextNode, outNext)
		}

		curDoc = next
		curOut = outNext
	}

	return nil
}

// setAtPointer writes value into dst at pointer, creating intermediate
// map containers as needed. It descends only through maps; a path through
// any other value fails.
func setAtPointer(dst map[string]interface{}, pointer string, value interface{}) error {
	const op = "bbs2023.setAtPointer"

	if pointer == "" {
		return errs.New(errs.ProofDerivation, op, "cannot set the document root")
	}

	segments := strings.Split(strings.TrimPrefix(pointer, "/"), "/")

	cur := interface{}(dst)

	for i, seg := range segments {
		last := i == len(segments)-1

		switch container := cur.(type) {
		case map[string]interface{}:
			if last {
				container[seg] = value

				return nil
			}

			next, ok := container[seg]
			if !ok {
				next = map[string]interface{}{}
				container[seg] = next
			}

			cur = next
		default:
			return errs.New(errs.ProofDerivation, op, "pointer descends through a non-object container")
		}
	}

	return nil
}
