/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package canonical implements the suite's JSON-LD canonicalization
// concerns: RDFC-1.0/URDNA2015 canonicalization via piprate/json-gold,
// blank-node skolemization for JSON-Pointer addressability (the
// urn:bnid: convention), HMAC-based pseudorandom label shuffling, and the
// pointer-driven canonical grouping the issue/derive/verify pipelines
// share.
package canonical

import (
	"fmt"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/herculas/vc-suite-bbs/errs"
)

const (
	nquadsFormat = "application/n-quads"
	urdna2015    = "URDNA2015"
)

// Processor wraps a json-gold JSON-LD processor with the document loader
// this suite's pipelines inject, mirroring
// dataintegrity/suite/ecdsa2019's use of processor.Default().
type Processor struct {
	loader ld.DocumentLoader
}

// NewProcessor builds a Processor. A nil loader falls back to json-gold's
// built-in HTTP-fetching default loader.
func NewProcessor(loader ld.DocumentLoader) *Processor {
	if loader == nil {
		loader = ld.NewDefaultDocumentLoader(nil)
	}

	return &Processor{loader: loader}
}

func (p *Processor) options() *ld.JsonLdOptions {
	opts := ld.NewJsonLdOptions("")
	opts.ProcessingMode = ld.JsonLd_1_1
	opts.Algorithm = urdna2015
	opts.Format = nquadsFormat
	opts.ProduceGeneralizedRdf = true
	opts.DocumentLoader = p.loader

	return opts
}

// CanonicalLines canonicalizes doc under RDFC-1.0/URDNA2015 and returns
// the non-empty N-Quads lines in the algorithm's own sorted order. This
// order, not any later relabeling, is what this suite treats as the
// canonical statement index.
func (p *Processor) CanonicalLines(doc map[string]interface{}) ([]string, error) {
	const op = "canonical.CanonicalLines"

	proc := ld.NewJsonLdProcessor()

	view, err := proc.Normalize(doc, p.options())
	if err != nil {
		return nil, errs.Wrap(errs.ProofTransformationErr, op, err)
	}

	result, ok := view.(string)
	if !ok {
		return nil, errs.New(errs.ProofTransformationErr, op, "normalize did not return a string view")
	}

	return splitNonEmpty(result), nil
}

// CanonicalLinesWithFactory canonicalizes doc under RDFC-1.0/URDNA2015 and
// then relabels every blank node according to factory's LabelMap, the same
// two-step shape CanonicalizeAndGroup uses internally for HMAC shuffling,
// generalized to any LabelMapFactory so the verification pipeline can
// reuse it with a factory that simply replays a previously-parsed
// DerivedProofValue.LabelMap instead of deriving one from an HMAC key.
func (p *Processor) CanonicalLinesWithFactory(doc map[string]interface{}, factory LabelMapFactory) ([]string, error) {
	lines, err := p.CanonicalLines(doc)
	if err != nil {
		return nil, err
	}

	labelMap := factory(lines)

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = relabel(line, labelMap)
	}

	return out, nil
}

// CanonicalLinesFromNQuads re-canonicalizes an already-flat N-Quads
// document under RDFC-1.0/URDNA2015, skipping the JSON-LD ToRDF step: it
// sets the processor's InputFormat so json-gold treats nquads as already
// being RDF rather than a JSON-LD document to expand. Used by the
// derivation pipeline's §4.6 step 8 to learn the verifier-side label a
// blank node will carry once the holder's shuffled labels are stripped.
func (p *Processor) CanonicalLinesFromNQuads(nquads string) ([]string, error) {
	const op = "canonical.CanonicalLinesFromNQuads"

	proc := ld.NewJsonLdProcessor()
	opts := p.options()
	opts.InputFormat = nquadsFormat

	view, err := proc.Normalize(nquads, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ProofTransformationErr, op, err)
	}

	result, ok := view.(string)
	if !ok {
		return nil, errs.New(errs.ProofTransformationErr, op, "normalize did not return a string view")
	}

	return splitNonEmpty(result), nil
}

// Skolemize gives every blank node in doc a stable, JSON-Pointer
// addressable "id": it canonicalizes doc, rewrites each line's first
// "_:c14nN" occurrence into the IRI "<urn:bnid:_:c14nN>" (the same
// convention aries-framework-go's ld/processor.go uses under
// WithFrameBlankNodes), parses the rewritten N-Quads back to JSON-LD, and
// compacts the result against doc's own @context.
func (p *Processor) Skolemize(doc map[string]interface{}) (map[string]interface{}, error) {
	const op = "canonical.Skolemize"

	lines, err := p.CanonicalLines(doc)
	if err != nil {
		return nil, err
	}

	for i, line := range lines {
		lines[i] = skolemizeLine(line)
	}

	proc := ld.NewJsonLdProcessor()
	opts := p.options()

	fromRDFDoc, err := proc.FromRDF(strings.Join(lines, "\n"), opts)
	if err != nil {
		return nil, errs.Wrap(errs.ProofTransformationErr, op, err)
	}

	compacted, err := proc.Compact(fromRDFDoc, map[string]interface{}{"@context": doc["@context"]}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ProofTransformationErr, op, err)
	}

	compacted["@context"] = doc["@context"]

	return compacted, nil
}

// skolemizeLine rewrites the first "_:c14nN" token in line into
// "<urn:bnid:_:c14nN>", leaving the rest of the line untouched. A single
// quad line with two distinct blank nodes (one as subject, one as object)
// only has its first occurrence rewritten, the same limitation
// ld/processor.go's TransformBlankNode carries, inherited rather than
// silently fixed so behavior stays predictable across both codebases'
// single-blank-node-per-statement common case.
func skolemizeLine(line string) string {
	prefixIndex := strings.Index(line, "_:c14n")
	if prefixIndex < 0 {
		return line
	}

	sepIndex := strings.Index(line[prefixIndex:], " ")
	if sepIndex < 0 {
		sepIndex = len(line)
	} else {
		sepIndex += prefixIndex
	}

	prefix := line[:prefixIndex]
	blankNode := line[prefixIndex:sepIndex]
	suffix := line[sepIndex:]

	return fmt.Sprintf("%s<urn:bnid:%s>%s", prefix, blankNode, suffix)
}

// JoinLines renders lines back into the UTF-8 canonical form the suite
// hashes: each N-Quads line terminated by a newline, in the order given.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

func splitNonEmpty(msg string) []string {
	rows := strings.Split(msg, "\n")

	out := make([]string, 0, len(rows))

	for _, r := range rows {
		if strings.TrimSpace(r) != "" {
			out = append(out, r)
		}
	}

	return out
}
