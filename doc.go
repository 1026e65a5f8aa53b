/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package aries implements the bbs-2023 Data Integrity cryptographic
// suite: selective-disclosure proofs over JSON-LD verifiable credentials,
// built on BBS signatures over BLS12-381 G2.
//
// codec: Multikey and JWK encode/decode for the suite's key material.
// keypair: keypair lifecycle, generation, fingerprinting, export/import.
// canonical: JSON-LD canonicalization, blank-node shuffling, and the
// pointer-based grouping the issue/derive/verify pipelines share.
// bbsapi: the BBS primitive contract this suite delegates to.
// suite/bbs2023: the issue, derive, and verify pipelines and their CBOR
// envelope encoding.
// dataintegrity: the Signer/Holder/Verifier orchestration layer that
// dispatches AddProof, DeriveProof, and VerifyProof to the suite registered
// for a proof's cryptosuite.
package aries
