/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package errs defines the structured error kinds surfaced by the bbs-2023
// data integrity suite.
package errs

import "fmt"

// Code identifies the kind of failure that occurred, independent of the
// operation that produced it.
type Code string

// Error kinds surfaced by the core, per the suite's error handling design.
const (
	InvalidKeypairLength   Code = "INVALID_KEYPAIR_LENGTH"
	InvalidKeypairContent  Code = "INVALID_KEYPAIR_CONTENT"
	DecodingError          Code = "DECODING_ERROR"
	KeypairExpiredError    Code = "KEYPAIR_EXPIRED_ERROR"
	KeypairExportError     Code = "KEYPAIR_EXPORT_ERROR"
	KeypairImportError     Code = "KEYPAIR_IMPORT_ERROR"
	ProofTransformationErr Code = "PROOF_TRANSFORMATION_ERROR"
	ProofGenerationError   Code = "PROOF_GENERATION_ERROR"
	ProofDerivation        Code = "PROOF_DERIVATION_ERROR"
	ProofVerificationError Code = "PROOF_VERIFICATION_ERROR"
	InvalidVerificationMtd Code = "INVALID_VERIFICATION_METHOD"

	// UnsupportedFlag is returned by the codec when the suite has no
	// multicodec/JWK prefix declared for the requested key-material flag.
	UnsupportedFlag Code = "UNSUPPORTED_FLAG"
	// InvalidLength is returned when a keygen seed is shorter than the
	// required 32 bytes. Key material whose length does not match its flag
	// is reported as InvalidKeypairLength.
	InvalidLength Code = "INVALID_LENGTH"
)

// Error is a structured failure carrying a fixed code, the operation that
// raised it, and a human-readable message. No error produced by this suite
// is ever swallowed; callers receive an *Error (wrapped where appropriate)
// from every fallible function.
type Error struct {
	Code Code
	Op   string
	Msg  string
	Err  error
}

// New creates an *Error rooted at op with the given code and message.
func New(code Code, op, msg string) *Error {
	return &Error{Code: code, Op: op, Msg: msg}
}

// Wrap creates an *Error rooted at op that carries an underlying cause.
func Wrap(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Msg: err.Error(), Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}

	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Msg)
}

// Unwrap supports errors.Is / errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, errs.New(code, "", "")) style matching on Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Code == e.Code
}
