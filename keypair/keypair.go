/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keypair implements the lifecycle of a BLS12-381 G2 keypair used
// by the bbs-2023 suite: generation from a seed via an injected BBS keygen
// collaborator, fingerprinting, and export to / import from the Multikey
// and JWK verification-method shapes defined in codec.
package keypair

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/herculas/vc-suite-bbs/bbsapi"
	"github.com/herculas/vc-suite-bbs/codec"
	"github.com/herculas/vc-suite-bbs/errs"
	"github.com/herculas/vc-suite-bbs/internal/logutil"
)

var log = logutil.New("keypair")

// seedLength is the minimum and default length of the seed passed to the
// BBS keygen collaborator.
const seedLength = 32

// Keypair is a BLS12-381 G2 identity: an optional id/controller pair and
// the key material belonging to it. Either or both of PrivateKey and
// PublicKey may be absent until Initialize or Import populates them.
type Keypair struct {
	ID         string
	Controller string
	Expires    *time.Time
	Revoked    *time.Time

	PrivateKey *codec.KeyMaterial
	PublicKey  *codec.KeyMaterial
}

// Initialize generates fresh key material via kg, seeded by seed. If seed
// is nil, seedLength cryptographically-random bytes are drawn; if seed is
// present but shorter than seedLength, Initialize fails with
// errs.InvalidLength. When kp.Controller is set and kp.ID is empty, ID is
// set to "controller#" + the Multikey fingerprint of the new public key.
func (kp *Keypair) Initialize(kg bbsapi.KeyGenerator, seed []byte) error {
	const op = "keypair.Initialize"

	if seed == nil {
		seed = make([]byte, seedLength)

		if _, err := rand.Read(seed); err != nil {
			return errs.Wrap(errs.InvalidKeypairContent, op, err)
		}
	} else if len(seed) < seedLength {
		return errs.New(errs.InvalidLength, op, "seed shorter than the minimum 32 bytes")
	}

	pub, priv, err := kg.GenerateKeyPair(seed)
	if err != nil {
		return errs.Wrap(errs.InvalidKeypairContent, op, err)
	}

	pubMaterial, err := codec.NewKeyMaterial(codec.Public, pub)
	if err != nil {
		return err
	}

	privMaterial, err := codec.NewKeyMaterial(codec.Private, priv)
	if err != nil {
		return err
	}

	kp.PublicKey = pubMaterial
	kp.PrivateKey = privMaterial

	if kp.Controller != "" && kp.ID == "" {
		fingerprint, err := kp.GenerateFingerprint()
		if err != nil {
			return err
		}

		kp.ID = kp.Controller + "#" + fingerprint
	}

	log.Debugf("initialized keypair id=%s controller=%s", kp.ID, kp.Controller)

	return nil
}

// GenerateFingerprint returns the Multikey multibase encoding of kp's
// public key.
func (kp *Keypair) GenerateFingerprint() (string, error) {
	const op = "keypair.GenerateFingerprint"

	if kp.PublicKey == nil {
		return "", errs.New(errs.InvalidKeypairContent, op, "keypair has no public key material")
	}

	return codec.MaterialToMultibase(kp.PublicKey)
}

// VerifyFingerprint reports whether s equals kp.GenerateFingerprint().
func (kp *Keypair) VerifyFingerprint(s string) (bool, error) {
	fingerprint, err := kp.GenerateFingerprint()
	if err != nil {
		return false, err
	}

	return s == fingerprint, nil
}

// ExportOptions configures Export. The zero value exports the public key
// as a Multikey.
type ExportOptions struct {
	Flag codec.Flag
	Type string
}

// Export renders kp as a VerificationMethod document. Defaults to
// exporting the public key (Flag=codec.Public) as Multikey
// (Type=TypeMultikey) when ExportOptions is the zero value.
func (kp *Keypair) Export(opts ExportOptions) (*VerificationMethod, error) {
	const op = "keypair.Export"

	if opts.Type == "" {
		opts.Type = TypeMultikey
	}

	if kp.ID == "" || kp.Controller == "" {
		return nil, errs.New(errs.KeypairExportError, op, "keypair is missing id or controller")
	}

	if !strings.HasPrefix(kp.ID, kp.Controller) {
		return nil, errs.New(errs.KeypairExportError, op, "id does not begin with controller")
	}

	material := kp.PublicKey
	if opts.Flag == codec.Private {
		material = kp.PrivateKey
	}

	if material == nil {
		return nil, errs.New(errs.KeypairExportError, op, "requested key material is absent")
	}

	vm := &VerificationMethod{
		ID:         kp.ID,
		Controller: kp.Controller,
		Type:       opts.Type,
	}

	if kp.Expires != nil {
		vm.Expires = kp.Expires.Format(DateTimeFormat)
	}

	if kp.Revoked != nil {
		vm.Revoked = kp.Revoked.Format(DateTimeFormat)
	}

	switch opts.Type {
	case TypeMultikey:
		if err := exportMultikey(kp, opts.Flag, vm); err != nil {
			return nil, err
		}
	case TypeJsonWebKey:
		if err := exportJWK(kp, opts.Flag, vm); err != nil {
			return nil, err
		}
	default:
		return nil, errs.New(errs.KeypairExportError, op, "unknown verification method type")
	}

	return vm, nil
}

func exportMultikey(kp *Keypair, flag codec.Flag, vm *VerificationMethod) error {
	if flag == codec.Private && kp.PrivateKey != nil {
		encoded, err := codec.MaterialToMultibase(kp.PrivateKey)
		if err != nil {
			return err
		}

		vm.SecretKeyMultibase = encoded
	}

	if kp.PublicKey != nil {
		encoded, err := codec.MaterialToMultibase(kp.PublicKey)
		if err != nil {
			return err
		}

		vm.PublicKeyMultibase = encoded
	}

	return nil
}

func exportJWK(kp *Keypair, flag codec.Flag, vm *VerificationMethod) error {
	const op = "keypair.exportJWK"

	if flag == codec.Private && kp.PrivateKey != nil {
		jwk, err := codec.MaterialToJWK(kp.PrivateKey)
		if err != nil {
			return err
		}

		vm.SecretKeyJwk = jwk
	}

	if kp.PublicKey != nil {
		jwk, err := codec.MaterialToJWK(kp.PublicKey)
		if err != nil {
			return err
		}

		vm.PublicKeyJwk = jwk

		thumbprint, err := codec.JWKThumbprint(jwk)
		if err != nil {
			return errs.Wrap(errs.KeypairExportError, op, err)
		}

		vm.ID = vm.Controller + "#" + thumbprint
	}

	return nil
}

// ImportOptions configures Import's optional validations.
type ImportOptions struct {
	CheckContext bool
	CheckExpired bool
	CheckRevoked bool
}

// Import parses doc into a Keypair, applying whichever of
// ImportOptions' checks are enabled. now is the reference time used to
// evaluate CheckExpired/CheckRevoked.
func Import(doc *VerificationMethod, opts ImportOptions, now time.Time) (*Keypair, error) {
	const op = "keypair.Import"

	if opts.CheckContext && !contextAllowed(doc.Context) {
		return nil, errs.New(errs.InvalidKeypairContent, op, "verification method @context is not in the known allowlist")
	}

	if opts.CheckExpired && doc.Expires != "" {
		expires, err := time.Parse(DateTimeFormat, doc.Expires)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidKeypairContent, op, err)
		}

		if now.After(expires) {
			return nil, errs.New(errs.KeypairExpiredError, op, "verification method has expired")
		}
	}

	if opts.CheckRevoked && doc.Revoked != "" {
		revoked, err := time.Parse(DateTimeFormat, doc.Revoked)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidKeypairContent, op, err)
		}

		if now.After(revoked) {
			return nil, errs.New(errs.KeypairExpiredError, op, "verification method has been revoked")
		}
	}

	kp := &Keypair{
		ID:         doc.ID,
		Controller: doc.Controller,
	}

	switch doc.Type {
	case TypeMultikey:
		if err := importMultikey(doc, kp); err != nil {
			return nil, err
		}
	case TypeJsonWebKey:
		if err := importJWK(doc, kp); err != nil {
			return nil, err
		}
	default:
		return nil, errs.New(errs.KeypairImportError, op, fmt.Sprintf("unknown verification method type %q", doc.Type))
	}

	if kp.PublicKey == nil && kp.PrivateKey == nil {
		return nil, errs.New(errs.InvalidKeypairContent, op, "verification method carries no key material")
	}

	return kp, nil
}

func importMultikey(doc *VerificationMethod, kp *Keypair) error {
	if doc.PublicKeyMultibase != "" {
		material, err := codec.MultibaseToMaterial(doc.PublicKeyMultibase, codec.Public)
		if err != nil {
			return err
		}

		kp.PublicKey = material
	}

	if doc.SecretKeyMultibase != "" {
		material, err := codec.MultibaseToMaterial(doc.SecretKeyMultibase, codec.Private)
		if err != nil {
			return err
		}

		kp.PrivateKey = material
	}

	return nil
}

func importJWK(doc *VerificationMethod, kp *Keypair) error {
	if doc.PublicKeyJwk != nil {
		material, err := codec.JWKToMaterial(doc.PublicKeyJwk, codec.Public)
		if err != nil {
			return err
		}

		kp.PublicKey = material
	}

	if doc.SecretKeyJwk != nil {
		material, err := codec.JWKToMaterial(doc.SecretKeyJwk, codec.Private)
		if err != nil {
			return err
		}

		kp.PrivateKey = material
	}

	return nil
}

func contextAllowed(ctx interface{}) bool {
	switch v := ctx.(type) {
	case string:
		return contains(KnownContexts, v)
	case []interface{}:
		if len(v) == 0 {
			return false
		}

		last, ok := v[len(v)-1].(string)

		return ok && contains(KnownContexts, last)
	case []string:
		if len(v) == 0 {
			return false
		}

		return contains(KnownContexts, v[len(v)-1])
	default:
		return false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}

	return false
}
