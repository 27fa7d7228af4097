// Package aead provides a uniform interface for authenticated
// encryption with additional data (AEAD).
//
// An AEAD couples confidentiality and integrity in a single primitive.
// A Context binds one of the built-in algorithms to a key and can then
// seal and open individual messages. Each message takes a unique,
// per-message nonce and, optionally, additional data which is
// authenticated but not included in the ciphertext.
//
// The nonce must be unique for all messages sealed under the same key.
// This is critically important: nonce reuse may completely undermine
// the security of the AEAD. Nonces may be predictable and public, so
// long as they are unique. This package cannot detect reuse and does
// not try to.
//
// Seal and Open are atomic. An entire message is processed in a single
// call, and a failing call writes nothing to the output. Large
// messages must be split by the caller, minding nonce uniqueness and
// the possibility of chunks being dropped or reordered in transit.
//
// Authentication tags may be truncated at context initialization.
// Truncated tags increase an attacker's chance of creating a valid
// forgery, possibly by much more than the naive exponential estimate.
package aead

import (
	"errors"
	"sort"
)

// Errors returned by context initialization, Seal and Open. All of
// them are recoverable: the context remains valid and reusable after
// any failed call. Use errors.Is to test returned errors against
// these sentinels.
var (
	// ErrKeyLengthMismatch means the key does not have the exact
	// length the algorithm requires.
	ErrKeyLengthMismatch = errors.New("aead: key length mismatch")
	// ErrTagLengthInvalid means the requested tag length is outside
	// the range the algorithm supports.
	ErrTagLengthInvalid = errors.New("aead: invalid tag length")
	// ErrNonceLengthMismatch means the nonce does not have the exact
	// length the algorithm requires.
	ErrNonceLengthMismatch = errors.New("aead: nonce length mismatch")
	// ErrBufferTooSmall means the output buffer cannot hold the
	// complete result. Nothing was written.
	ErrBufferTooSmall = errors.New("aead: output buffer too small")
	// ErrAuthenticationFailed means the tag, ciphertext and
	// additional data are inconsistent. Nothing was written.
	ErrAuthenticationFailed = errors.New("aead: message authentication failure")
	// ErrAliasingViolation means the output buffer begins strictly
	// inside the input's byte range. See the aliasing rules on Seal.
	ErrAliasingViolation = errors.New("aead: invalid buffer overlap")
	// ErrImplementationUnavailable means the requested implementation
	// cannot serve this context on the current CPU or configuration.
	ErrImplementationUnavailable = errors.New("aead: implementation unavailable")
)

const (
	// MaxOverhead is the largest number of bytes any built-in
	// algorithm adds to a plaintext when sealing.
	MaxOverhead = 16

	// DefaultTagLength may be passed as the tag length to NewContext
	// to select the algorithm's default tag length.
	DefaultTagLength = 0
)

// An Implementation selects among interchangeable realizations of one
// algorithm at context initialization. The zero value is ImplAuto.
type Implementation int

const (
	// ImplAuto picks the best implementation available, probing CPU
	// capabilities at startup.
	ImplAuto Implementation = iota
	// ImplGeneric forces the portable implementation where the
	// algorithm has one. AES-GCM dispatches inside the runtime and
	// is unaffected by this selector.
	ImplGeneric
	// ImplHardware requires the accelerated implementation and fails
	// context initialization if it cannot be used.
	ImplHardware
)

// An Algorithm describes one AEAD algorithm: its fixed parameters and
// the constructor for per-key derived state. Algorithms are immutable
// and shared. The built-in instances outlive every Context built from
// them, and their parameters can be queried before any key exists,
// e.g. to size buffers.
type Algorithm struct {
	name          string
	keyLen        int
	nonceLen      int
	defaultTagLen int
	// minTagLen is the shortest truncated tag the backing primitive
	// can verify. Not part of the public surface; requests below it
	// fail with ErrTagLengthInvalid.
	minTagLen   int
	maxTagLen   int
	maxOverhead int

	newState func(key []byte, tagLen int, impl Implementation) (aeadState, error)
}

// Name returns the registry name of the algorithm.
func (a *Algorithm) Name() string { return a.name }

// KeyLength returns the length in bytes of the keys used by the
// algorithm.
func (a *Algorithm) KeyLength() int { return a.keyLen }

// NonceLength returns the length in bytes of the per-message nonce.
func (a *Algorithm) NonceLength() int { return a.nonceLen }

// DefaultTagLength returns the tag length in bytes used when a context
// is initialized with DefaultTagLength.
func (a *Algorithm) DefaultTagLength() int { return a.defaultTagLen }

// MaxTagLength returns the largest tag length in bytes that may be
// requested at context initialization.
//
// Algorithms may also bound truncation from below: AES-GCM verifies
// tags of 12 bytes or more, ChaCha20-Poly1305 down to 1 byte.
// Requests outside the supported range fail with ErrTagLengthInvalid.
func (a *Algorithm) MaxTagLength() int { return a.maxTagLen }

// MaxOverhead returns the maximum number of bytes sealing adds to a
// plaintext.
func (a *Algorithm) MaxOverhead() int { return a.maxOverhead }

// aeadState is the per-key derived state behind a Context: the
// function table Seal and Open forward to after validation. A state is
// read-only once constructed and safe for concurrent use.
type aeadState interface {
	// seal writes ciphertext followed by the (possibly truncated)
	// tag into out, which has length len(plaintext) plus the tag
	// length. out and plaintext either do not overlap or share the
	// same start.
	seal(out, nonce, plaintext, ad []byte)
	// open verifies in, laid out as ciphertext followed by the tag,
	// against ad and on success writes the plaintext into out, which
	// has length len(in) minus the tag length and does not alias in.
	// Tag comparison is constant time.
	open(out, nonce, in, ad []byte) bool
	// cleanup wipes whatever key material the state can reach.
	cleanup()
}

var (
	aes128GCM = &Algorithm{
		name:          "AES-128-GCM",
		keyLen:        16,
		nonceLen:      12,
		defaultTagLen: 16,
		minTagLen:     gcmMinTagLength,
		maxTagLen:     16,
		maxOverhead:   16,
		newState:      newGCMState,
	}
	aes256GCM = &Algorithm{
		name:          "AES-256-GCM",
		keyLen:        32,
		nonceLen:      12,
		defaultTagLen: 16,
		minTagLen:     gcmMinTagLength,
		maxTagLen:     16,
		maxOverhead:   16,
		newState:      newGCMState,
	}
	chaPoly = &Algorithm{
		name:          "ChaCha20-Poly1305",
		keyLen:        32,
		nonceLen:      12,
		defaultTagLen: 16,
		minTagLen:     1,
		maxTagLen:     16,
		maxOverhead:   16,
		newState:      newChaChaState,
	}
)

// AES128GCM returns the descriptor for AES-128 in Galois/Counter Mode.
func AES128GCM() *Algorithm { return aes128GCM }

// AES256GCM returns the descriptor for AES-256 in Galois/Counter Mode.
func AES256GCM() *Algorithm { return aes256GCM }

// ChaCha20Poly1305 returns the descriptor for the AEAD built from
// ChaCha20 and Poly1305.
func ChaCha20Poly1305() *Algorithm { return chaPoly }

// registry maps algorithm names to their descriptors. It is populated
// here and never written again, so lookups need no synchronization.
var registry = map[string]*Algorithm{
	aes128GCM.name: aes128GCM,
	aes256GCM.name: aes256GCM,
	chaPoly.name:   chaPoly,
}

// Lookup returns the built-in algorithm registered under name.
func Lookup(name string) (*Algorithm, bool) {
	a, ok := registry[name]
	return a, ok
}

// Algorithms returns the names of the built-in algorithms in sorted
// order.
func Algorithms() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
