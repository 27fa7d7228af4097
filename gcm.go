package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// gcmMinTagLength is the shortest truncated tag the backing GCM
// implementation verifies.
const gcmMinTagLength = 12

// gcmState is the per-key state shared by the AES-128-GCM and
// AES-256-GCM descriptors. The expanded key schedule lives inside the
// cipher.AEAD, which keeps no per-message state and is safe for
// concurrent use.
type gcmState struct {
	aead cipher.AEAD
}

func newGCMState(key []byte, tagLen int, impl Implementation) (aeadState, error) {
	if impl == ImplHardware && !haveAESHardware {
		return nil, fmt.Errorf("%w: CPU lacks AES and carry-less multiply instructions", ErrImplementationUnavailable)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	a, err := cipher.NewGCMWithTagSize(block, tagLen)
	if err != nil {
		return nil, err
	}
	return &gcmState{aead: a}, nil
}

func (g *gcmState) seal(out, nonce, plaintext, ad []byte) {
	g.aead.Seal(out[:0], nonce, plaintext, ad)
}

func (g *gcmState) open(out, nonce, in, ad []byte) bool {
	_, err := g.aead.Open(out[:0], nonce, in, ad)
	return err == nil
}

func (g *gcmState) cleanup() {
	// The key schedule is buried in the stdlib cipher and cannot be
	// zeroed from here; dropping the reference is the best we can do.
	g.aead = nil
}
