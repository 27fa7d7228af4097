package aead

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/ericlagergren/subtle"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/poly1305"
)

func newChaChaState(key []byte, tagLen int, impl Implementation) (aeadState, error) {
	switch impl {
	case ImplAuto, ImplHardware:
		if tagLen == chacha20poly1305.Overhead {
			a, err := chacha20poly1305.New(key)
			if err != nil {
				return nil, err
			}
			return &chaChaState{aead: a}, nil
		}
		// The optimized AEAD emits full tags only.
		if impl == ImplHardware {
			return nil, fmt.Errorf("%w: truncated tags need the portable implementation", ErrImplementationUnavailable)
		}
	}
	s := &chaChaGenericState{tagLen: tagLen}
	copy(s.key[:], key)
	return s, nil
}

// chaChaState backs full-tag contexts with the AEAD from x/crypto,
// which carries the vetted assembly for this construction.
type chaChaState struct {
	aead cipher.AEAD
}

func (s *chaChaState) seal(out, nonce, plaintext, ad []byte) {
	s.aead.Seal(out[:0], nonce, plaintext, ad)
}

func (s *chaChaState) open(out, nonce, in, ad []byte) bool {
	_, err := s.aead.Open(out[:0], nonce, in, ad)
	return err == nil
}

func (s *chaChaState) cleanup() {
	s.aead = nil
}

// chaChaGenericState is the portable composition of the ChaCha20
// stream cipher with the Poly1305 one-time authenticator, per RFC
// 8439: the Poly1305 key is the start of the keystream block at
// counter zero, the message is encrypted starting at counter one, and
// the authenticator covers ad, ciphertext, zero padding to 16-byte
// boundaries and both lengths. Unlike the optimized AEAD it serves
// truncated tags.
type chaChaGenericState struct {
	key    [chacha20.KeySize]byte
	tagLen int
}

func (s *chaChaGenericState) seal(out, nonce, plaintext, ad []byte) {
	stream, err := chacha20.NewUnauthenticatedCipher(s.key[:], nonce)
	if err != nil {
		// Key and nonce lengths were validated by the dispatcher.
		panic(err)
	}
	var polyKey [32]byte
	stream.XORKeyStream(polyKey[:], polyKey[:])
	stream.SetCounter(1) // skip the rest of the first block

	ciphertext := out[:len(plaintext)]
	stream.XORKeyStream(ciphertext, plaintext)

	var tag [poly1305.TagSize]byte
	authenticate(&tag, &polyKey, ciphertext, ad)
	copy(out[len(plaintext):], tag[:s.tagLen])

	wipe(polyKey[:])
}

func (s *chaChaGenericState) open(out, nonce, in, ad []byte) bool {
	tag := in[len(in)-s.tagLen:]
	ciphertext := in[:len(in)-s.tagLen]

	stream, err := chacha20.NewUnauthenticatedCipher(s.key[:], nonce)
	if err != nil {
		panic(err)
	}
	var polyKey [32]byte
	stream.XORKeyStream(polyKey[:], polyKey[:])
	stream.SetCounter(1)

	var want [poly1305.TagSize]byte
	authenticate(&want, &polyKey, ciphertext, ad)
	wipe(polyKey[:])
	if subtle.ConstantTimeCompare(want[:s.tagLen], tag) != 1 {
		return false
	}
	stream.XORKeyStream(out, ciphertext)
	return true
}

func (s *chaChaGenericState) cleanup() {
	wipe(s.key[:])
}

func authenticate(tag *[poly1305.TagSize]byte, polyKey *[32]byte, ciphertext, ad []byte) {
	mac := poly1305.New(polyKey)
	writeWithPadding(mac, ad)
	writeWithPadding(mac, ciphertext)
	writeUint64(mac, len(ad))
	writeUint64(mac, len(ciphertext))
	mac.Sum(tag[:0])
}

func writeWithPadding(p *poly1305.MAC, b []byte) {
	p.Write(b)
	if rem := len(b) % 16; rem != 0 {
		var buf [16]byte
		p.Write(buf[:16-rem])
	}
}

func writeUint64(p *poly1305.MAC, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	p.Write(buf[:])
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
