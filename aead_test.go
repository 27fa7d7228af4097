package aead

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"golang.org/x/crypto/chacha20poly1305"
)

func unhex(s string) []byte {
	p, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return p
}

// TestAlgorithmParameters checks the fixed parameters of the built-in
// algorithms.
func TestAlgorithmParameters(t *testing.T) {
	for _, tc := range []struct {
		alg    *Algorithm
		name   string
		keyLen int
	}{
		{AES128GCM(), "AES-128-GCM", 16},
		{AES256GCM(), "AES-256-GCM", 32},
		{ChaCha20Poly1305(), "ChaCha20-Poly1305", 32},
	} {
		a := tc.alg
		if a.Name() != tc.name {
			t.Fatalf("expected %q, got %q", tc.name, a.Name())
		}
		if a.KeyLength() != tc.keyLen {
			t.Fatalf("%s: expected key length %d, got %d", tc.name, tc.keyLen, a.KeyLength())
		}
		if a.NonceLength() != 12 {
			t.Fatalf("%s: expected nonce length 12, got %d", tc.name, a.NonceLength())
		}
		if a.DefaultTagLength() != 16 || a.MaxTagLength() != 16 {
			t.Fatalf("%s: expected default/max tag 16/16, got %d/%d",
				tc.name, a.DefaultTagLength(), a.MaxTagLength())
		}
		if a.MaxOverhead() != 16 || a.MaxOverhead() > MaxOverhead {
			t.Fatalf("%s: bad max overhead %d", tc.name, a.MaxOverhead())
		}
	}

	// The ChaCha20-Poly1305 descriptor and its state constructor
	// must agree with the x/crypto constants they are built from.
	a := ChaCha20Poly1305()
	if a.KeyLength() != chacha20poly1305.KeySize ||
		a.NonceLength() != chacha20poly1305.NonceSize ||
		a.MaxTagLength() != chacha20poly1305.Overhead ||
		a.DefaultTagLength() != chacha20poly1305.Overhead {
		t.Fatal("descriptor disagrees with the x/crypto constants")
	}
}

// TestLookup checks the name registry.
func TestLookup(t *testing.T) {
	names := Algorithms()
	if len(names) != 3 {
		t.Fatalf("expected 3 algorithms, got %d", len(names))
	}
	for _, name := range names {
		a, ok := Lookup(name)
		if !ok || a.Name() != name {
			t.Fatalf("lookup of %q failed", name)
		}
	}
	if _, ok := Lookup("AES-192-GCM"); ok {
		t.Fatal("lookup of unregistered algorithm succeeded")
	}
}

// TestVectors checks Seal and Open against known-answer vectors: the
// NIST GCM examples and the vector from RFC 8439, section 2.8.2.
func TestVectors(t *testing.T) {
	for _, tc := range []struct {
		name           string
		alg            *Algorithm
		key            []byte
		nonce          []byte
		additionalData []byte
		plaintext      []byte
		sealed         []byte // ciphertext || tag
	}{
		{
			name:   "AES-128-GCM/empty",
			alg:    AES128GCM(),
			key:    make([]byte, 16),
			nonce:  make([]byte, 12),
			sealed: unhex("58e2fccefa7e3061367f1d57a4e7455a"),
		},
		{
			name:      "AES-128-GCM/one-block",
			alg:       AES128GCM(),
			key:       make([]byte, 16),
			nonce:     make([]byte, 12),
			plaintext: make([]byte, 16),
			sealed:    unhex("0388dace60b6a392f328c2b971b2fe78ab6e47d42cec13bdf53a67b21257bddf"),
		},
		{
			name:   "AES-256-GCM/empty",
			alg:    AES256GCM(),
			key:    make([]byte, 32),
			nonce:  make([]byte, 12),
			sealed: unhex("530f8afbc74536b9a963b4f1c4cb738b"),
		},
		{
			name:      "AES-256-GCM/one-block",
			alg:       AES256GCM(),
			key:       make([]byte, 32),
			nonce:     make([]byte, 12),
			plaintext: make([]byte, 16),
			sealed:    unhex("cea7403d4d606b6e074ec5d3baf39d18d0d1c8a799996bf0265b98b5d48ab919"),
		},
		{
			name:           "ChaCha20-Poly1305/rfc8439",
			alg:            ChaCha20Poly1305(),
			key:            unhex("808182838485868788898a8b8c8d8e8f909192939495969798999a9b9c9d9e9f"),
			nonce:          unhex("070000004041424344454647"),
			additionalData: unhex("50515253c0c1c2c3c4c5c6c7"),
			plaintext:      []byte("Ladies and Gentlemen of the class of '99: If I could offer you only one tip for the future, sunscreen would be it."),
			sealed: unhex("d31a8d34648e60db7b86afbc53ef7ec2" +
				"a4aded51296e08fea9e2b5a736ee62d6" +
				"3dbea45e8ca9671282fafb69da92728b" +
				"1a71de0a9e060b2905d6a5b67ecd3b36" +
				"92ddbd7f2d778b8c9803aee328091b58" +
				"fab324e4fad675945585808b4831d7bc" +
				"3ff4def08e4b7a9de576d26586cec64b" +
				"6116" +
				"1ae10b594f09e26a7e902ecbd0600691"),
		},
	} {
		for _, impl := range []Implementation{ImplAuto, ImplGeneric} {
			ctx, err := NewContextWithImplementation(tc.alg, tc.key, DefaultTagLength, impl)
			if err != nil {
				t.Fatal(err)
			}
			out := make([]byte, len(tc.plaintext)+ctx.Overhead())
			n, err := ctx.Seal(out, tc.nonce, tc.plaintext, tc.additionalData)
			if err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			if !bytes.Equal(out[:n], tc.sealed) {
				t.Fatalf("%s (impl %d): expected %#x, got %#x", tc.name, impl, tc.sealed, out[:n])
			}
			pt := make([]byte, len(tc.sealed))
			n, err = ctx.Open(pt, tc.nonce, tc.sealed, tc.additionalData)
			if err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			if !bytes.Equal(pt[:n], tc.plaintext) {
				t.Fatalf("%s (impl %d): expected %#x, got %#x", tc.name, impl, tc.plaintext, pt[:n])
			}
			ctx.Cleanup()
		}
	}
}

// TestSealHello seals the five bytes "hello" under an all-zero
// ChaCha20-Poly1305 key and nonce and checks the documented output
// shape: 21 sealed bytes, a clean round trip, and rejection when the
// additional data changes.
func TestSealHello(t *testing.T) {
	ctx, err := NewContext(ChaCha20Poly1305(), make([]byte, 32), DefaultTagLength)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Cleanup()
	nonce := make([]byte, 12)

	sealed := make([]byte, 64)
	n, err := ctx.Seal(sealed, nonce, []byte("hello"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5+16 {
		t.Fatalf("expected 21 sealed bytes, got %d", n)
	}

	pt := make([]byte, n)
	m, err := ctx.Open(pt, nonce, sealed[:n], nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(pt[:m]) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", pt[:m])
	}

	if _, err := ctx.Open(pt, nonce, sealed[:n], []byte("x")); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

// TestCrossAlgorithm checks that the AES variants with different keys
// never produce equal ciphertexts for the same plaintext, guarding
// against a broken or pass-through cipher.
func TestCrossAlgorithm(t *testing.T) {
	plaintext := bytes.Repeat([]byte{0x42}, 32)
	nonce := make([]byte, 12)

	ctx128, err := NewContext(AES128GCM(), unhex("000102030405060708090a0b0c0d0e0f"), DefaultTagLength)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx128.Cleanup()
	ctx256, err := NewContext(AES256GCM(), unhex("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"), DefaultTagLength)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx256.Cleanup()

	out128 := make([]byte, len(plaintext)+16)
	out256 := make([]byte, len(plaintext)+16)
	if _, err := ctx128.Seal(out128, nonce, plaintext, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx256.Seal(out256, nonce, plaintext, nil); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(out128[:len(plaintext)], out256[:len(plaintext)]) {
		t.Fatal("AES-128-GCM and AES-256-GCM produced identical ciphertexts")
	}
	if bytes.Equal(out128[:len(plaintext)], plaintext) {
		t.Fatal("ciphertext equals plaintext")
	}
}

// TestNewContextErrors checks the init-time validation.
func TestNewContextErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		alg    *Algorithm
		keyLen int
		tagLen int
		err    error
	}{
		{"short key", AES128GCM(), 15, DefaultTagLength, ErrKeyLengthMismatch},
		{"long key", AES128GCM(), 32, DefaultTagLength, ErrKeyLengthMismatch},
		{"empty key", ChaCha20Poly1305(), 0, DefaultTagLength, ErrKeyLengthMismatch},
		{"tag too long", AES128GCM(), 16, 17, ErrTagLengthInvalid},
		{"tag too long", ChaCha20Poly1305(), 32, 17, ErrTagLengthInvalid},
		{"tag below GCM minimum", AES256GCM(), 32, 8, ErrTagLengthInvalid},
		{"default tag", AES128GCM(), 16, DefaultTagLength, nil},
		{"truncated GCM tag", AES128GCM(), 16, 12, nil},
		{"truncated ChaCha tag", ChaCha20Poly1305(), 32, 8, nil},
	} {
		ctx, err := NewContext(tc.alg, make([]byte, tc.keyLen), tc.tagLen)
		if !errors.Is(err, tc.err) {
			t.Fatalf("%s (%s): expected %v, got %v", tc.name, tc.alg.Name(), tc.err, err)
		}
		if err == nil {
			ctx.Cleanup()
		}
	}
}

// TestDefaultTagLength checks that the zero sentinel resolves to 16
// for every built-in algorithm before it is stored.
func TestDefaultTagLength(t *testing.T) {
	for _, alg := range []*Algorithm{AES128GCM(), AES256GCM(), ChaCha20Poly1305()} {
		ctx, err := NewContext(alg, make([]byte, alg.KeyLength()), DefaultTagLength)
		if err != nil {
			t.Fatal(err)
		}
		if ctx.TagLength() != 16 {
			t.Fatalf("%s: expected resolved tag length 16, got %d", alg.Name(), ctx.TagLength())
		}
		if ctx.Overhead() != ctx.TagLength() {
			t.Fatalf("%s: overhead %d != tag length %d", alg.Name(), ctx.Overhead(), ctx.TagLength())
		}
		ctx.Cleanup()
	}
}

// TestImplementationSelection checks the explicit implementation
// selectors.
func TestImplementationSelection(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, 12)
	plaintext := []byte("interchangeable")

	// Both ChaCha20-Poly1305 realizations must agree bit for bit.
	var outs [2][]byte
	for i, impl := range []Implementation{ImplAuto, ImplGeneric} {
		ctx, err := NewContextWithImplementation(ChaCha20Poly1305(), key, DefaultTagLength, impl)
		if err != nil {
			t.Fatal(err)
		}
		outs[i] = make([]byte, len(plaintext)+ctx.Overhead())
		if _, err := ctx.Seal(outs[i], nonce, plaintext, nil); err != nil {
			t.Fatal(err)
		}
		ctx.Cleanup()
	}
	if !bytes.Equal(outs[0], outs[1]) {
		t.Fatalf("implementations disagree: %#x vs %#x", outs[0], outs[1])
	}

	// The optimized AEAD cannot emit truncated tags.
	if _, err := NewContextWithImplementation(ChaCha20Poly1305(), key, 8, ImplHardware); !errors.Is(err, ErrImplementationUnavailable) {
		t.Fatalf("expected ErrImplementationUnavailable, got %v", err)
	}

	// Hardware AES-GCM depends on the capability probe.
	ctx, err := NewContextWithImplementation(AES128GCM(), make([]byte, 16), DefaultTagLength, ImplHardware)
	if haveAESHardware && err != nil {
		t.Fatal(err)
	}
	if !haveAESHardware && !errors.Is(err, ErrImplementationUnavailable) {
		t.Fatalf("expected ErrImplementationUnavailable, got %v", err)
	}
	if err == nil {
		ctx.Cleanup()
	}
}
