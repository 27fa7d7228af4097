package aead

import "fmt"

// A Context binds an Algorithm to one key and one resolved tag length.
//
// After initialization the context's state is read-only, so any number
// of Seal and Open calls may run concurrently on the same context.
// Initialization and Cleanup require exclusive access: complete
// NewContext before publishing the context to other goroutines, and
// make sure no other goroutine holds a reference when Cleanup runs.
type Context struct {
	alg    *Algorithm
	tagLen int
	state  aeadState
}

// NewContext initializes a context for alg with key, performing any
// precomputation needed (e.g. expanding the key schedule). The best
// available implementation is selected automatically.
//
// tagLen selects a possibly truncated authentication tag length in
// bytes. Passing DefaultTagLength (zero) selects the algorithm's
// default. A nonzero tagLen must not exceed alg.MaxTagLength() and
// must not fall below the shortest truncation the algorithm supports,
// or NewContext fails with ErrTagLengthInvalid.
//
// The context must be released with Cleanup when no longer needed.
func NewContext(alg *Algorithm, key []byte, tagLen int) (*Context, error) {
	return NewContextWithImplementation(alg, key, tagLen, ImplAuto)
}

// NewContextWithImplementation is NewContext with an explicit choice
// among the algorithm's interchangeable implementations.
func NewContextWithImplementation(alg *Algorithm, key []byte, tagLen int, impl Implementation) (*Context, error) {
	if len(key) != alg.keyLen {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrKeyLengthMismatch, len(key), alg.keyLen)
	}
	if tagLen == DefaultTagLength {
		tagLen = alg.defaultTagLen
	}
	if tagLen < alg.minTagLen || tagLen > alg.maxTagLen {
		return nil, fmt.Errorf("%w: %d", ErrTagLengthInvalid, tagLen)
	}
	state, err := alg.newState(key, tagLen, impl)
	if err != nil {
		return nil, err
	}
	return &Context{alg: alg, tagLen: tagLen, state: state}, nil
}

// Algorithm returns the descriptor the context was initialized with.
func (c *Context) Algorithm() *Algorithm { return c.alg }

// TagLength returns the context's resolved tag length in bytes. It is
// never zero.
func (c *Context) TagLength() int { return c.tagLen }

// NonceSize returns the length in bytes of the per-message nonce.
func (c *Context) NonceSize() int { return c.alg.nonceLen }

// Overhead returns the number of bytes Seal adds to a plaintext. It
// equals TagLength for every built-in algorithm.
func (c *Context) Overhead() int { return c.tagLen }

// Seal encrypts and authenticates plaintext, authenticates ad, and
// writes the ciphertext followed by the authentication tag to out,
// returning the number of bytes written: len(plaintext) plus the
// context's tag length. len(out) is the output capacity; if it cannot
// hold the complete result, Seal fails with ErrBufferTooSmall.
//
// len(nonce) must equal NonceSize. ad may be empty.
//
// out and plaintext may be the same buffer, or out may begin at a
// lower address within the same buffer to shift the data left. out
// must never begin strictly inside plaintext's byte range; such a call
// fails with ErrAliasingViolation before anything is executed.
//
// Seal never produces partial output: a failing call writes nothing
// and returns zero.
func (c *Context) Seal(out, nonce, plaintext, ad []byte) (int, error) {
	state := c.state
	if state == nil {
		panic("aead: use of Context after Cleanup")
	}
	if len(nonce) != c.alg.nonceLen {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrNonceLengthMismatch, len(nonce), c.alg.nonceLen)
	}
	n := len(plaintext) + c.tagLen
	if len(out) < n {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrBufferTooSmall, n, len(out))
	}
	out = out[:n]
	switch overlap(out, plaintext) {
	case overlapNone, overlapExact:
	case overlapLeftShift:
		// The backing primitives insist on exact or no overlap, so
		// route the shift through a call-local copy.
		tmp := make([]byte, len(plaintext))
		copy(tmp, plaintext)
		plaintext = tmp
	case overlapForbidden:
		return 0, ErrAliasingViolation
	}
	state.seal(out, nonce, plaintext, ad)
	return n, nil
}

// Open verifies the authentication tag at the end of ciphertext over
// the leading bytes and ad, decrypts, and writes the plaintext to out,
// returning the number of bytes written: len(ciphertext) minus the
// context's tag length.
//
// Open rejects the call with ErrBufferTooSmall before touching any
// key-derived state if len(out) < len(ciphertext). Any inconsistency
// between tag, ciphertext and ad fails with ErrAuthenticationFailed.
// Plaintext is surfaced only after verification succeeds; a failing
// call writes nothing, even when out aliases ciphertext.
//
// The aliasing rules are the same as for Seal.
func (c *Context) Open(out, nonce, ciphertext, ad []byte) (int, error) {
	state := c.state
	if state == nil {
		panic("aead: use of Context after Cleanup")
	}
	if len(nonce) != c.alg.nonceLen {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrNonceLengthMismatch, len(nonce), c.alg.nonceLen)
	}
	if len(out) < len(ciphertext) {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrBufferTooSmall, len(ciphertext), len(out))
	}
	if len(ciphertext) < c.tagLen {
		return 0, ErrAuthenticationFailed
	}
	n := len(ciphertext) - c.tagLen
	if overlap(out[:n], ciphertext) == overlapForbidden {
		return 0, ErrAliasingViolation
	}
	// Decrypt into a call-local buffer and copy out only once the tag
	// has verified, so a forgery leaves out untouched.
	tmp := make([]byte, n)
	if !state.open(tmp, nonce, ciphertext, ad) {
		return 0, ErrAuthenticationFailed
	}
	copy(out, tmp)
	return n, nil
}

// Cleanup wipes the key-derived state and releases it. It must be
// called exactly once per successfully initialized context; calling it
// twice, or using the context afterwards, panics. Cleanup must not run
// concurrently with any other call on the same context.
func (c *Context) Cleanup() {
	if c.state == nil {
		panic("aead: Context.Cleanup called twice")
	}
	c.state.cleanup()
	c.state = nil
}
