package aead

import "unsafe"

type overlapKind int

const (
	overlapNone overlapKind = iota
	// overlapExact: out and in begin at the same address.
	overlapExact
	// overlapLeftShift: out begins before in inside a shared buffer.
	overlapLeftShift
	// overlapForbidden: out begins strictly inside in's byte range,
	// so the input would be overwritten before it is read.
	overlapForbidden
)

// overlap classifies how the output buffer aliases the input buffer.
func overlap(out, in []byte) overlapKind {
	if len(out) == 0 || len(in) == 0 {
		return overlapNone
	}
	o := uintptr(unsafe.Pointer(&out[0]))
	i := uintptr(unsafe.Pointer(&in[0]))
	if o+uintptr(len(out)) <= i || i+uintptr(len(in)) <= o {
		return overlapNone
	}
	switch {
	case o == i:
		return overlapExact
	case o < i:
		return overlapLeftShift
	default:
		return overlapForbidden
	}
}
