//go:build (amd64 || arm64) && gc && !purego

package aead

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// haveAESHardware reports whether the CPU has the AES and carry-less
// multiply instructions the accelerated AES-GCM path needs.
var haveAESHardware = runtime.GOOS == "darwin" ||
	(cpu.ARM64.HasAES && cpu.ARM64.HasPMULL) ||
	(cpu.X86.HasAES && cpu.X86.HasPCLMULQDQ)
