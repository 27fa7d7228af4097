//go:build !((amd64 || arm64) && gc) || purego

package aead

var haveAESHardware = false
