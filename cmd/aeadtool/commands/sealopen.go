package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sujankota/aead"
)

// cryptoFlags holds the flags shared by seal and open.
type cryptoFlags struct {
	algorithm string
	keyHex    string
	nonceHex  string
	adHex     string
	tagLen    int
	in        string
	out       string
}

func (f *cryptoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "AES-128-GCM", "algorithm name (see 'aeadtool algorithms')")
	cmd.Flags().StringVar(&f.keyHex, "key", "", "key, hex encoded")
	cmd.Flags().StringVar(&f.nonceHex, "nonce", "", "per-message nonce, hex encoded; must never repeat under one key")
	cmd.Flags().StringVar(&f.adHex, "ad", "", "additional authenticated data, hex encoded")
	cmd.Flags().IntVar(&f.tagLen, "tag-length", aead.DefaultTagLength, "tag length in bytes (0 selects the algorithm default)")
	cmd.Flags().StringVar(&f.in, "in", "", "input file (default stdin)")
	cmd.Flags().StringVar(&f.out, "out", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("nonce")
}

// context builds an AEAD context plus the decoded nonce and additional
// data from the flags.
func (f *cryptoFlags) context() (*aead.Context, []byte, []byte, error) {
	alg, ok := aead.Lookup(f.algorithm)
	if !ok {
		return nil, nil, nil, fmt.Errorf("unknown algorithm %q (see 'aeadtool algorithms')", f.algorithm)
	}
	key, err := hex.DecodeString(f.keyHex)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bad --key: %w", err)
	}
	nonce, err := hex.DecodeString(f.nonceHex)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bad --nonce: %w", err)
	}
	ad, err := hex.DecodeString(f.adHex)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bad --ad: %w", err)
	}
	ctx, err := aead.NewContext(alg, key, f.tagLen)
	if err != nil {
		return nil, nil, nil, err
	}
	return ctx, nonce, ad, nil
}

func (f *cryptoFlags) readInput() ([]byte, error) {
	if f.in == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(f.in)
}

func (f *cryptoFlags) writeOutput(b []byte) error {
	if f.out == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(f.out, b, 0o600)
}

func sealCmd() *cobra.Command {
	var f cryptoFlags
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt and authenticate a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, nonce, ad, err := f.context()
			if err != nil {
				return err
			}
			defer ctx.Cleanup()
			msg, err := f.readInput()
			if err != nil {
				return err
			}
			out := make([]byte, len(msg)+ctx.Overhead())
			n, err := ctx.Seal(out, nonce, msg, ad)
			if err != nil {
				return err
			}
			return f.writeOutput(out[:n])
		},
	}
	f.register(cmd)
	return cmd
}

func openCmd() *cobra.Command {
	var f cryptoFlags
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Verify and decrypt a sealed message",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, nonce, ad, err := f.context()
			if err != nil {
				return err
			}
			defer ctx.Cleanup()
			msg, err := f.readInput()
			if err != nil {
				return err
			}
			out := make([]byte, len(msg))
			n, err := ctx.Open(out, nonce, msg, ad)
			if err != nil {
				return err
			}
			return f.writeOutput(out[:n])
		},
	}
	f.register(cmd)
	return cmd
}
