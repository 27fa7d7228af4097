package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sujankota/aead"
)

func algorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the built-in AEAD algorithms and their parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range aead.Algorithms() {
				alg, _ := aead.Lookup(name)
				fmt.Printf("%-20s key=%d nonce=%d tag=%d/%d overhead=%d\n",
					alg.Name(), alg.KeyLength(), alg.NonceLength(),
					alg.DefaultTagLength(), alg.MaxTagLength(), alg.MaxOverhead())
			}
			return nil
		},
	}
}
