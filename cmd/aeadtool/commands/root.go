// Package commands implements the aeadtool CLI: one-shot sealing and
// opening of messages under any of the built-in AEAD algorithms.
package commands

import "github.com/spf13/cobra"

func Execute() error {
	root := &cobra.Command{
		Use:          "aeadtool",
		Short:        "Seal and open messages with authenticated encryption",
		SilenceUsage: true,
	}
	root.AddCommand(algorithmsCmd(), sealCmd(), openCmd())
	return root.Execute()
}
