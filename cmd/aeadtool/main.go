package main

import (
	"os"

	"github.com/sujankota/aead/cmd/aeadtool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
