package main

import (
	"os"

	"github.com/f3rmion/sbq/cmd/sbq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
