package main

import (
	"os"

	"github.com/tethrai/tethr-go/cmd/tethr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
