package main

import (
	"os"

	"github.com/bitshield-labs/bitshield/cmd/bitshieldsim/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
