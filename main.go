package main

import (
	"os"

	"github.com/grovetools/hypr-sessions/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
