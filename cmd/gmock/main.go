package main

import (
	"fmt"
	"os"

	"limsmock/cmd/gmock/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
