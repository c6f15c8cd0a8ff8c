package main

import (
	"fmt"
	"os"

	"github.com/89534449434inside-eng/ai-platform/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
