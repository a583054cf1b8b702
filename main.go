package main

import (
	"fmt"
	"os"

	"github.com/NamanBalaji/filemat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "filemat: %v\n", err)
		os.Exit(1)
	}
}
