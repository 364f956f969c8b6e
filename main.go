package main

import (
	"os"

	"github.com/mindungil/n2g/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
