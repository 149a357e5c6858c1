package main

import (
	"os"

	"github.com/abhisek/tinysteps/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
