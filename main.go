package main

import (
	"os"

	"github.com/liminos-studio/site/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
